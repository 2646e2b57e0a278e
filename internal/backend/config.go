package backend

import "fmt"

// Config carries everything a backend implementation may need. Unused
// fields are ignored by the other backends.
type Config struct {
	Type Type

	// SQLite configuration
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Supabase configuration
	SupabaseURL     string
	SupabaseAnonKey string
}

// Validate checks the fields required by the selected backend type.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
		// AMQP is optional.

	case SupabaseBackend:
		if c.SupabaseURL == "" {
			return fmt.Errorf("Supabase URL is required for supabase backend")
		}
		if c.SupabaseAnonKey == "" {
			return fmt.Errorf("Supabase anon key is required for supabase backend")
		}

	case MemoryBackend:
		// Nothing to validate.
	}

	return nil
}

// Types returns all valid backend types.
func Types() []Type {
	return []Type{MemoryBackend, SQLiteBackend, SupabaseBackend}
}
