package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Supabase
	SupabaseURL       string
	SupabaseAnonKey   string
	SupabaseJWTSecret string

	// Assistant
	OpenAIAPIKey     string
	OpenAIModel      string
	AssistantTimeout time.Duration

	// Invoicing
	InvoiceTaxRateBP int

	// Dashboard
	UpcomingChecksLimit int
	Locale              string

	// Worker
	SyncBatchSize int
	SyncInterval  time.Duration

	// Backend selection
	DataBackend string
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8081"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/daftar.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "daftar"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "sync_records"),

		SupabaseURL:       getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey:   getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseJWTSecret: getEnv("SUPABASE_JWT_SECRET", ""),

		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		AssistantTimeout: getEnvDuration("ASSISTANT_TIMEOUT", 30*time.Second),

		InvoiceTaxRateBP: getEnvInt("INVOICE_TAX_RATE_BP", 900),

		UpcomingChecksLimit: getEnvInt("UPCOMING_CHECKS_LIMIT", 5),
		Locale:              getEnv("LOCALE", "en"),

		SyncBatchSize: getEnvInt("SYNC_BATCH_SIZE", 10),
		SyncInterval:  getEnvDuration("SYNC_INTERVAL", 30*time.Second),

		DataBackend: getEnv("DATA_BACKEND", "memory"),
	}
}

// Validate checks the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"memory", "sqlite", "supabase"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.DataBackend == "supabase" {
		if c.SupabaseURL == "" {
			errors = append(errors, "SUPABASE_URL is required when using supabase backend")
		}
		if c.SupabaseAnonKey == "" {
			errors = append(errors, "SUPABASE_ANON_KEY is required when using supabase backend")
		}
	}

	if c.SupabaseURL != "" {
		if parsedURL, err := url.Parse(c.SupabaseURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid Supabase URL '%s': %v", c.SupabaseURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid Supabase URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.InvoiceTaxRateBP < 0 || c.InvoiceTaxRateBP > 10000 {
		errors = append(errors, fmt.Sprintf("invalid invoice tax rate %d: must be between 0 and 10000 basis points", c.InvoiceTaxRateBP))
	}

	if c.UpcomingChecksLimit < 1 || c.UpcomingChecksLimit > 100 {
		errors = append(errors, fmt.Sprintf("invalid upcoming checks limit %d: must be between 1 and 100", c.UpcomingChecksLimit))
	}

	if c.Locale != "en" && c.Locale != "fa" {
		errors = append(errors, fmt.Sprintf("invalid locale '%s': must be 'en' or 'fa'", c.Locale))
	}

	if c.AssistantTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid assistant timeout %v: must be at least 1 second", c.AssistantTimeout))
	} else if c.AssistantTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid assistant timeout %v: must be at most 5 minutes", c.AssistantTimeout))
	}

	if c.SyncBatchSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid sync batch size %d: must be at least 1", c.SyncBatchSize))
	} else if c.SyncBatchSize > 1000 {
		errors = append(errors, fmt.Sprintf("invalid sync batch size %d: must be at most 1000", c.SyncBatchSize))
	}

	if c.SyncInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at least 1 second", c.SyncInterval))
	} else if c.SyncInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at most 24 hours", c.SyncInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
