package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Port:                "8081",
		SQLiteDBPath:        "./data/daftar.db",
		AMQPExchange:        "daftar",
		AMQPQueue:           "sync_records",
		OpenAIModel:         "gpt-4o-mini",
		AssistantTimeout:    30 * time.Second,
		InvoiceTaxRateBP:    900,
		UpcomingChecksLimit: 5,
		Locale:              "en",
		SyncBatchSize:       10,
		SyncInterval:        30 * time.Second,
		DataBackend:         "memory",
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"bad port", func(c *Config) { c.Port = "abc" }, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "invalid port"},
		{"bad backend", func(c *Config) { c.DataBackend = "redis" }, "invalid data backend"},
		{"supabase without url", func(c *Config) { c.DataBackend = "supabase" }, "SUPABASE_URL is required"},
		{"bad amqp scheme", func(c *Config) { c.AMQPURL = "http://localhost" }, "invalid AMQP URL scheme"},
		{"amqp without queue", func(c *Config) { c.AMQPURL = "amqp://localhost"; c.AMQPQueue = "" }, "queue name cannot be empty"},
		{"negative tax rate", func(c *Config) { c.InvoiceTaxRateBP = -1 }, "invalid invoice tax rate"},
		{"tax rate over 100%", func(c *Config) { c.InvoiceTaxRateBP = 10001 }, "invalid invoice tax rate"},
		{"zero checks limit", func(c *Config) { c.UpcomingChecksLimit = 0 }, "invalid upcoming checks limit"},
		{"bad locale", func(c *Config) { c.Locale = "de" }, "invalid locale"},
		{"short assistant timeout", func(c *Config) { c.AssistantTimeout = time.Millisecond }, "invalid assistant timeout"},
		{"zero batch size", func(c *Config) { c.SyncBatchSize = 0 }, "invalid sync batch size"},
		{"short sync interval", func(c *Config) { c.SyncInterval = time.Millisecond }, "invalid sync interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("expected error to contain %q, got: %v", tt.wantMsg, err)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.Locale = "de"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "invalid port") || !strings.Contains(err.Error(), "invalid locale") {
		t.Fatalf("expected both errors reported, got: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8081" {
		t.Errorf("Port = %s, want 8081", cfg.Port)
	}
	if cfg.DataBackend != "memory" {
		t.Errorf("DataBackend = %s, want memory", cfg.DataBackend)
	}
	if cfg.InvoiceTaxRateBP != 900 {
		t.Errorf("InvoiceTaxRateBP = %d, want 900", cfg.InvoiceTaxRateBP)
	}
	if cfg.UpcomingChecksLimit != 5 {
		t.Errorf("UpcomingChecksLimit = %d, want 5", cfg.UpcomingChecksLimit)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}
