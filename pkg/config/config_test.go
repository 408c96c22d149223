package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Engine.SoftRefreshAge != 25*24*time.Hour {
		t.Errorf("Engine.SoftRefreshAge = %s, want 600h", cfg.Engine.SoftRefreshAge)
	}
	if cfg.Engine.HardExpiryAge != 30*24*time.Hour {
		t.Errorf("Engine.HardExpiryAge = %s, want 720h", cfg.Engine.HardExpiryAge)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9999
engine:
  defaultMaxResults: 50
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Engine.DefaultMaxResults != 50 {
		t.Errorf("Engine.DefaultMaxResults = %d, want 50", cfg.Engine.DefaultMaxResults)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	// untouched sections keep their defaults
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q, want default", cfg.Redis.Addr)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ML_SERVER_PORT", "7070")
	t.Setenv("ML_POSTGRES_HOST", "db.internal")
	t.Setenv("ML_KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Postgres.Host != "db.internal" {
		t.Errorf("Postgres.Host = %q, want db.internal", cfg.Postgres.Host)
	}
	if !cfg.Kafka.Enabled || len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("Kafka = %+v, want enabled with 2 brokers", cfg.Kafka)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, true},
		{"expiry before refresh", func(c *Config) {
			c.Engine.HardExpiryAge = c.Engine.SoftRefreshAge - time.Hour
		}, true},
		{"zero max results", func(c *Config) { c.Engine.DefaultMaxResults = 0 }, true},
		{"kafka without brokers", func(c *Config) {
			c.Kafka.Enabled = true
			c.Kafka.Brokers = nil
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{
		Host: "localhost", Port: 5432, User: "app", Password: "secret",
		Database: "content", SSLMode: "disable",
	}
	want := "host=localhost port=5432 user=app password=secret dbname=content sslmode=disable"
	if got := p.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
