package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, expected %q", cfg.Server.Port, "8080")
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Driver = %q, expected %q", cfg.Database.Driver, "sqlite")
	}
	if cfg.JWT.ExpireHour != 24 {
		t.Errorf("ExpireHour = %d, expected 24", cfg.JWT.ExpireHour)
	}
	if cfg.Activity.RetentionDays != 90 {
		t.Errorf("RetentionDays = %d, expected 90", cfg.Activity.RetentionDays)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  host: 127.0.0.1
  port: "9090"
  mode: release
database:
  driver: postgres
  dsn: host=localhost user=app dbname=taskflow
jwt:
  secret: file-secret
  expire_hour: 2
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Port = %q, expected %q", cfg.Server.Port, "9090")
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Driver = %q, expected %q", cfg.Database.Driver, "postgres")
	}
	if cfg.JWT.Secret != "file-secret" {
		t.Errorf("Secret = %q, expected %q", cfg.JWT.Secret, "file-secret")
	}
	// Unset values still get defaults
	if cfg.JWT.RefreshExpireHour != 24*7 {
		t.Errorf("RefreshExpireHour = %d, expected %d", cfg.JWT.RefreshExpireHour, 24*7)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Driver != "mysql" {
		t.Errorf("Driver = %q, expected %q", cfg.Database.Driver, "mysql")
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Errorf("Secret = %q, expected %q", cfg.JWT.Secret, "env-secret")
	}
}

func TestParseRedisURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.parseRedisURL("redis://:hunter2@redis.internal:6380/3")

	if cfg.Redis.Addr != "redis.internal:6380" {
		t.Errorf("Addr = %q, expected %q", cfg.Redis.Addr, "redis.internal:6380")
	}
	if cfg.Redis.Password != "hunter2" {
		t.Errorf("Password = %q, expected %q", cfg.Redis.Password, "hunter2")
	}
	if cfg.Redis.DB != 3 {
		t.Errorf("DB = %d, expected 3", cfg.Redis.DB)
	}
}

func TestParseRedisURL_NoAuth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.parseRedisURL("redis://localhost:6379/0")

	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Addr = %q, expected %q", cfg.Redis.Addr, "localhost:6379")
	}
	if cfg.Redis.Password != "" {
		t.Errorf("Password should be empty, got %q", cfg.Redis.Password)
	}
}
