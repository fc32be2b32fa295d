package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.JWT.CacheTTL() != time.Hour {
		t.Fatalf("jwks cache ttl got=%s want=1h", cfg.JWT.CacheTTL())
	}
	if cfg.JWT.FetchTimeout() != 10*time.Second {
		t.Fatalf("jwks timeout got=%s want=10s", cfg.JWT.FetchTimeout())
	}
	if cfg.Auth.DevMode {
		t.Fatalf("dev mode must be off by default")
	}
	if cfg.Upload.MaxInitiateSize != 100*1024*1024 {
		t.Fatalf("unexpected initiate limit: %d", cfg.Upload.MaxInitiateSize)
	}
	if cfg.Storage.RemoteEnabled() {
		t.Fatalf("remote storage should be disabled without credentials")
	}
	if Get() != cfg {
		t.Fatalf("Get should return the loaded config")
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
app:
  port: 9090
database:
  driver: sqlite
  sqlite_path: test.db
jwt:
  jwks_url: https://issuer.example.com/.well-known/jwks.json
  audience: music-app
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("JWT_ISSUER", "https://issuer.example.com/")
	t.Setenv("AUTH_DEV_MODE", "true")
	t.Setenv("APP_PORT", "7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Port != 7070 {
		t.Fatalf("env should override file port, got %d", cfg.App.Port)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.SQLitePath != "test.db" {
		t.Fatalf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.JWT.Audience != "music-app" {
		t.Fatalf("audience got=%q", cfg.JWT.Audience)
	}
	if cfg.JWT.Issuer != "https://issuer.example.com/" {
		t.Fatalf("issuer got=%q", cfg.JWT.Issuer)
	}
	if !cfg.Auth.DevMode {
		t.Fatalf("AUTH_DEV_MODE should enable dev mode")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "mysql")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
