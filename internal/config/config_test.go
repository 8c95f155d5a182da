package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Addr != ":4000" {
		t.Errorf("expected default addr :4000, got %q", cfg.Addr)
	}
	if cfg.DBPath != "najdeno.sqlite3" {
		t.Errorf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.UploadsDir != "uploads" {
		t.Errorf("expected default uploads dir, got %q", cfg.UploadsDir)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := "addr: \":9000\"\ndb: custom.db\njwt_secret: topsecret\n"
	if err := os.WriteFile(filepath.Join(dir, "najdeno.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Chdir(dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Addr != ":9000" {
		t.Errorf("expected addr :9000, got %q", cfg.Addr)
	}
	if cfg.DBPath != "custom.db" {
		t.Errorf("expected db custom.db, got %q", cfg.DBPath)
	}
	if cfg.JWTSecret != "topsecret" {
		t.Errorf("expected jwt secret from file, got %q", cfg.JWTSecret)
	}
	// Unset keys keep their defaults.
	if cfg.UploadsDir != "uploads" {
		t.Errorf("expected default uploads dir, got %q", cfg.UploadsDir)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("NAJDENO_ADDR", ":5000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":5000" {
		t.Errorf("expected addr from env, got %q", cfg.Addr)
	}
}
