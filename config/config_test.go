package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("explicit missing config path must error")
	}

	// без явного пути отсутствие файла не ошибка
	wd, _ := os.Getwd()
	tmp := t.TempDir()
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.Server.HTTPPort != "8000" {
		t.Fatalf("default port: %q", cfg.Server.HTTPPort)
	}
	if cfg.Storage.Driver != "" {
		t.Fatalf("default driver must be in-memory, got %q", cfg.Storage.Driver)
	}
	if cfg.RetentionWindow() != time.Hour {
		t.Fatalf("default retention: %v", cfg.RetentionWindow())
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
server:
  http_port: "9001"
storage:
  driver: redis
  redis:
    addr: "127.0.0.1:6380"
retention:
  window_seconds: 120
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.HTTPPort != "9001" {
		t.Fatalf("port: %q", cfg.Server.HTTPPort)
	}
	if cfg.Storage.Driver != "redis" || cfg.Storage.Redis.Addr != "127.0.0.1:6380" {
		t.Fatalf("storage: %+v", cfg.Storage)
	}
	if cfg.RetentionWindow() != 2*time.Minute {
		t.Fatalf("retention: %v", cfg.RetentionWindow())
	}
}
