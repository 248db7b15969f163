package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleConfig = `
app:
  name: bbq-reserve
  environment: test
telegram:
  bot_token: ${BOT_TOKEN}
  debug: true
database:
  path: data/reservations.db
redis:
  address: localhost:6379
  db: 1
  pool_size: 5
session:
  backend: memory
  ttl: 45m
  sweep_interval: 90s
monitoring:
  prometheus_enabled: true
  prometheus_port: 9091
logging:
  level: debug
  format: console
exports:
  path: exports
managers: [111, 222]
blacklist: [333]
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BOT_TOKEN", "123:secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Telegram.BotToken != "123:secret" {
		t.Errorf("env expansion failed, token = %q", cfg.Telegram.BotToken)
	}
	if cfg.Session.TTL.Std() != 45*time.Minute {
		t.Errorf("session ttl = %v, want 45m", cfg.Session.TTL.Std())
	}
	if cfg.Session.SweepInterval.Std() != 90*time.Second {
		t.Errorf("sweep interval = %v, want 90s", cfg.Session.SweepInterval.Std())
	}
	if cfg.Database.Path != "data/reservations.db" {
		t.Errorf("database path = %q", cfg.Database.Path)
	}
	if len(cfg.Managers) != 2 || cfg.Managers[0] != 111 {
		t.Errorf("managers = %v", cfg.Managers)
	}
	if len(cfg.Blacklist) != 1 || cfg.Blacklist[0] != 333 {
		t.Errorf("blacklist = %v", cfg.Blacklist)
	}
	if !cfg.Monitoring.PrometheusEnabled || cfg.Monitoring.PrometheusPort != 9091 {
		t.Errorf("monitoring = %+v", cfg.Monitoring)
	}
}

func TestLoadBadDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("session:\n  ttl: soon\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unparsable duration")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
