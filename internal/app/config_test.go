package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadConfigLayersFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bankadmin.yaml")
	yml := `
environment: staging
http:
  addr: ":9000"
  cors_origins: ["https://admin.bank.test"]
bank_api:
  url: "https://api.bank.test/api/v1/"
  timeout: 5s
session:
  secret: "` + testSecret + `"
  ttl: 2h
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BANK_API_TIMEOUT", "30")
	t.Setenv("PORT", "7070")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Environment != "staging" {
		t.Fatalf("environment: want=staging got=%q", cfg.Environment)
	}
	if cfg.HTTP.Addr != ":7070" {
		t.Fatalf("addr: want=:7070 got=%q", cfg.HTTP.Addr)
	}
	if cfg.BankAPI.Timeout != 30*time.Second {
		t.Fatalf("timeout: want=30s got=%s", cfg.BankAPI.Timeout)
	}
	if cfg.Session.TTL != 2*time.Hour {
		t.Fatalf("ttl: want=2h got=%s", cfg.Session.TTL)
	}
	if len(cfg.HTTP.CORSOrigins) != 1 || cfg.HTTP.CORSOrigins[0] != "https://admin.bank.test" {
		t.Fatalf("cors: got=%v", cfg.HTTP.CORSOrigins)
	}
	if cfg.Session.Store != SessionStoreMemory {
		t.Fatalf("store default: want=memory got=%q", cfg.Session.Store)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("sesion:\n  secret: x\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("want error for misspelled key")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Session.Secret = "short"
	cfg.BankAPI.URL = "localhost:8000"
	cfg.Session.Store = "memcached"

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("want validation error")
	}
	for _, want := range []string{"session secret", "bank api url", "unknown session store"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error missing %q: %v", want, err)
		}
	}

	cfg = DefaultConfig()
	cfg.Session.Secret = testSecret
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults with secret: %v", err)
	}
}

func TestEnvSelectsRedisStore(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("SESSION_STORE", "REDIS")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("BANKADMIN_CONFIG", "")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Session.Store != SessionStoreRedis || cfg.Redis.Addr != "redis:6379" {
		t.Fatalf("redis: got store=%q addr=%q", cfg.Session.Store, cfg.Redis.Addr)
	}
}
