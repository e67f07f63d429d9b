package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{envAPIURL, envLogLevel, envSessionPath, envConsolePort, envRedisAddr} {
		t.Setenv(k, "")
	}
	// .env is read from the working directory
	t.Chdir(t.TempDir())
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.API.BaseURL != def.API.BaseURL || cfg.Console.Port != def.Console.Port || cfg.Session.Store != SessionStoreFile {
		t.Errorf("Load = %+v, want defaults", cfg)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
api:
  base_url: https://plates.example.org/api
  timeout: 10s
console:
  port: 9000
  allowed_origins: [http://localhost:5173]
search:
  default_radius_km: 5
  max_radius_km: 25
notifications:
  poll_interval: 1m
log:
  level: debug
`)
	t.Setenv(envConsolePort, "9100")
	t.Setenv(envLogLevel, "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://plates.example.org/api" || cfg.API.Timeout != 10*time.Second {
		t.Errorf("api = %+v", cfg.API)
	}
	if cfg.Console.Port != 9100 || cfg.Log.Level != "warn" {
		t.Errorf("environment should win: port %d level %q", cfg.Console.Port, cfg.Log.Level)
	}
	if cfg.Console.Host != "127.0.0.1" {
		t.Errorf("omitted host should keep its default, got %q", cfg.Console.Host)
	}
	if len(cfg.Console.AllowedOrigins) != 1 || cfg.Search.MaxRadiusKM != 25 || cfg.Notifications.PollInterval != time.Minute {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.Console.Addr() != "127.0.0.1:9100" {
		t.Errorf("Addr = %q", cfg.Console.Addr())
	}
}

func TestRedisAddrSelectsRedisStore(t *testing.T) {
	clearEnv(t)
	t.Setenv(envRedisAddr, "redis.internal:6380")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Session.Store != SessionStoreRedis || cfg.Session.Redis.Addr != "redis.internal:6380" {
		t.Errorf("session = %+v", cfg.Session)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"base url", "api:\n  base_url: not a url\n", "api.base_url"},
		{"radius", "search:\n  default_radius_km: 50\n  max_radius_km: 10\n", "search radius"},
		{"store", "session:\n  store: sqlite\n", "session.store"},
		{"port", "console:\n  port: 70000\n", "console.port"},
		{"yaml", "api: [unterminated\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}

	t.Setenv(envConsolePort, "eighty")
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("a non-numeric port override should fail")
	}
}
