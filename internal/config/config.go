package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the console
type Config struct {
	API           APIConfig           `yaml:"api"`
	Console       ConsoleConfig       `yaml:"console"`
	Session       SessionConfig       `yaml:"session"`
	Search        SearchConfig        `yaml:"search"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Log           LogConfig           `yaml:"log"`
}

// APIConfig holds the remote backend configuration
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ConsoleConfig holds the local console server configuration
type ConsoleConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// SessionConfig holds the session storage configuration. The file store
// keeps the session on the device; the redis store lets several console
// replicas share it.
type SessionConfig struct {
	Store string      `yaml:"store"`
	Path  string      `yaml:"path"`
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig holds the redis session store configuration
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Key      string        `yaml:"key"`
	TTL      time.Duration `yaml:"ttl"`
}

const (
	SessionStoreFile  = "file"
	SessionStoreRedis = "redis"
)

// SearchConfig holds the NGO search defaults
type SearchConfig struct {
	DefaultRadiusKM float64 `yaml:"default_radius_km"`
	MaxRadiusKM     float64 `yaml:"max_radius_km"`
	FallbackLat     float64 `yaml:"fallback_latitude"`
	FallbackLng     float64 `yaml:"fallback_longitude"`
}

// NotificationsConfig holds the notification bell configuration
type NotificationsConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

const (
	envAPIURL      = "PLATES_API_URL"
	envLogLevel    = "PLATES_LOG_LEVEL"
	envSessionPath = "PLATES_SESSION_PATH"
	envConsolePort = "PLATES_CONSOLE_PORT"
	envRedisAddr   = "PLATES_REDIS_ADDR"
)

// Default returns the configuration used for every field the file omits
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000/api",
			Timeout: 30 * time.Second,
		},
		Console: ConsoleConfig{
			Host: "127.0.0.1",
			Port: 8100,
		},
		Session: SessionConfig{
			Store: SessionStoreFile,
			Path:  defaultSessionPath(),
			Redis: RedisConfig{
				Addr: "localhost:6379",
				Key:  "plates-console:session",
				TTL:  7 * 24 * time.Hour,
			},
		},
		Search: SearchConfig{
			DefaultRadiusKM: 10,
			MaxRadiusKM:     100,
			FallbackLat:     19.076,
			FallbackLng:     72.8777,
		},
		Notifications: NotificationsConfig{
			PollInterval: 30 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file, then applies .env and
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// .env is optional; system environment wins over it
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(envAPIURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(envSessionPath); v != "" {
		c.Session.Path = v
	}
	if v := os.Getenv(envRedisAddr); v != "" {
		c.Session.Store = SessionStoreRedis
		c.Session.Redis.Addr = v
	}
	if v := os.Getenv(envConsolePort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envConsolePort, err)
		}
		c.Console.Port = port
	}
	return nil
}

// Validate checks the configuration for values the console cannot run with
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.Console.Port <= 0 || c.Console.Port > 65535 {
		return fmt.Errorf("invalid console.port %d", c.Console.Port)
	}
	switch c.Session.Store {
	case SessionStoreFile:
		if c.Session.Path == "" {
			return fmt.Errorf("session.path is required")
		}
	case SessionStoreRedis:
		if c.Session.Redis.Addr == "" || c.Session.Redis.Key == "" {
			return fmt.Errorf("session.redis.addr and session.redis.key are required")
		}
	default:
		return fmt.Errorf("invalid session.store %q", c.Session.Store)
	}
	if c.Search.DefaultRadiusKM <= 0 || c.Search.MaxRadiusKM < c.Search.DefaultRadiusKM {
		return fmt.Errorf("search radius must satisfy 0 < default_radius_km <= max_radius_km")
	}
	if c.Notifications.PollInterval <= 0 {
		return fmt.Errorf("notifications.poll_interval must be positive")
	}
	return nil
}

// Addr returns the console listen address
func (c *ConsoleConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "plates-session.json"
	}
	return filepath.Join(dir, "plates-console", "session.json")
}
