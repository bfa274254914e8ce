// Package daemon loads configuration and assembles the pointmoney process:
// storage backend, registries, use-cases and the HTTP server.
package daemon

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the contents of ~/.pointmoney/config.toml.
type Config struct {
	API     APIConfig     `toml:"api"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
	Auth    AuthConfig    `toml:"auth"`
}

// APIConfig controls the HTTP listener.
type APIConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Metrics bool   `toml:"metrics"`
}

// Addr returns host:port.
func (c APIConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// StorageConfig selects where the registry slots live.
type StorageConfig struct {
	Backend     string `toml:"backend"` // sqlite|redis|memory
	Dir         string `toml:"dir"`
	RedisURL    string `toml:"redis_url"`
	RedisPrefix string `toml:"redis_prefix"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // console|json
}

// AuthConfig controls API session tokens.
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	TokenTTL  string `toml:"token_ttl"`
}

// TTL parses TokenTTL, defaulting to 12h.
func (c AuthConfig) TTL() time.Duration {
	d, err := time.ParseDuration(c.TokenTTL)
	if err != nil || d <= 0 {
		return 12 * time.Hour
	}
	return d
}

// DefaultDir returns ~/.pointmoney.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pointmoney"
	}
	return filepath.Join(home, ".pointmoney")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.toml")
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:    "127.0.0.1",
			Port:    8420,
			Metrics: true,
		},
		Storage: StorageConfig{
			Backend:     BackendSQLite,
			Dir:         DefaultDir(),
			RedisURL:    "redis://localhost:6379/0",
			RedisPrefix: "pointmoney:",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Auth: AuthConfig{
			TokenTTL: "12h",
		},
	}
}

// LoadConfig reads path over the defaults and then applies POINTMONEY_*
// environment overrides. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultPath()
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("stat config %s: %w", path, err)
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	cfg.Storage.Dir = expandHome(cfg.Storage.Dir)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides fields from the environment.
func (c *Config) applyEnv(getenv func(string) string) error {
	set := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set("POINTMONEY_API_HOST", &c.API.Host)
	set("POINTMONEY_STORAGE_BACKEND", &c.Storage.Backend)
	set("POINTMONEY_STORAGE_DIR", &c.Storage.Dir)
	set("POINTMONEY_REDIS_URL", &c.Storage.RedisURL)
	set("POINTMONEY_LOG_LEVEL", &c.Log.Level)
	set("POINTMONEY_LOG_FORMAT", &c.Log.Format)
	set("POINTMONEY_JWT_SECRET", &c.Auth.JWTSecret)

	if v := getenv("POINTMONEY_API_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("POINTMONEY_API_PORT: %w", err)
		}
		c.API.Port = port
	}
	return nil
}

// Validate checks values the process cannot start without.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("storage.backend %q: want sqlite, redis or memory", c.Storage.Backend)
	}
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port %d out of range", c.API.Port)
	}
	if c.Storage.Backend == BackendSQLite && c.Storage.Dir == "" {
		return fmt.Errorf("storage.dir is required for the sqlite backend")
	}
	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
