// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config filled with defaults.
// - Load layers a YAML file and environment variables over those defaults.
// - Validate reports problems wrapped in ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StoreBackend selects the backing store: memory, file, sqlite, redis.
	StoreBackend string `koanf:"store_backend"`

	// StorePath is the directory (file) or database file (sqlite).
	StorePath string `koanf:"store_path"`

	// StorePrefix namespaces keys in shared stores such as Redis.
	StorePrefix string `koanf:"store_prefix"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// ImportQueueSize bounds the number of pending background imports.
	ImportQueueSize int `koanf:"import_queue_size"`

	// ImportWorkers sets the number of background import workers.
	ImportWorkers int `koanf:"import_workers"`

	// SeedOnEmpty loads the sample records when a collection was never stored.
	SeedOnEmpty bool `koanf:"seed_on_empty"`

	// CORSOrigins is a comma-separated list of allowed browser origins.
	CORSOrigins string `koanf:"cors_origins"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		StoreBackend:    "file",
		StorePath:       "data",
		StorePrefix:     "agentdesk:",
		RedisAddr:       "localhost:6379",
		ImportQueueSize: 64,
		ImportWorkers:   2,
		SeedOnEmpty:     true,
		CORSOrigins:     "*",
	}
}

// Origins returns CORSOrigins split and trimmed.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	switch strings.ToLower(c.StoreBackend) {
	case "memory", "redis":
	case "file", "sqlite":
		if strings.TrimSpace(c.StorePath) == "" {
			return fmt.Errorf("%w: store_path is required for %s", ErrInvalidConfig, c.StoreBackend)
		}
	default:
		return fmt.Errorf("%w: store_backend %q", ErrInvalidConfig, c.StoreBackend)
	}
	if c.ImportQueueSize < 1 {
		return fmt.Errorf("%w: import_queue_size must be positive", ErrInvalidConfig)
	}
	if c.ImportWorkers < 1 {
		return fmt.Errorf("%w: import_workers must be positive", ErrInvalidConfig)
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("%w: redis_db must not be negative", ErrInvalidConfig)
	}
	return nil
}
