package gallery

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/docker/go-units"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config contains gallery lifecycle configuration.
type Config struct {
	// Store selects the Record Store backend: "postgres" or "memory".
	Store string `toml:"store"`

	// IOTimeout bounds each individual storage or database call.
	IOTimeout string `toml:"io_timeout"`

	// CleanupConcurrency limits parallel blob deletions during cleanup.
	CleanupConcurrency int `toml:"cleanup_concurrency"`

	// MaxRequestSize bounds a whole multipart request body ("64MiB").
	MaxRequestSize string `toml:"max_request_size"`
}

// Env maps environment variable names for gallery configuration.
type Env struct {
	Store              string
	IOTimeout          string
	CleanupConcurrency string
	MaxRequestSize     string
}

// IOTimeoutDuration returns IOTimeout parsed. Valid after Finalize.
func (c *Config) IOTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.IOTimeout)
	return d
}

// MaxRequestSizeBytes returns MaxRequestSize parsed. Valid after Finalize.
func (c *Config) MaxRequestSizeBytes() int64 {
	n, _ := units.RAMInBytes(c.MaxRequestSize)
	return n
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies non-zero values from the overlay configuration.
func (c *Config) Merge(overlay *Config) {
	if overlay.Store != "" {
		c.Store = overlay.Store
	}
	if overlay.IOTimeout != "" {
		c.IOTimeout = overlay.IOTimeout
	}
	if overlay.CleanupConcurrency > 0 {
		c.CleanupConcurrency = overlay.CleanupConcurrency
	}
	if overlay.MaxRequestSize != "" {
		c.MaxRequestSize = overlay.MaxRequestSize
	}
}

func (c *Config) loadDefaults() {
	if c.Store == "" {
		c.Store = StorePostgres
	}
	if c.IOTimeout == "" {
		c.IOTimeout = "10s"
	}
	if c.CleanupConcurrency <= 0 {
		c.CleanupConcurrency = 4
	}
	if c.MaxRequestSize == "" {
		c.MaxRequestSize = "64MiB"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Store != "" {
		if v := os.Getenv(env.Store); v != "" {
			c.Store = v
		}
	}
	if env.IOTimeout != "" {
		if v := os.Getenv(env.IOTimeout); v != "" {
			c.IOTimeout = v
		}
	}
	if env.CleanupConcurrency != "" {
		if v := os.Getenv(env.CleanupConcurrency); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.CleanupConcurrency = n
			}
		}
	}
	if env.MaxRequestSize != "" {
		if v := os.Getenv(env.MaxRequestSize); v != "" {
			c.MaxRequestSize = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Store {
	case StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("invalid store: %s (must be postgres or memory)", c.Store)
	}

	d, err := time.ParseDuration(c.IOTimeout)
	if err != nil {
		return fmt.Errorf("invalid io_timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("io_timeout must be positive")
	}

	if c.CleanupConcurrency <= 0 {
		return fmt.Errorf("cleanup_concurrency must be positive")
	}

	if _, err := units.RAMInBytes(c.MaxRequestSize); err != nil {
		return fmt.Errorf("invalid max_request_size: %w", err)
	}
	return nil
}
