// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultListenAddr         = ":8080"
	DefaultMaxConns           = 10
	DefaultQueryTimeout       = 5 * time.Second
	DefaultTopCategoriesLimit = 3
)

// Config holds all configuration for the ledger engine. It is loaded once
// at startup and passed into the store and engine at construction time;
// nothing reads the environment after Load returns.
type Config struct {
	DatabaseURL         string
	ListenAddr          string
	LogLevel            string
	MaxConns            int32
	QueryTimeout        time.Duration
	TopCategoriesLimit  int
	DisallowFutureDates bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		ListenAddr:         DefaultListenAddr,
		LogLevel:           os.Getenv("LOG_LEVEL"),
		MaxConns:           DefaultMaxConns,
		QueryTimeout:       DefaultQueryTimeout,
		TopCategoriesLimit: DefaultTopCategoriesLimit,
	}

	if addr := os.Getenv("LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}

	if maxStr := os.Getenv("DB_MAX_CONNS"); maxStr != "" {
		if n, err := strconv.Atoi(maxStr); err == nil && n > 0 {
			cfg.MaxConns = int32(n)
		}
	}

	if timeoutStr := os.Getenv("DB_QUERY_TIMEOUT"); timeoutStr != "" {
		if d, err := time.ParseDuration(timeoutStr); err == nil && d > 0 {
			cfg.QueryTimeout = d
		}
	}

	if limitStr := os.Getenv("TOP_CATEGORIES_LIMIT"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n >= 1 {
			cfg.TopCategoriesLimit = n
		}
	}

	cfg.DisallowFutureDates = os.Getenv("DISALLOW_FUTURE_DATES") == "true"

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that all required configuration is present.
func (c *Config) validate() error {
	var errs []string

	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
