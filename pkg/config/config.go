// Package config provides the unified configuration system for Explorer.
// It defines a single BaseConfig structure shared by the CLI and all
// catalog readers, ensuring consistent configuration across the system.
//
// The configuration is organized into logical sections:
//   - Timeouts: Connection and request timeouts for catalog endpoints
//   - Reliability: Retry logic and rate limiting
//   - Logging: Verbosity and encoding of structured logs
//   - Catalogs: Per-catalog endpoint overrides and credentials
//
// Example usage:
//
//	cfg := config.NewBaseConfig()
//	cfg.Reliability.RateLimitPerSec = 5
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BaseConfig is the configuration structure shared by the CLI and all
// catalog readers.
type BaseConfig struct {
	// DataDir is where downloaded databases and saved sessions live
	DataDir string `yaml:"data_dir" json:"data_dir"`

	// Logging controls structured log output
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Timeouts define various timeout durations
	Timeouts TimeoutConfig `yaml:"timeouts" json:"timeouts"`

	// Reliability settings for error handling and resilience
	Reliability ReliabilityConfig `yaml:"reliability" json:"reliability"`

	// Catalogs holds per-catalog overrides keyed by catalog name
	Catalogs map[string]CatalogConfig `yaml:"catalogs" json:"catalogs"`
}

// LoggingConfig controls structured log output.
type LoggingConfig struct {
	// Level sets logging verbosity (debug, info, warn, error)
	Level string `yaml:"level" json:"level"`
	// Encoding selects the log format (json or console)
	Encoding string `yaml:"encoding" json:"encoding"`
	// Development enables colored, human-oriented output
	Development bool `yaml:"development" json:"development"`
}

// TimeoutConfig contains all timeout-related settings.
// These prevent catalog requests from hanging indefinitely.
type TimeoutConfig struct {
	// Request timeout for individual catalog requests
	Request time.Duration `yaml:"request" json:"request"`
	// Connection timeout for establishing connections
	Connection time.Duration `yaml:"connection" json:"connection"`
	// Idle timeout before closing inactive connections
	Idle time.Duration `yaml:"idle" json:"idle"`
	// KeepAlive interval for connection health checks
	KeepAlive time.Duration `yaml:"keep_alive" json:"keep_alive"`
}

// ReliabilityConfig contains reliability and error handling settings.
// Public catalogs throttle aggressive clients, so rate limiting is on
// by default.
type ReliabilityConfig struct {
	// RetryAttempts sets maximum retry attempts for failed requests
	RetryAttempts int `yaml:"retry_attempts" json:"retry_attempts"`
	// RetryDelay is the initial delay between retries
	RetryDelay time.Duration `yaml:"retry_delay" json:"retry_delay"`
	// RetryMultiplier increases delay exponentially
	RetryMultiplier float64 `yaml:"retry_multiplier" json:"retry_multiplier"`
	// MaxRetryDelay caps the maximum retry delay
	MaxRetryDelay time.Duration `yaml:"max_retry_delay" json:"max_retry_delay"`
	// RateLimitPerSec limits requests per second per catalog (0 = unlimited)
	RateLimitPerSec int `yaml:"rate_limit_per_sec" json:"rate_limit_per_sec"`
}

// CatalogConfig holds per-catalog overrides.
type CatalogConfig struct {
	// Endpoint overrides the catalog's default endpoint URL
	Endpoint string `yaml:"endpoint" json:"endpoint"`
	// APIKey holds an access token for catalogs that require one
	APIKey string `yaml:"api_key" json:"api_key"`
	// RecordsPerPage overrides the default page size for this catalog
	RecordsPerPage int `yaml:"records_per_page" json:"records_per_page"`
	// Disabled removes the catalog from listings and searches
	Disabled bool `yaml:"disabled" json:"disabled"`
}

// NewBaseConfig creates a new BaseConfig with sensible defaults.
func NewBaseConfig() *BaseConfig {
	return &BaseConfig{
		DataDir: defaultDataDir(),
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "console",
		},
		Timeouts: TimeoutConfig{
			Request:    30 * time.Second,
			Connection: 10 * time.Second,
			Idle:       5 * time.Minute,
			KeepAlive:  30 * time.Second,
		},
		Reliability: ReliabilityConfig{
			RetryAttempts:   3,
			RetryDelay:      time.Second,
			RetryMultiplier: 2.0,
			MaxRetryDelay:   60 * time.Second,
			RateLimitPerSec: 10,
		},
		Catalogs: make(map[string]CatalogConfig),
	}
}

// defaultDataDir resolves the per-user data directory. Falls back to a
// relative directory when no home directory is available.
func defaultDataDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "edpop-explorer")
	}
	return ".edpop-explorer"
}

// Validate validates the configuration for correctness.
// It checks required fields and ensures values are within acceptable
// ranges. Callers should invoke this after loading configuration to
// catch errors early.
func (bc *BaseConfig) Validate() error {
	if bc.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if bc.Reliability.RetryAttempts < 0 {
		return fmt.Errorf("retry_attempts cannot be negative")
	}
	if bc.Reliability.RateLimitPerSec < 0 {
		return fmt.Errorf("rate_limit_per_sec cannot be negative")
	}
	for name, cat := range bc.Catalogs {
		if cat.RecordsPerPage < 0 {
			return fmt.Errorf("catalog %s: records_per_page cannot be negative", name)
		}
	}
	return nil
}

// Catalog returns the override section for a catalog, or a zero value
// when none is configured.
func (bc *BaseConfig) Catalog(name string) CatalogConfig {
	return bc.Catalogs[name]
}

// IsRateLimited returns true if rate limiting is enabled
func (r *ReliabilityConfig) IsRateLimited() bool {
	return r.RateLimitPerSec > 0
}
