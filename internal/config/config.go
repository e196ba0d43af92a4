// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/tomtom215/animestats/internal/logging"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in defaults for every setting
//  2. Config File: optional YAML file (config.yaml, or CONFIG_PATH)
//  3. Environment Variables: override any mapped setting
//
// Config is not modified after Load returns and is safe for concurrent
// reads.
type Config struct {
	Catalog  CatalogConfig  `koanf:"catalog"`
	Stats    StatsConfig    `koanf:"stats"`
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

// CatalogConfig locates the anime catalog.
type CatalogConfig struct {
	// Path is a .parquet, .json, .ndjson or .csv file, or a glob DuckDB
	// accepts for those readers.
	Path string `koanf:"path" validate:"required"`

	// CacheSize is the number of scanned catalogs kept in memory; 0
	// disables caching.
	CacheSize int `koanf:"cache_size" validate:"gte=0"`

	// CacheTTL bounds how long a scanned catalog is reused.
	CacheTTL time.Duration `koanf:"cache_ttl" validate:"gte=0"`

	// RefreshInterval, when positive, rescans the catalog in the background
	// in serve mode so requests never wait on a cold cache.
	RefreshInterval time.Duration `koanf:"refresh_interval" validate:"gte=0"`
}

// StatsConfig tunes stats computation.
type StatsConfig struct {
	// Timezone is used when a request does not name one.
	Timezone string `koanf:"timezone" validate:"required,iana_tz"`

	// MaxParallelism bounds concurrent plan evaluation; 0 means unbounded.
	MaxParallelism int `koanf:"max_parallelism" validate:"gte=0,lte=64"`

	// PreviewRows is the number of unmatched user list rows logged.
	PreviewRows int `koanf:"preview_rows" validate:"gte=0,lte=1000"`
}

// DatabaseConfig holds DuckDB settings. The database is always in-memory;
// it only reads the catalog and user list files.
type DatabaseConfig struct {
	MaxMemory string `koanf:"max_memory" validate:"required"`
	Threads   int    `koanf:"threads" validate:"gte=0"` // 0 = use NumCPU
}

// ServerConfig holds HTTP server settings for serve mode.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig holds request limits for serve mode.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gte=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`

	// MaxBodyBytes caps the size of a stats request body.
	MaxBodyBytes int64 `koanf:"max_body_bytes" validate:"gt=0"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level" validate:"oneof=trace debug info warn error"`

	// Format is json or console.
	// Default: json
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// ToLogging converts the settings for logging.Init. Logs go to stderr
// so stats output on stdout stays clean.
func (l LoggingConfig) ToLogging() logging.Config {
	return logging.Config{
		Level:     l.Level,
		Format:    l.Format,
		Caller:    l.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	}
}

// MetricsConfig holds metrics export settings.
type MetricsConfig struct {
	// Textfile, when set, receives the registry in Prometheus text format
	// after each one-shot stats run (node_exporter textfile collector).
	Textfile string `koanf:"textfile"`
}

// Load loads configuration from defaults, an optional config file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
