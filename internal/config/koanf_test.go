// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// isolate runs the test in an empty directory with every mapped variable
// and CONFIG_PATH unset.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(ConfigPathEnvVar, "")
	for key := range envMappings {
		t.Setenv(strings.ToUpper(key), "")
		os.Unsetenv(strings.ToUpper(key))
	}
	return dir
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.Catalog.Path != "/data/anime_catalog.parquet" {
		t.Errorf("Catalog.Path = %q", cfg.Catalog.Path)
	}
	if cfg.Catalog.CacheSize != 4 || cfg.Catalog.CacheTTL != time.Hour || cfg.Catalog.RefreshInterval != 0 {
		t.Errorf("Catalog = %+v", cfg.Catalog)
	}
	if cfg.Stats.Timezone != "UTC" || cfg.Stats.PreviewRows != 10 || cfg.Stats.MaxParallelism != 0 {
		t.Errorf("Stats = %+v", cfg.Stats)
	}
	if cfg.Database.MaxMemory != "1GB" {
		t.Errorf("Database.MaxMemory = %q, want 1GB", cfg.Database.MaxMemory)
	}
	if got := cfg.Server.Addr(); got != "0.0.0.0:3858" {
		t.Errorf("Server.Addr() = %q", got)
	}
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("Server.Timeout = %v", cfg.Server.Timeout)
	}
	if cfg.Security.RateLimitReqs != 60 || cfg.Security.RateLimitWindow != time.Minute {
		t.Errorf("rate limit = %d per %v", cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input, expected string
	}{
		{"CATALOG_PATH", "catalog.path"},
		{"CATALOG_REFRESH_INTERVAL", "catalog.refresh_interval"},
		{"USER_TIMEZONE", "stats.timezone"},
		{"STATS_MAX_PARALLELISM", "stats.max_parallelism"},
		{"DUCKDB_MAX_MEMORY", "database.max_memory"},
		{"HTTP_PORT", "server.port"},
		{"RATE_LIMIT_REQUESTS", "security.rate_limit_reqs"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"LOG_LEVEL", "logging.level"},
		{"METRICS_TEXTFILE", "metrics.textfile"},
		{"log_format", "logging.format"},
		{"PATH", ""},
		{"HOME", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.input); got != tt.expected {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := isolate(t)

	if got := FindConfigFile(); got != "" {
		t.Errorf("FindConfigFile() = %q, want empty", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte("a: 1"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := FindConfigFile(); got != "config.yml" {
		t.Errorf("FindConfigFile() = %q, want config.yml", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("a: 1"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := FindConfigFile(); got != "config.yaml" {
		t.Errorf("FindConfigFile() = %q, want config.yaml to win over config.yml", got)
	}

	custom := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(custom, []byte("a: 1"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, custom)
	if got := FindConfigFile(); got != custom {
		t.Errorf("FindConfigFile() = %q, want %q", got, custom)
	}

	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	if got := FindConfigFile(); got != "config.yaml" {
		t.Errorf("FindConfigFile() = %q, want fallback to config.yaml", got)
	}
}

func TestLoadWithKoanf_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if diff := cmp.Diff(defaultConfig(), cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadWithKoanf_EnvVars(t *testing.T) {
	isolate(t)

	t.Setenv("CATALOG_PATH", "/srv/catalog.json")
	t.Setenv("USER_TIMEZONE", "Europe/Berlin")
	t.Setenv("STATS_MAX_PARALLELISM", "2")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_CALLER", "true")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Catalog.Path != "/srv/catalog.json" {
		t.Errorf("Catalog.Path = %q", cfg.Catalog.Path)
	}
	if cfg.Stats.Timezone != "Europe/Berlin" || cfg.Stats.MaxParallelism != 2 {
		t.Errorf("Stats = %+v", cfg.Stats)
	}
	if cfg.Server.Port != 9000 || cfg.Server.Timeout != 5*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if diff := cmp.Diff([]string{"https://a.example", "https://b.example"}, cfg.Security.CORSOrigins); diff != "" {
		t.Errorf("CORSOrigins mismatch (-want +got):\n%s", diff)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.Caller {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want default", cfg.Server.Host)
	}
}

func TestLoadWithKoanf_ConfigFile(t *testing.T) {
	dir := isolate(t)

	content := `
catalog:
  path: /srv/catalog.csv
stats:
  timezone: America/New_York
  preview_rows: 3
database:
  max_memory: 512MB
  threads: 4
security:
  cors_origins:
    - https://a.example
logging:
  format: console
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Catalog.Path != "/srv/catalog.csv" {
		t.Errorf("Catalog.Path = %q", cfg.Catalog.Path)
	}
	if cfg.Stats.Timezone != "America/New_York" || cfg.Stats.PreviewRows != 3 {
		t.Errorf("Stats = %+v", cfg.Stats)
	}
	if cfg.Database.MaxMemory != "512MB" || cfg.Database.Threads != 4 {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if diff := cmp.Diff([]string{"https://a.example"}, cfg.Security.CORSOrigins); diff != "" {
		t.Errorf("CORSOrigins mismatch (-want +got):\n%s", diff)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q", cfg.Logging.Format)
	}
}

func TestLoadWithKoanf_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "elsewhere.yaml")
	if err := os.WriteFile(path, []byte("stats:\n  timezone: Asia/Tokyo\nserver:\n  port: 7000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("USER_TIMEZONE", "Europe/Paris")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Stats.Timezone != "Europe/Paris" {
		t.Errorf("Stats.Timezone = %q, want env value", cfg.Stats.Timezone)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want file value", cfg.Server.Port)
	}
}

func TestLoadWithKoanf_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value, want string
	}{
		{"unknown timezone", "USER_TIMEZONE", "Nowhere/Special", "Timezone"},
		{"local timezone", "USER_TIMEZONE", "Local", "Timezone"},
		{"port out of range", "HTTP_PORT", "70000", "Port"},
		{"bad log level", "LOG_LEVEL", "verbose", "Level"},
		{"bad log format", "LOG_FORMAT", "xml", "Format"},
		{"catalog extension", "CATALOG_PATH", "/srv/catalog.xlsx", "CATALOG_PATH"},
		{"negative parallelism", "STATS_MAX_PARALLELISM", "-1", "MaxParallelism"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadWithKoanf()
			if err == nil {
				t.Fatal("LoadWithKoanf() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidate_RateLimitWindow(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Security.RateLimitWindow = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for a zero window with a request limit")
	}

	cfg.Security.RateLimitDisabled = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled rate limit should not need a window: %v", err)
	}
}

func TestToLogging(t *testing.T) {
	t.Parallel()

	lc := LoggingConfig{Level: "warn", Format: "console", Caller: true}.ToLogging()
	if lc.Level != "warn" || lc.Format != "console" || !lc.Caller || !lc.Timestamp {
		t.Errorf("ToLogging() = %+v", lc)
	}
	if lc.Output != os.Stderr {
		t.Error("logs should go to stderr")
	}
}
