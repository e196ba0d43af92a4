// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/animestats/internal/config"
	"github.com/tomtom215/animestats/internal/logging"
	"github.com/tomtom215/animestats/internal/metrics"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	catalogPath string
	timezone    string
)

var rootCmd = &cobra.Command{
	Use:   "animestats",
	Short: "Franchise statistics for anime watch lists",
	Long: `animestats joins a user's anime watch list with an anime catalog and
reports favorite franchises, this week's air schedule and upcoming episode
releases.

Settings come from defaults, an optional config.yaml and the environment;
flags override all three.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Catalog file (overrides CATALOG_PATH)")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "", "Default IANA timezone (overrides USER_TIMEZONE)")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration, applies flag overrides and
// initializes logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if catalogPath != "" || timezone != "" {
		if catalogPath != "" {
			cfg.Catalog.Path = catalogPath
		}
		if timezone != "" {
			cfg.Stats.Timezone = timezone
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid flags: %w", err)
		}
	}

	logging.Init(cfg.Logging.ToLogging())
	metrics.SetAppInfo(version)
	return cfg, nil
}
