// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/animestats/internal/api"
	"github.com/tomtom215/animestats/internal/catalog"
	"github.com/tomtom215/animestats/internal/config"
	"github.com/tomtom215/animestats/internal/database"
	"github.com/tomtom215/animestats/internal/logging"
	"github.com/tomtom215/animestats/internal/supervisor"
	"github.com/tomtom215/animestats/internal/supervisor/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the stats HTTP API",
	Long: `Serve POST /api/v1/stats and friends under a supervisor tree.

The catalog is scanned on first use and cached; set
CATALOG_REFRESH_INTERVAL to rescan it in the background. SIGINT or SIGTERM
drains in-flight requests and exits.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logging.Info().
		Str("version", version).
		Str("catalog", cfg.Catalog.Path).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting animestats with supervisor tree")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	store := catalog.NewStore(db, catalog.WithCache(cfg.Catalog.CacheSize, cfg.Catalog.CacheTTL))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.Timeout + 5*time.Second,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	handler := api.NewHandler(cfg, api.Dependencies{DB: db, Catalog: store}, version)
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(handler, cfg).Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Timeout))

	if cfg.Catalog.RefreshInterval > 0 {
		tree.AddCatalogService(services.NewCatalogRefreshService(store, cfg.Catalog.Path, cfg.Catalog.RefreshInterval))
		logging.Info().Dur("interval", cfg.Catalog.RefreshInterval).Msg("Background catalog refresh enabled")
	}

	watchLogLevel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	logging.Info().Msg("Starting supervisor tree...")
	for err := range tree.ServeBackground(ctx) {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("animestats stopped gracefully")
	return nil
}

// watchLogLevel reapplies the log level when the config file changes.
// Other settings need a restart.
func watchLogLevel() {
	path := config.FindConfigFile()
	if path == "" {
		return
	}
	err := config.WatchConfigFile(path, func() {
		cfg, err := config.Load()
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Ignoring invalid config change")
			return
		}
		logging.SetLevelString(cfg.Logging.Level)
		logging.Info().Str("level", cfg.Logging.Level).Msg("Log level reloaded")
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Config file watch unavailable")
	}
}
