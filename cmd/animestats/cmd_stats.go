// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/animestats/internal/catalog"
	"github.com/tomtom215/animestats/internal/config"
	"github.com/tomtom215/animestats/internal/database"
	"github.com/tomtom215/animestats/internal/logging"
	"github.com/tomtom215/animestats/internal/metrics"
	"github.com/tomtom215/animestats/internal/models"
	"github.com/tomtom215/animestats/internal/resolve"
	"github.com/tomtom215/animestats/internal/stats"
	"github.com/tomtom215/animestats/internal/userlist"
)

var (
	userListPath string
	outputPath   string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Compute stats for one watch list and print them as JSON",
	Long: `Compute favorite franchises, the weekly air schedule and next releases
for a single watch list.

The watch list may be a JSON export ({"user_list": [...]} or a bare array)
or any file DuckDB reads (.parquet, .ndjson, .csv). Entries whose anime_id
is not in the catalog are counted in unmatched_count and logged.`,
	Example: `  animestats stats --user-list mylist.json --catalog catalog.parquet --timezone Europe/Berlin
  animestats stats --user-list mylist.csv --output stats.json`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVarP(&userListPath, "user-list", "u", "", "Watch list file")
	statsCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write JSON here instead of stdout")
	_ = statsCmd.MarkFlagRequired("user-list")
}

func runStats(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	resp, err := computeStats(cmd.Context(), cfg, db)
	if err != nil {
		return err
	}

	if err := writeJSON(resp, outputPath, cmd.OutOrStdout()); err != nil {
		return err
	}

	if cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logging.Warn().Err(err).Str("path", cfg.Metrics.Textfile).Msg("Failed to write metrics textfile")
		}
	}
	return nil
}

func computeStats(ctx context.Context, cfg *config.Config, db *database.DB) (*models.StatsResponse, error) {
	store := catalog.NewStore(db, catalog.WithCache(cfg.Catalog.CacheSize, cfg.Catalog.CacheTTL))

	users, err := userlist.Load(ctx, userListPath, db)
	if err != nil {
		return nil, err
	}

	resolver := resolve.NewResolver(resolve.WithPreviewRows(cfg.Stats.PreviewRows))
	res, err := resolver.ResolveUserAnimes(ctx, users, store, cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}

	bundle, err := stats.NewOrchestrator(cfg.Stats.MaxParallelism).ComputeStats(ctx, res.Animes, nil, cfg.Stats.Timezone)
	if err != nil {
		return nil, err
	}

	logging.Info().
		Int("animes", res.Animes.Height()).
		Int("unmatched", res.UnmatchedCount).
		Int("franchises", bundle.FavoriteFranchises.Height()).
		Msg("Stats computed")
	return &models.StatsResponse{Stats: bundle, UnmatchedCount: res.UnmatchedCount}, nil
}

// writeJSON writes v indented to path, or to stdout when path is empty.
func writeJSON(v any, path string, stdout io.Writer) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
