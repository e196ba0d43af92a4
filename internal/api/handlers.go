// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package api

import (
	"context"
	"time"

	"github.com/tomtom215/animestats/internal/config"
	"github.com/tomtom215/animestats/internal/frame"
	"github.com/tomtom215/animestats/internal/models"
	"github.com/tomtom215/animestats/internal/resolve"
	"github.com/tomtom215/animestats/internal/stats"
)

// Pinger reports database liveness. Satisfied by *database.DB.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatsComputer builds a stats bundle. Satisfied by *stats.Orchestrator.
type StatsComputer interface {
	ComputeStats(ctx context.Context, animes, franchises *frame.Frame, tz string) (*models.StatsBundle, error)
}

// Dependencies are the collaborators of a Handler. Resolver and Stats
// default to the standard implementations configured from the Config.
type Dependencies struct {
	DB       Pinger
	Catalog  resolve.CatalogScanner
	Resolver *resolve.Resolver
	Stats    StatsComputer
}

// Handler serves the stats API.
type Handler struct {
	db       Pinger
	catalog  resolve.CatalogScanner
	resolver *resolve.Resolver
	stats    StatsComputer

	catalogPath  string
	timezone     string
	maxBodyBytes int64
	timeout      time.Duration

	version   string
	startTime time.Time
}

// NewHandler creates a Handler.
func NewHandler(cfg *config.Config, deps Dependencies, version string) *Handler {
	h := &Handler{
		db:           deps.DB,
		catalog:      deps.Catalog,
		resolver:     deps.Resolver,
		stats:        deps.Stats,
		catalogPath:  cfg.Catalog.Path,
		timezone:     cfg.Stats.Timezone,
		maxBodyBytes: cfg.Security.MaxBodyBytes,
		timeout:      cfg.Server.Timeout,
		version:      version,
		startTime:    time.Now(),
	}
	if h.resolver == nil {
		h.resolver = resolve.NewResolver(resolve.WithPreviewRows(cfg.Stats.PreviewRows))
	}
	if h.stats == nil {
		h.stats = stats.NewOrchestrator(cfg.Stats.MaxParallelism)
	}
	return h
}
