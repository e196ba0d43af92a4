// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/animestats/internal/logging"
)

// CatalogRefresher rereads a catalog file into its cache.
// Satisfied by *catalog.Store.
type CatalogRefresher interface {
	Refresh(ctx context.Context, path string) error
}

// CatalogRefreshService rescans the catalog on a fixed interval so that
// requests are served from a warm cache. The first scan happens as soon as
// the service starts.
//
// A failed refresh is logged and retried on the next tick; the supervisor
// only sees an error if the service cannot run at all.
type CatalogRefreshService struct {
	store    CatalogRefresher
	path     string
	interval time.Duration
	logger   zerolog.Logger
}

// NewCatalogRefreshService refreshes path every interval. A non-positive
// interval means 15 minutes.
func NewCatalogRefreshService(store CatalogRefresher, path string, interval time.Duration) *CatalogRefreshService {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &CatalogRefreshService{
		store:    store,
		path:     path,
		interval: interval,
		logger:   logging.WithComponent("catalog-refresh"),
	}
}

// Serve implements suture.Service.
func (s *CatalogRefreshService) Serve(ctx context.Context) error {
	s.refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *CatalogRefreshService) refresh(ctx context.Context) {
	if err := s.store.Refresh(ctx, s.path); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Catalog refresh failed")
	}
}

// String names the service in supervisor events.
func (s *CatalogRefreshService) String() string {
	return "catalog-refresh"
}
