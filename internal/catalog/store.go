// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

// Package catalog loads the anime catalog table.
//
// A Store reads catalog files through DuckDB and keeps recent scans in a
// small LRU cache, so a server answering many stats requests reads the
// catalog once. Concurrent scans of the same path share one read, which
// runs detached from any single caller's cancellation.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/animestats/internal/cache"
	"github.com/tomtom215/animestats/internal/frame"
	"github.com/tomtom215/animestats/internal/logging"
	"github.com/tomtom215/animestats/internal/metrics"
	"github.com/tomtom215/animestats/internal/models"
)

// FileReader reads a columnar file into a frame. *database.DB implements it.
type FileReader interface {
	ReadFile(ctx context.Context, path string, fields []frame.Field, required []string) (*frame.Frame, error)
}

// Store scans catalog files.
type Store struct {
	reader FileReader
	cache  *cache.LRU[*frame.Frame]
	group  singleflight.Group
	logger *zerolog.Logger

	scanTimeout time.Duration
}

// DefaultScanTimeout bounds a shared catalog read.
const DefaultScanTimeout = 5 * time.Minute

// Option configures a Store.
type Option func(*Store)

// WithCache keeps up to size scanned catalogs for ttl. A non-positive ttl
// keeps them until evicted. A size of zero disables caching.
func WithCache(size int, ttl time.Duration) Option {
	return func(s *Store) {
		if size <= 0 {
			s.cache = nil
			return
		}
		s.cache = cache.NewLRU[*frame.Frame](size, ttl)
	}
}

// WithLogger sets the store logger. The context logger is used otherwise.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = &l
	}
}

// WithScanTimeout bounds each shared read. Zero means no bound.
func WithScanTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.scanTimeout = d
	}
}

// NewStore returns a Store reading through reader. By default it caches
// the four most recent catalogs for an hour.
func NewStore(reader FileReader, opts ...Option) *Store {
	s := &Store{
		reader:      reader,
		cache:       cache.NewLRU[*frame.Frame](4, time.Hour),
		scanTimeout: DefaultScanTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan returns the catalog stored at path with models.CatalogSchema.
// anime_id is UInt64. Columns absent from the file are null; a file
// without anime_id or title fails with frame.ErrSchemaViolation.
func (s *Store) Scan(ctx context.Context, path string) (*frame.Frame, error) {
	if s.cache != nil {
		if f, ok := s.cache.Get(path); ok {
			return f, nil
		}
	}

	f, shared, err := s.do(ctx, path)
	if err != nil {
		return nil, err
	}
	if shared {
		s.log(ctx).Debug().Str("path", path).Msg("Catalog scan shared")
	}
	return f, nil
}

// Invalidate drops a cached catalog so the next Scan reads the file again.
func (s *Store) Invalidate(path string) {
	if s.cache != nil {
		s.cache.Remove(path)
	}
}

// Refresh rereads path and replaces the cached catalog. On failure the
// previously cached catalog stays in place.
func (s *Store) Refresh(ctx context.Context, path string) error {
	_, _, err := s.do(ctx, path)
	return err
}

// do joins the in-flight read of path or starts one. The read keeps the
// caller's context values but not its cancellation, so one caller giving
// up never fails the others; each caller stops waiting on its own ctx.
func (s *Store) do(ctx context.Context, path string) (*frame.Frame, bool, error) {
	ch := s.group.DoChan(path, func() (any, error) {
		scanCtx := context.WithoutCancel(ctx)
		if s.scanTimeout > 0 {
			var cancel context.CancelFunc
			scanCtx, cancel = context.WithTimeout(scanCtx, s.scanTimeout)
			defer cancel()
		}
		return s.scan(scanCtx, path)
	})

	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("catalog: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Shared, res.Err
		}
		return res.Val.(*frame.Frame), res.Shared, nil
	}
}

func (s *Store) scan(ctx context.Context, path string) (f *frame.Frame, err error) {
	start := time.Now()
	defer func() {
		rows := 0
		if f != nil {
			rows = f.Height()
		}
		metrics.RecordCatalogScan(time.Since(start), rows, err)
	}()

	f, err = s.reader.ReadFile(ctx, path, models.CatalogSchema, models.CatalogRequired)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if s.cache != nil {
		s.cache.Add(path, f)
	}

	s.log(ctx).Info().
		Str("path", path).
		Int("rows", f.Height()).
		Dur("elapsed", time.Since(start)).
		Msg("Catalog scanned")
	return f, nil
}

func (s *Store) log(ctx context.Context) *zerolog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logging.Ctx(ctx)
}
