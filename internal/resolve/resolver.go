// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/animestats/internal/frame"
	"github.com/tomtom215/animestats/internal/logging"
	"github.com/tomtom215/animestats/internal/metrics"
	"github.com/tomtom215/animestats/internal/models"
)

// DefaultPreviewRows is how many unmatched rows are included in the warning.
const DefaultPreviewRows = 10

// collisionSuffix is appended to catalog columns whose name is already used
// by the user list.
const collisionSuffix = "_right"

// ErrInvalidCatalog marks failures caused by the catalog side of the join.
// It always accompanies frame.ErrSchemaViolation, so callers can tell a
// broken catalog from a broken user list.
var ErrInvalidCatalog = errors.New("invalid catalog")

// CatalogScanner loads the catalog table stored at path.
type CatalogScanner interface {
	Scan(ctx context.Context, path string) (*frame.Frame, error)
}

// Resolution is the outcome of joining a user list against the catalog.
type Resolution struct {
	// Animes holds one row per user record with a catalog match, in user
	// list order.
	Animes *frame.Frame

	// Unmatched holds the user records whose anime_id is not in the catalog.
	Unmatched *frame.Frame

	// UnmatchedCount is Unmatched.Height().
	UnmatchedCount int
}

// Resolver joins user watch lists against the anime catalog.
type Resolver struct {
	previewRows int
	logger      *zerolog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPreviewRows sets how many unmatched rows are logged.
func WithPreviewRows(n int) Option {
	return func(r *Resolver) {
		if n >= 0 {
			r.previewRows = n
		}
	}
}

// WithLogger overrides the context logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func WithLogger(l zerolog.Logger) Option {
	return func(r *Resolver) {
		r.logger = &l
	}
}

// NewResolver creates a Resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{previewRows: DefaultPreviewRows}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveUserAnimes scans the catalog at path and resolves userList against it.
func (r *Resolver) ResolveUserAnimes(ctx context.Context, userList *frame.Frame, store CatalogScanner, path string) (*Resolution, error) {
	catalog, err := store.Scan(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("scan catalog %s: %w", path, err)
	}
	return r.Resolve(ctx, userList, catalog)
}

// Resolve inner-joins userList with catalog on anime_id.
//
// Both sides must have unique keys; a duplicate on either side fails with
// frame.ErrSchemaViolation instead of multiplying rows. User records without
// a catalog entry are dropped from the result, logged at warning level and
// returned in Resolution.Unmatched.
func (r *Resolver) Resolve(ctx context.Context, userList, catalog *frame.Frame) (*Resolution, error) {
	userList, err := castKey(userList, "user list")
	if err != nil {
		return nil, err
	}
	catalog, err = castKey(catalog, "catalog")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if err := catalog.Require(models.ColTitle); err != nil {
		return nil, fmt.Errorf("%w: catalog: %w", ErrInvalidCatalog, err)
	}

	catalogIndex, err := uniqueIndex(catalog, "catalog")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if _, err := uniqueIndex(userList, "user list"); err != nil {
		return nil, err
	}

	var left, right, missing []int
	for row := 0; row < userList.Height(); row++ {
		id, ok := userList.Value(row, models.ColAnimeID).(uint64)
		if !ok {
			missing = append(missing, row)
			continue
		}
		match, found := catalogIndex[id]
		if !found {
			missing = append(missing, row)
			continue
		}
		left = append(left, row)
		right = append(right, match)
	}

	catalogPart := catalog.Drop(models.ColAnimeID).Take(right)
	localized, err := localizedTitles(catalogPart)
	if err != nil {
		return nil, err
	}

	joined := userList.Take(left)
	for _, field := range catalogPart.Fields() {
		values, _ := catalogPart.Column(field.Name)
		name := field.Name
		if joined.Has(name) {
			name += collisionSuffix
		}
		joined, err = joined.WithColumn(frame.Field{Name: name, Kind: field.Kind}, values)
		if err != nil {
			return nil, fmt.Errorf("join column %s: %w", field.Name, err)
		}
	}
	joined, err = joined.WithColumn(frame.Field{Name: models.ColTitleLocalized, Kind: frame.KindString}, localized)
	if err != nil {
		return nil, err
	}

	res := &Resolution{
		Animes:         joined,
		Unmatched:      userList.Take(missing),
		UnmatchedCount: len(missing),
	}

	metrics.RecordResolution(joined.Height(), res.UnmatchedCount)
	if res.UnmatchedCount > 0 {
		r.log(ctx).Warn().
			Int("count", res.UnmatchedCount).
			Interface("preview", res.Unmatched.Head(r.previewRows).Records()).
			Msgf("%d anime not found in catalog", res.UnmatchedCount)
	}

	return res, nil
}

func (r *Resolver) log(ctx context.Context) *zerolog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return logging.Ctx(ctx)
}

// castKey makes sure anime_id is an unsigned 64-bit column so both sides of
// the join compare the same Go type.
func castKey(f *frame.Frame, side string) (*frame.Frame, error) {
	if f == nil {
		return nil, fmt.Errorf("%s: %w: nil table", side, frame.ErrSchemaViolation)
	}
	if err := f.RequireKind(models.ColAnimeID, frame.KindUint64, frame.KindInt64, frame.KindFloat64); err != nil {
		return nil, fmt.Errorf("%s: %w", side, err)
	}
	out, err := f.Cast(models.ColAnimeID, frame.KindUint64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", side, err)
	}
	return out, nil
}

// uniqueIndex maps each non-null anime_id to its row. Null keys never match
// and are not indexed.
func uniqueIndex(f *frame.Frame, side string) (map[uint64]int, error) {
	index := make(map[uint64]int, f.Height())
	for row := 0; row < f.Height(); row++ {
		id, ok := f.Value(row, models.ColAnimeID).(uint64)
		if !ok {
			continue
		}
		if first, dup := index[id]; dup {
			return nil, fmt.Errorf("%s: %w: anime_id %d appears in rows %d and %d, join must be one-to-one",
				side, frame.ErrSchemaViolation, id, first, row)
		}
		index[id] = row
	}
	return index, nil
}

// localizedTitles returns title_english where present, else title.
func localizedTitles(catalog *frame.Frame) ([]any, error) {
	titles, err := catalog.Column(models.ColTitle)
	if err != nil {
		return nil, err
	}
	if !catalog.Has(models.ColTitleEnglish) {
		return titles, nil
	}
	english, err := catalog.Column(models.ColTitleEnglish)
	if err != nil {
		return nil, err
	}
	for i, v := range english {
		if s, ok := v.(string); ok {
			titles[i] = s
		}
	}
	return titles, nil
}
