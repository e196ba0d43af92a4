// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

// Package releases predicts the next episode of the airing and upcoming
// shows on a user's list.
//
// Shows are assumed to release one episode a week in their broadcast slot,
// starting with the first slot on or after air_start. Without a slot the
// air_start instant itself is the first release.
package releases

import (
	"fmt"
	"slices"
	"time"

	"github.com/tomtom215/animestats/internal/frame"
	"github.com/tomtom215/animestats/internal/models"
	"github.com/tomtom215/animestats/internal/plan"
	"github.com/tomtom215/animestats/internal/schedule"
)

const week = 7 * 24 * time.Hour

// Fields is the schema of the next releases table.
var Fields = []frame.Field{
	{Name: models.ColAnimeID, Kind: frame.KindUint64},
	{Name: models.ColTitleLocalized, Kind: frame.KindString},
	{Name: models.ColNextEpisode, Kind: frame.KindInt64},
	{Name: models.ColNextReleaseAt, Kind: frame.KindTime},
	{Name: models.ColEpisodesBehind, Kind: frame.KindInt64},
}

// NextReleases computes the next releases table.
type NextReleases struct {
	Now func() time.Time

	// WatchStatuses selects the user list entries to predict releases for.
	WatchStatuses []string
}

// New returns a NextReleases for shows being watched or planned.
func New() *NextReleases {
	return &NextReleases{
		Now:           time.Now,
		WatchStatuses: []string{models.WatchStatusWatching, models.WatchStatusPlanToWatch},
	}
}

// Plan returns the deferred next releases computation over resolved user
// animes. The collected table is final.
func (n *NextReleases) Plan(src *plan.Plan) *plan.Plan {
	return src.Then(models.StatNextReleases, n.Compute)
}

type release struct {
	row    int
	next   int64
	at     time.Time
	behind int64
}

// Compute predicts one release per qualifying show, soonest first. Shows
// whose known episode count has already aired are left out.
func (n *NextReleases) Compute(animes *frame.Frame) (*frame.Frame, error) {
	if animes == nil {
		return nil, fmt.Errorf("%w: nil table", frame.ErrSchemaViolation)
	}
	if err := animes.Require(models.ColAnimeID, models.ColTitleLocalized, models.ColStatus,
		models.ColUserWatchStatus, models.ColAirStart); err != nil {
		return nil, fmt.Errorf("next releases: %w", err)
	}

	now := n.now()
	var out []release
	for row := 0; row < animes.Height(); row++ {
		status := animes.Value(row, models.ColStatus)
		if status != models.StatusCurrentlyAiring && status != models.StatusNotYetAired {
			continue
		}
		watch, _ := frame.AsString(animes.Value(row, models.ColUserWatchStatus))
		if !slices.Contains(n.WatchStatuses, watch) {
			continue
		}
		start, ok := animes.Value(row, models.ColAirStart).(time.Time)
		if !ok {
			continue
		}

		first := firstRelease(animes, row, start)
		aired := int64(0)
		if !now.Before(first) {
			aired = int64(now.Sub(first)/week) + 1
		}
		next := aired + 1
		if total, ok := animes.Value(row, models.ColEpisodes).(int64); ok && total > 0 && next > total {
			continue
		}

		watched, _ := animes.Value(row, models.ColUserWatchEpisodes).(int64)
		out = append(out, release{
			row:    row,
			next:   next,
			at:     first.AddDate(0, 0, 7*int(aired)).UTC(),
			behind: max(0, aired-watched),
		})
	}

	slices.SortStableFunc(out, func(a, b release) int {
		return a.at.Compare(b.at)
	})

	cols := make([][]any, len(Fields))
	for i := range cols {
		cols[i] = make([]any, len(out))
	}
	for i, r := range out {
		cols[0][i] = animes.Value(r.row, models.ColAnimeID)
		cols[1][i] = animes.Value(r.row, models.ColTitleLocalized)
		cols[2][i] = r.next
		cols[3][i] = r.at
		cols[4][i] = r.behind
	}
	return frame.New(Fields, cols...)
}

// firstRelease places episode 1 in the first broadcast slot on or after the
// air_start date, read in broadcaster time.
func firstRelease(animes *frame.Frame, row int, start time.Time) time.Time {
	day, _ := frame.AsString(animes.Value(row, models.ColBroadcastDay))
	clock, _ := frame.AsString(animes.Value(row, models.ColBroadcastTime))
	slot, ok := schedule.ParseSlot(day, clock)
	if !ok {
		return start
	}
	y, m, d := start.Date()
	return slot.Next(time.Date(y, m, d, 0, 0, 0, 0, schedule.BroadcastLocation()))
}

func (n *NextReleases) now() time.Time {
	if n.Now == nil {
		return time.Now()
	}
	return n.Now()
}
