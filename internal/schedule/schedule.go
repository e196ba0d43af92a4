// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package schedule

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/tomtom215/animestats/internal/frame"
	"github.com/tomtom215/animestats/internal/models"
	"github.com/tomtom215/animestats/internal/plan"
)

// Schedule builds the weekly air schedule of the shows a user follows.
type Schedule struct {
	// Now anchors the week that Finalize localizes into.
	Now func() time.Time

	// WatchStatuses selects the user list entries that belong on the
	// schedule.
	WatchStatuses []string
}

// New returns a Schedule for shows being watched or planned.
func New() *Schedule {
	return &Schedule{
		Now:           time.Now,
		WatchStatuses: []string{models.WatchStatusWatching, models.WatchStatusPlanToWatch},
	}
}

// Fields is the schema of the collected, not yet finalized schedule.
var Fields = []frame.Field{
	{Name: models.ColAnimeID, Kind: frame.KindUint64},
	{Name: models.ColTitleLocalized, Kind: frame.KindString},
	{Name: models.ColBroadcastDay, Kind: frame.KindString},
	{Name: models.ColBroadcastTime, Kind: frame.KindString},
}

// Plan returns the deferred schedule computation over resolved user animes.
func (s *Schedule) Plan(src *plan.Plan) *plan.Plan {
	return src.Then(models.StatAirSchedule, s.Compute)
}

// Compute keeps currently airing shows with a followed watch status and a
// known broadcast slot. Broadcast days are normalized to their English
// weekday name and rows are ordered by slot in broadcaster time.
func (s *Schedule) Compute(animes *frame.Frame) (*frame.Frame, error) {
	if animes == nil {
		return nil, fmt.Errorf("%w: nil table", frame.ErrSchemaViolation)
	}
	if err := animes.Require(models.ColAnimeID, models.ColTitleLocalized, models.ColStatus,
		models.ColUserWatchStatus, models.ColBroadcastDay, models.ColBroadcastTime); err != nil {
		return nil, fmt.Errorf("air schedule: %w", err)
	}

	type entry struct {
		row  int
		slot Slot
	}
	var entries []entry
	for row := 0; row < animes.Height(); row++ {
		if animes.Value(row, models.ColStatus) != models.StatusCurrentlyAiring {
			continue
		}
		status, _ := frame.AsString(animes.Value(row, models.ColUserWatchStatus))
		if !slices.Contains(s.WatchStatuses, status) {
			continue
		}
		day, _ := frame.AsString(animes.Value(row, models.ColBroadcastDay))
		clock, _ := frame.AsString(animes.Value(row, models.ColBroadcastTime))
		slot, ok := ParseSlot(day, clock)
		if !ok {
			continue
		}
		entries = append(entries, entry{row: row, slot: slot})
	}

	slices.SortStableFunc(entries, func(a, b entry) int {
		return compareSlots(a.slot, b.slot)
	})

	cols := make([][]any, len(Fields))
	for i := range cols {
		cols[i] = make([]any, len(entries))
	}
	for i, e := range entries {
		cols[0][i] = animes.Value(e.row, models.ColAnimeID)
		cols[1][i] = animes.Value(e.row, models.ColTitleLocalized)
		cols[2][i] = e.slot.Weekday.String()
		cols[3][i] = e.slot.Clock()
	}
	return frame.New(Fields, cols...)
}

// Finalize converts each broadcast slot of the current week to tz and adds
// the local_day and local_time columns, ordering rows by local weekday and
// time.
func (s *Schedule) Finalize(collected *frame.Frame, tz string) (*frame.Frame, error) {
	loc, err := LoadLocation(tz)
	if err != nil {
		return nil, err
	}
	if collected == nil {
		return nil, fmt.Errorf("%w: nil table", frame.ErrSchemaViolation)
	}
	if err := collected.Require(models.ColBroadcastDay, models.ColBroadcastTime); err != nil {
		return nil, fmt.Errorf("finalize air schedule: %w", err)
	}

	monday := WeekStart(s.now())
	local := make([]time.Time, collected.Height())
	days := make([]any, collected.Height())
	clocks := make([]any, collected.Height())
	for row := range local {
		day, _ := frame.AsString(collected.Value(row, models.ColBroadcastDay))
		clock, _ := frame.AsString(collected.Value(row, models.ColBroadcastTime))
		slot, ok := ParseSlot(day, clock)
		if !ok {
			return nil, fmt.Errorf("%w: row %d has no broadcast slot", frame.ErrSchemaViolation, row)
		}
		local[row] = slot.On(monday).In(loc)
		days[row] = local[row].Weekday().String()
		clocks[row] = local[row].Format("15:04")
	}

	out, err := collected.WithColumn(frame.Field{Name: models.ColLocalDay, Kind: frame.KindString}, days)
	if err != nil {
		return nil, err
	}
	out, err = out.WithColumn(frame.Field{Name: models.ColLocalTime, Kind: frame.KindString}, clocks)
	if err != nil {
		return nil, err
	}

	order := make([]int, len(local))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return compareLocal(local[a], local[b])
	})
	return out.Take(order), nil
}

func (s *Schedule) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func compareSlots(a, b Slot) int {
	return cmp.Or(
		cmp.Compare(weekIndex(a.Weekday), weekIndex(b.Weekday)),
		cmp.Compare(a.Hour, b.Hour),
		cmp.Compare(a.Minute, b.Minute),
	)
}

// compareLocal orders by wall clock within a Monday-first week, ignoring the
// date, so a slot that wraps into the next local week still sorts by weekday.
func compareLocal(a, b time.Time) int {
	return cmp.Or(
		cmp.Compare(weekIndex(a.Weekday()), weekIndex(b.Weekday())),
		cmp.Compare(a.Hour(), b.Hour()),
		cmp.Compare(a.Minute(), b.Minute()),
	)
}
