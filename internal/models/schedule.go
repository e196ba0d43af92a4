// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package models

import (
	"time"

	"github.com/tomtom215/animestats/internal/frame"
)

// Derived schedule and release column names.
const (
	ColLocalDay       = "local_day"
	ColLocalTime      = "local_time"
	ColNextEpisode    = "next_episode"
	ColNextReleaseAt  = "next_release_at"
	ColEpisodesBehind = "episodes_behind"
)

// ScheduleSlot is one weekly broadcast slot, both in broadcaster time and in
// the user's timezone.
type ScheduleSlot struct {
	AnimeID        uint64 `json:"anime_id"`
	TitleLocalized string `json:"title_localized"`
	BroadcastDay   string `json:"broadcast_day"`
	BroadcastTime  string `json:"broadcast_time"`
	LocalDay       string `json:"local_day"`
	LocalTime      string `json:"local_time"`
}

// NextRelease is the predicted next episode of a show on the user's list.
type NextRelease struct {
	AnimeID        uint64    `json:"anime_id"`
	TitleLocalized string    `json:"title_localized"`
	NextEpisode    int64     `json:"next_episode"`
	NextReleaseAt  time.Time `json:"next_release_at"`
	EpisodesBehind int64     `json:"episodes_behind"`
}

// ScheduleSlots decodes a finalized schedule frame.
func ScheduleSlots(f *frame.Frame) ([]ScheduleSlot, error) {
	if err := f.Require(ColAnimeID, ColLocalDay, ColLocalTime); err != nil {
		return nil, err
	}
	out := make([]ScheduleSlot, f.Height())
	for row := range out {
		s := &out[row]
		s.AnimeID, _ = f.Value(row, ColAnimeID).(uint64)
		s.TitleLocalized, _ = frame.AsString(f.Value(row, ColTitleLocalized))
		s.BroadcastDay, _ = frame.AsString(f.Value(row, ColBroadcastDay))
		s.BroadcastTime, _ = frame.AsString(f.Value(row, ColBroadcastTime))
		s.LocalDay, _ = frame.AsString(f.Value(row, ColLocalDay))
		s.LocalTime, _ = frame.AsString(f.Value(row, ColLocalTime))
	}
	return out, nil
}

// NextReleases decodes a next-releases frame.
func NextReleases(f *frame.Frame) ([]NextRelease, error) {
	if err := f.Require(ColAnimeID, ColNextEpisode, ColNextReleaseAt); err != nil {
		return nil, err
	}
	out := make([]NextRelease, f.Height())
	for row := range out {
		r := &out[row]
		r.AnimeID, _ = f.Value(row, ColAnimeID).(uint64)
		r.TitleLocalized, _ = frame.AsString(f.Value(row, ColTitleLocalized))
		r.NextEpisode = int64Cell(f.Value(row, ColNextEpisode))
		r.NextReleaseAt, _ = f.Value(row, ColNextReleaseAt).(time.Time)
		r.EpisodesBehind = int64Cell(f.Value(row, ColEpisodesBehind))
	}
	return out, nil
}
