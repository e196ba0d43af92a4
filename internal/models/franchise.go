// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package models

import (
	"fmt"

	"github.com/tomtom215/animestats/internal/frame"
)

// FranchiseSummary is one aggregated franchise row. Nil pointers are nulls.
type FranchiseSummary struct {
	Franchise         string   `json:"franchise"`
	Episodes          int64    `json:"episodes"`
	UserWatchEpisodes int64    `json:"user_watch_episodes"`
	TotalDurationSec  int64    `json:"total_duration_sec"`
	ScoredAvg         *float64 `json:"scored_avg"`
	UserScored        *float64 `json:"user_scored"`
	Genres            []string `json:"genres"`
	Themes            []string `json:"themes"`
	Demographics      []string `json:"demographics"`
	Studios           []string `json:"studios"`
	Licensors         []string `json:"licensors"`
	Producers         []string `json:"producers"`
	Source            []string `json:"source"`
	Rating            []string `json:"rating"`
	Type              []string `json:"type"`
	SFW               bool     `json:"sfw"`
	UserRewatching    bool     `json:"user_rewatching"`
	AnimeIDs          []uint64 `json:"anime_id"`
}

// FranchiseSummaries decodes an aggregated franchise frame.
func FranchiseSummaries(f *frame.Frame) ([]FranchiseSummary, error) {
	if err := f.Require(ColFranchise); err != nil {
		return nil, err
	}

	out := make([]FranchiseSummary, f.Height())
	for row := range out {
		s := &out[row]
		name, ok := frame.AsString(f.Value(row, ColFranchise))
		if !ok {
			return nil, fmt.Errorf("%w: row %d has a null franchise", frame.ErrSchemaViolation, row)
		}
		s.Franchise = name
		s.Episodes = int64Cell(f.Value(row, ColEpisodes))
		s.UserWatchEpisodes = int64Cell(f.Value(row, ColUserWatchEpisodes))
		s.TotalDurationSec = int64Cell(f.Value(row, ColTotalDurationSec))
		s.ScoredAvg = floatCell(f.Value(row, ColScoredAvg))
		s.UserScored = floatCell(f.Value(row, ColUserScored))
		s.Genres = frame.AsStrings(f.Value(row, ColGenres))
		s.Themes = frame.AsStrings(f.Value(row, ColThemes))
		s.Demographics = frame.AsStrings(f.Value(row, ColDemographics))
		s.Studios = frame.AsStrings(f.Value(row, ColStudios))
		s.Licensors = frame.AsStrings(f.Value(row, ColLicensors))
		s.Producers = frame.AsStrings(f.Value(row, ColProducers))
		s.Source = frame.AsStrings(f.Value(row, ColSource))
		s.Rating = frame.AsStrings(f.Value(row, ColRating))
		s.Type = frame.AsStrings(f.Value(row, ColType))
		s.SFW, _ = f.Value(row, ColSFW).(bool)
		s.UserRewatching, _ = f.Value(row, ColUserRewatching).(bool)
		s.AnimeIDs, _ = f.Value(row, ColAnimeID).([]uint64)
	}
	return out, nil
}

func int64Cell(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case uint64:
		return int64(n) //nolint:gosec // aggregated episode counts stay far below MaxInt64
	}
	return 0
}

func floatCell(v any) *float64 {
	if x, ok := frame.AsFloat(v); ok {
		return &x
	}
	return nil
}
