// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package models

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/animestats/internal/frame"
)

// Stat names, used as bundle keys and plan names.
const (
	StatFavoriteFranchises = "favorite_franchises"
	StatAirSchedule        = "air_schedule"
	StatNextReleases       = "next_releases"
)

// StatsBundle holds the three finished stat tables computed from one
// resolved snapshot. A bundle is never modified after it is returned.
type StatsBundle struct {
	FavoriteFranchises *frame.Frame
	AirSchedule        *frame.Frame
	NextReleases       *frame.Frame
	Timezone           string
	GeneratedAt        time.Time
}

// Get returns a stat table by name, or nil for an unknown name.
func (b *StatsBundle) Get(name string) *frame.Frame {
	switch name {
	case StatFavoriteFranchises:
		return b.FavoriteFranchises
	case StatAirSchedule:
		return b.AirSchedule
	case StatNextReleases:
		return b.NextReleases
	}
	return nil
}

// bundleJSON is the wire shape of a StatsBundle.
type bundleJSON struct {
	FavoriteFranchises []map[string]any `json:"favorite_franchises"`
	AirSchedule        []map[string]any `json:"air_schedule"`
	NextReleases       []map[string]any `json:"next_releases"`
	Timezone           string           `json:"timezone"`
	GeneratedAt        time.Time        `json:"generated_at"`
}

// MarshalJSON renders every table as an array of row objects.
func (b *StatsBundle) MarshalJSON() ([]byte, error) {
	return json.Marshal(bundleJSON{
		FavoriteFranchises: records(b.FavoriteFranchises),
		AirSchedule:        records(b.AirSchedule),
		NextReleases:       records(b.NextReleases),
		Timezone:           b.Timezone,
		GeneratedAt:        b.GeneratedAt,
	})
}

func records(f *frame.Frame) []map[string]any {
	if f == nil {
		return []map[string]any{}
	}
	return f.Records()
}
