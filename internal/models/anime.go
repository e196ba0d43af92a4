// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package models

import (
	"time"

	"github.com/tomtom215/animestats/internal/frame"
)

// Catalog column names.
const (
	ColAnimeID          = "anime_id"
	ColTitle            = "title"
	ColTitleEnglish     = "title_english"
	ColTitleLocalized   = "title_localized"
	ColFranchise        = "franchise"
	ColGenres           = "genres"
	ColThemes           = "themes"
	ColDemographics     = "demographics"
	ColStudios          = "studios"
	ColLicensors        = "licensors"
	ColProducers        = "producers"
	ColSource           = "source"
	ColRating           = "rating"
	ColType             = "type"
	ColStatus           = "status"
	ColSFW              = "sfw"
	ColEpisodes         = "episodes"
	ColTotalDurationSec = "total_duration_sec"
	ColScoredAvg        = "scored_avg"
	ColAirStart         = "air_start"
	ColAirEnd           = "air_end"
	ColBroadcastDay     = "broadcast_day"
	ColBroadcastTime    = "broadcast_time"
)

// User list column names.
const (
	ColUserWatchStatus   = "user_watch_status"
	ColUserWatchEpisodes = "user_watch_episodes"
	ColUserScored        = "user_scored"
	ColUserRewatching    = "user_rewatching"
	ColUserWatchStart    = "user_watch_start"
	ColUserWatchEnd      = "user_watch_end"
)

// Airing status values found in the catalog status column.
const (
	StatusCurrentlyAiring = "currently_airing"
	StatusFinishedAiring  = "finished_airing"
	StatusNotYetAired     = "not_yet_aired"
)

// Watch status values found in the user_watch_status column.
const (
	WatchStatusWatching    = "watching"
	WatchStatusCompleted   = "completed"
	WatchStatusOnHold      = "on_hold"
	WatchStatusDropped     = "dropped"
	WatchStatusPlanToWatch = "plan_to_watch"
)

// CatalogSchema is the full catalog column set. Catalog files may carry a
// subset; only anime_id and title are mandatory.
var CatalogSchema = []frame.Field{
	{Name: ColAnimeID, Kind: frame.KindUint64},
	{Name: ColTitle, Kind: frame.KindString},
	{Name: ColTitleEnglish, Kind: frame.KindString},
	{Name: ColFranchise, Kind: frame.KindString},
	{Name: ColGenres, Kind: frame.KindStrings},
	{Name: ColThemes, Kind: frame.KindStrings},
	{Name: ColDemographics, Kind: frame.KindStrings},
	{Name: ColStudios, Kind: frame.KindStrings},
	{Name: ColLicensors, Kind: frame.KindStrings},
	{Name: ColProducers, Kind: frame.KindStrings},
	{Name: ColSource, Kind: frame.KindString},
	{Name: ColRating, Kind: frame.KindString},
	{Name: ColType, Kind: frame.KindString},
	{Name: ColStatus, Kind: frame.KindString},
	{Name: ColSFW, Kind: frame.KindBool},
	{Name: ColEpisodes, Kind: frame.KindInt64},
	{Name: ColTotalDurationSec, Kind: frame.KindInt64},
	{Name: ColScoredAvg, Kind: frame.KindFloat64},
	{Name: ColAirStart, Kind: frame.KindTime},
	{Name: ColAirEnd, Kind: frame.KindTime},
	{Name: ColBroadcastDay, Kind: frame.KindString},
	{Name: ColBroadcastTime, Kind: frame.KindString},
}

// CatalogRequired lists the catalog columns without which no catalog file is
// usable.
var CatalogRequired = []string{ColAnimeID, ColTitle}

// UserListSchema is the column set of a user's watch list.
var UserListSchema = []frame.Field{
	{Name: ColAnimeID, Kind: frame.KindUint64},
	{Name: ColUserWatchStatus, Kind: frame.KindString},
	{Name: ColUserWatchEpisodes, Kind: frame.KindInt64},
	{Name: ColUserScored, Kind: frame.KindFloat64},
	{Name: ColUserRewatching, Kind: frame.KindBool},
	{Name: ColUserWatchStart, Kind: frame.KindTime},
	{Name: ColUserWatchEnd, Kind: frame.KindTime},
}

// UserListRequired lists the user list columns that must be present.
var UserListRequired = []string{ColAnimeID}

// CatalogEntry is one immutable reference record from the anime catalog.
type CatalogEntry struct {
	AnimeID          uint64     `json:"anime_id"`
	Title            string     `json:"title"`
	TitleEnglish     *string    `json:"title_english,omitempty"`
	Franchise        *string    `json:"franchise,omitempty"`
	Genres           []string   `json:"genres,omitempty"`
	Themes           []string   `json:"themes,omitempty"`
	Demographics     []string   `json:"demographics,omitempty"`
	Studios          []string   `json:"studios,omitempty"`
	Licensors        []string   `json:"licensors,omitempty"`
	Producers        []string   `json:"producers,omitempty"`
	Source           *string    `json:"source,omitempty"`
	Rating           *string    `json:"rating,omitempty"`
	Type             *string    `json:"type,omitempty"`
	Status           *string    `json:"status,omitempty"`
	SFW              *bool      `json:"sfw,omitempty"`
	Episodes         *int64     `json:"episodes,omitempty"`
	TotalDurationSec *int64     `json:"total_duration_sec,omitempty"`
	ScoredAvg        *float64   `json:"scored_avg,omitempty"`
	AirStart         *time.Time `json:"air_start,omitempty"`
	AirEnd           *time.Time `json:"air_end,omitempty"`
	BroadcastDay     *string    `json:"broadcast_day,omitempty"`
	BroadcastTime    *string    `json:"broadcast_time,omitempty"`
}

// UserAnimeRecord is a user's watch entry for one anime.
type UserAnimeRecord struct {
	AnimeID       uint64     `json:"anime_id" validate:"required"`
	WatchStatus   string     `json:"user_watch_status" validate:"omitempty,oneof=watching completed on_hold dropped plan_to_watch"`
	WatchEpisodes int64      `json:"user_watch_episodes" validate:"gte=0"`
	Scored        *float64   `json:"user_scored,omitempty" validate:"omitempty,gte=0,lte=10"`
	Rewatching    bool       `json:"user_rewatching"`
	WatchStart    *time.Time `json:"user_watch_start,omitempty"`
	WatchEnd      *time.Time `json:"user_watch_end,omitempty"`
}

// CatalogFrame converts catalog entries to a frame with CatalogSchema.
func CatalogFrame(entries []CatalogEntry) (*frame.Frame, error) {
	records := make([]map[string]any, len(entries))
	for i, e := range entries {
		records[i] = map[string]any{
			ColAnimeID:          e.AnimeID,
			ColTitle:            e.Title,
			ColTitleEnglish:     deref(e.TitleEnglish),
			ColFranchise:        deref(e.Franchise),
			ColGenres:           list(e.Genres),
			ColThemes:           list(e.Themes),
			ColDemographics:     list(e.Demographics),
			ColStudios:          list(e.Studios),
			ColLicensors:        list(e.Licensors),
			ColProducers:        list(e.Producers),
			ColSource:           deref(e.Source),
			ColRating:           deref(e.Rating),
			ColType:             deref(e.Type),
			ColStatus:           deref(e.Status),
			ColSFW:              deref(e.SFW),
			ColEpisodes:         deref(e.Episodes),
			ColTotalDurationSec: deref(e.TotalDurationSec),
			ColScoredAvg:        deref(e.ScoredAvg),
			ColAirStart:         deref(e.AirStart),
			ColAirEnd:           deref(e.AirEnd),
			ColBroadcastDay:     deref(e.BroadcastDay),
			ColBroadcastTime:    deref(e.BroadcastTime),
		}
	}
	return frame.FromRecords(CatalogSchema, records)
}

// UserListFrame converts watch records to a frame with UserListSchema.
func UserListFrame(records []UserAnimeRecord) (*frame.Frame, error) {
	rows := make([]map[string]any, len(records))
	for i, r := range records {
		rows[i] = map[string]any{
			ColAnimeID:           r.AnimeID,
			ColUserWatchStatus:   nullIfEmpty(r.WatchStatus),
			ColUserWatchEpisodes: r.WatchEpisodes,
			ColUserScored:        deref(r.Scored),
			ColUserRewatching:    r.Rewatching,
			ColUserWatchStart:    deref(r.WatchStart),
			ColUserWatchEnd:      deref(r.WatchEnd),
		}
	}
	return frame.FromRecords(UserListSchema, rows)
}

// deref returns *p, or an untyped nil so the cell reads as null.
func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func list(s []string) any {
	if s == nil {
		return nil
	}
	return s
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
