// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package models

import (
	"time"
)

// APIResponse is the envelope of every HTTP response.
//
// Status is "success" with Data set, or "error" with Error set:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "item 1: AnimeID is required",
//	    "details": {"field": "[1].AnimeID", "tag": "required", "value": 0}
//	  },
//	  "metadata": {"timestamp": "2026-10-14T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string    `json:"status"`
	Data     any       `json:"data"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata describes how a response was produced.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is a machine-readable error.
//
// Codes:
//   - VALIDATION_ERROR: malformed or invalid request
//   - INVALID_TIMEZONE: unknown IANA timezone
//   - SCHEMA_VIOLATION: catalog or user list lacks a required column
//   - NOT_FOUND: unknown stat name
//   - TIMEOUT: computation exceeded the request deadline
//   - INTERNAL_ERROR: anything else
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// StatsRequest asks for one user's stats. An empty Timezone falls back to
// the server's configured timezone.
type StatsRequest struct {
	Timezone string            `json:"timezone" validate:"omitempty,iana_tz"`
	UserList []UserAnimeRecord `json:"user_list"`
}

// StatsResponse carries a stats bundle and the number of user list entries
// whose anime_id is not in the catalog.
type StatsResponse struct {
	Stats          *StatsBundle `json:"stats"`
	UnmatchedCount int          `json:"unmatched_count"`
}

// StatTableResponse carries a single stat table.
type StatTableResponse struct {
	Name           string           `json:"name"`
	Rows           []map[string]any `json:"rows"`
	Timezone       string           `json:"timezone"`
	GeneratedAt    time.Time        `json:"generated_at"`
	UnmatchedCount int              `json:"unmatched_count"`
}

// TableResponse renders the named table of b, or reports false for an
// unknown name.
func (b *StatsBundle) TableResponse(name string, unmatched int) (StatTableResponse, bool) {
	f := b.Get(name)
	if f == nil {
		return StatTableResponse{}, false
	}
	return StatTableResponse{
		Name:           name,
		Rows:           records(f),
		Timezone:       b.Timezone,
		GeneratedAt:    b.GeneratedAt,
		UnmatchedCount: unmatched,
	}, true
}

// HealthResponse reports service health.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Database  bool   `json:"database"`
	CatalogOK bool   `json:"catalog"`
}
