// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

// Package userlist loads a user's anime watch list into a frame.
//
// A JSON export (an array of watch records, or an object with a user_list
// array) is decoded and validated record by record. Other formats
// (.parquet, .ndjson, .jsonl, .csv) are read through DuckDB with the user
// list schema and held to the same record rules.
package userlist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/animestats/internal/catalog"
	"github.com/tomtom215/animestats/internal/frame"
	"github.com/tomtom215/animestats/internal/models"
	"github.com/tomtom215/animestats/internal/validation"
)

// ErrInvalidUserList is returned when a watch list cannot be decoded or a
// record fails validation.
var ErrInvalidUserList = errors.New("invalid user list")

// document is the object form of a JSON export.
type document struct {
	UserList []models.UserAnimeRecord `json:"user_list"`
}

// Load reads the watch list at path. JSON files are decoded directly;
// everything else goes through reader.
func Load(ctx context.Context, path string, reader catalog.FileReader) (*frame.Frame, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open user list: %w", err)
		}
		defer f.Close()
		return Decode(f)
	}

	out, err := reader.ReadFile(ctx, path, models.UserListSchema, models.UserListRequired)
	if err != nil {
		return nil, fmt.Errorf("read user list: %w", err)
	}
	if verr := validation.ValidateSlice(records(out)); verr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidUserList, verr)
	}
	return out, nil
}

// records rebuilds watch records from a frame with models.UserListSchema so
// columnar files get the same checks as JSON exports. A null anime_id
// becomes zero and fails the required rule.
func records(f *frame.Frame) []models.UserAnimeRecord {
	out := make([]models.UserAnimeRecord, f.Height())
	for i := range out {
		r := &out[i]
		r.AnimeID, _ = f.Value(i, models.ColAnimeID).(uint64)
		r.WatchStatus, _ = f.Value(i, models.ColUserWatchStatus).(string)
		r.WatchEpisodes, _ = f.Value(i, models.ColUserWatchEpisodes).(int64)
		r.Rewatching, _ = f.Value(i, models.ColUserRewatching).(bool)
		if v, ok := f.Value(i, models.ColUserScored).(float64); ok {
			r.Scored = &v
		}
		if v, ok := f.Value(i, models.ColUserWatchStart).(time.Time); ok {
			r.WatchStart = &v
		}
		if v, ok := f.Value(i, models.ColUserWatchEnd).(time.Time); ok {
			r.WatchEnd = &v
		}
	}
	return out
}

// Decode decodes a JSON watch list and converts it to a frame with
// models.UserListSchema.
func Decode(r io.Reader) (*frame.Frame, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read user list: %w", err)
	}

	var records []models.UserAnimeRecord
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0:
		return nil, fmt.Errorf("%w: empty document", ErrInvalidUserList)
	case trimmed[0] == '{':
		var doc document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidUserList, err)
		}
		records = doc.UserList
	default:
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidUserList, err)
		}
	}
	return FromRecords(records)
}

// FromRecords validates records and converts them to a frame.
func FromRecords(records []models.UserAnimeRecord) (*frame.Frame, error) {
	if verr := validation.ValidateSlice(records); verr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidUserList, verr)
	}
	return models.UserListFrame(records)
}
