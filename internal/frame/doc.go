// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

/*
Package frame provides the immutable columnar table used throughout Animestats.

A Frame is a list of typed columns of equal height. Cells are stored as Go
values (uint64, int64, float64, bool, string, []string, []uint64, time.Time)
and nil represents null. Frames are never modified in place: Take, Filter,
Select, WithColumn, Cast and SortBy all return a new Frame that may share
column storage with the receiver.

# Schema errors

Every shape problem (missing column, wrong kind, ragged columns, NaN cells)
is reported as ErrSchemaViolation, wrapped with the offending column:

	if err := f.Require("anime_id", "title"); err != nil {
	    return err // errors.Is(err, frame.ErrSchemaViolation) == true
	}

# Sorting

SortBy is stable and supports per-key direction and null placement:

	sorted, err := f.SortBy(frame.SortKey{Column: "user_scored", Descending: true, NullsLast: true})
*/
package frame
