// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

// Package database reads anime catalog and user list files through an
// in-memory DuckDB connection.
//
// DuckDB does the file parsing: read_parquet for .parquet, read_json_auto
// for .json, .ndjson and .jsonl, read_csv_auto for .csv. Globs are passed
// through, so a catalog split over several parquet files reads as one
// table. ReadFile selects only the columns it is asked for, casts each to
// the declared frame kind and returns an immutable frame.Frame:
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	f, err := db.ReadFile(ctx, "catalog.parquet", models.CatalogSchema, models.CatalogRequired)
//
// Query durations and errors are recorded in the animestats_db_query_*
// metrics by operation (describe, read_parquet, read_json_auto,
// read_csv_auto).
//
// Tests that open DuckDB carry the integration build tag.
package database
