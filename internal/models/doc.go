// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

/*
Package models defines the column vocabulary and record types for Animestats.

Tables move through the pipeline as frame.Frame values; this package names
their columns and provides typed views for callers that prefer structs.

Key Components:

  - CatalogEntry / CatalogSchema: the reference anime catalog, keyed by anime_id
  - UserAnimeRecord / UserListSchema: one user's watch list entry
  - FranchiseSummary: one aggregated franchise row
  - ScheduleSlot, NextRelease: rows of the derived schedule tables
  - StatsBundle: the favorite_franchises, air_schedule and next_releases tables

Resolved user animes carry every user list column, every catalog column and
the derived title_localized column.
*/
package models
