// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

/*
Package stats assembles a user's stats bundle.

The Orchestrator declares three independent deferred computations over the
same resolved snapshot and evaluates them as one batch with plan.ExecuteAll:

  - favorite_franchises: the franchise summary sorted by user_scored,
    highest first, nulls last
  - air_schedule: the weekly broadcast slots of followed airing shows
  - next_releases: the predicted next episode of each airing or upcoming show

Branches share no mutable state and may run concurrently; their results do
not depend on evaluation order. After the batch, the air schedule is
localized to the user's timezone, which is the only sequential step.

Usage:

	res, err := resolve.NewResolver().ResolveUserAnimes(ctx, userList, store, catalogPath)
	if err != nil {
	    return err
	}
	bundle, err := stats.NewOrchestrator(0).ComputeStats(ctx, res.Animes, nil, "Europe/Berlin")

Passing a precomputed franchise summary instead of nil skips aggregation.
*/
package stats
