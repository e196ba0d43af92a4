// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

/*
Package api serves user stats over HTTP with a chi router.

A client posts its watch list and gets back the three stat tables:

	POST /api/v1/stats
	{
	  "timezone": "Europe/Berlin",
	  "user_list": [
	    {"anime_id": 1, "user_watch_status": "completed", "user_watch_episodes": 26, "user_scored": 9}
	  ]
	}

Each request is resolved against the shared catalog, which is scanned once
and cached by catalog.Store, then computed by stats.Orchestrator under the
server timeout. POST /api/v1/stats/{name} returns only one table.

Every response uses the models.APIResponse envelope. Failures map to:

  - 400 VALIDATION_ERROR, INVALID_TIMEZONE: bad request body
  - 404 NOT_FOUND: unknown stat name
  - 413 REQUEST_TOO_LARGE: body over MAX_BODY_BYTES
  - 422 SCHEMA_VIOLATION: e.g. a duplicate anime_id in the user list
  - 429 RATE_LIMIT_EXCEEDED: per-IP budget exhausted
  - 503 CATALOG_UNAVAILABLE: the catalog file cannot be read
  - 504 TIMEOUT: computation exceeded the server timeout

Health probes live under /api/v1/health and Prometheus metrics at /metrics.
*/
package api
