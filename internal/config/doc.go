// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

/*
Package config loads animestats configuration with koanf.

Defaults are overlaid by an optional YAML file (config.yaml in the working
directory, /etc/animestats/config.yaml, or the file named by CONFIG_PATH)
and then by environment variables. Only the variables below are read:

Catalog and stats:
  - CATALOG_PATH: catalog file (default: /data/anime_catalog.parquet)
  - CATALOG_CACHE_SIZE, CATALOG_CACHE_TTL: scanned catalog cache (default: 4, 1h)
  - CATALOG_REFRESH_INTERVAL: background rescan in serve mode, 0 = off
  - USER_TIMEZONE: default user timezone (default: UTC)
  - STATS_MAX_PARALLELISM: concurrent plan limit, 0 = unbounded
  - STATS_PREVIEW_ROWS: unmatched rows logged (default: 10)

DuckDB:
  - DUCKDB_MAX_MEMORY: memory limit (default: 1GB)
  - DUCKDB_THREADS: worker threads, 0 = NumCPU

HTTP server (serve):
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:3858), HTTP_TIMEOUT (default: 30s)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW (default: 60 per 1m), DISABLE_RATE_LIMIT
  - CORS_ORIGINS: comma-separated allowed origins
  - MAX_BODY_BYTES: stats request body limit (default: 4MiB)

Observability:
  - LOG_LEVEL, LOG_FORMAT (json or console), LOG_CALLER
  - METRICS_TEXTFILE: write metrics here after a one-shot run

The equivalent YAML:

	catalog:
	  path: /data/anime_catalog.parquet
	stats:
	  timezone: Europe/Berlin
	server:
	  port: 3858
	security:
	  cors_origins: [https://example.org]
	logging:
	  level: debug

Validation runs after loading; an invalid configuration is an error.
*/
package config
