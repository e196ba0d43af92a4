// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

// Command animestats computes franchise statistics for anime watch lists.
//
// # Commands
//
//	animestats stats --user-list FILE [--catalog PATH] [--timezone TZ] [--output FILE]
//	animestats serve [--catalog PATH] [--timezone TZ]
//
// stats runs once and prints the stats bundle as JSON. serve exposes the
// same computation over HTTP (see package api) under a suture supervisor
// tree with the HTTP server and the optional catalog refresher.
//
// # Configuration
//
// Settings are layered with Koanf v2, highest priority first:
//   - Flags (--catalog, --timezone)
//   - Environment variables (CATALOG_PATH, USER_TIMEZONE, HTTP_PORT, ...)
//   - Config file (CONFIG_PATH or ./config.yaml)
//   - Built-in defaults
//
// See package config for the full list.
//
// # Signal Handling
//
// serve shuts down on SIGINT and SIGTERM: the HTTP server stops accepting
// connections, waits for in-flight requests up to HTTP_TIMEOUT, and
// services that fail to stop are reported before exit.
//
// # Example Usage
//
//	export CATALOG_PATH=/data/anime_catalog.parquet
//	animestats stats --user-list mylist.json --timezone America/New_York
//
//	docker run -d -p 3858:3858 \
//	  -v ./data:/data \
//	  -e CATALOG_REFRESH_INTERVAL=1h \
//	  ghcr.io/tomtom215/animestats serve
package main
