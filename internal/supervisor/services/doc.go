// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

// Package services adapts serve-mode components to suture.Service.
//
// HTTPServerService turns ListenAndServe/Shutdown into a context-driven
// Serve. CatalogRefreshService keeps the catalog cache warm on a ticker.
// Both implement fmt.Stringer so supervisor events name them.
package services
