// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

/*
Package middleware provides the HTTP middleware of serve mode.

  - RequestID: X-Request-ID propagation into the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge, labeled by
    chi route pattern
  - AccessLog: per-request log line, promoted to warn for slow requests

All three are chi-style func(http.Handler) http.Handler. Route labels are
only known after dispatch, so PrometheusMetrics and AccessLog must wrap the
router rather than be mounted inside a route group:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(5 * time.Second))
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
