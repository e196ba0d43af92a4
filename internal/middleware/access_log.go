// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tomtom215/animestats/internal/logging"
)

// AccessLog logs one line per request through the context logger, at
// info level normally and at warn level when the request took longer than
// slow. A non-positive slow disables the warning.
func AccessLog(slow time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			elapsed := time.Since(start)

			var event *zerolog.Event
			log := logging.Ctx(r.Context())
			if slow > 0 && elapsed > slow {
				event = log.Warn().Bool("slow", true)
			} else {
				event = log.Info()
			}
			event.
				Str("method", r.Method).
				Str("route", RoutePattern(r)).
				Int("status", statusOf(ww)).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", elapsed).
				Msg("Request completed")
		})
	}
}
