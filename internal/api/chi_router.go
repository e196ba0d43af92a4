// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/animestats/internal/config"
	"github.com/tomtom215/animestats/internal/middleware"
)

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	slowRequest   time.Duration
}

// NewRouter creates a Router using the security settings of cfg. Requests
// taking more than half the server timeout are logged as slow.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	mw := DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mw.RateLimitRequests = cfg.Security.RateLimitReqs
	mw.RateLimitWindow = cfg.Security.RateLimitWindow
	mw.RateLimitDisabled = cfg.Security.RateLimitDisabled

	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mw),
		slowRequest:   cfg.Server.Timeout / 2,
	}
}

// Setup builds the route tree:
//
//	GET  /api/v1/health, /api/v1/health/live, /api/v1/health/ready
//	POST /api/v1/stats
//	POST /api/v1/stats/{name}
//	GET  /metrics
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, outermost first. Metrics and access logs read the
	// route pattern after dispatch, so they sit here rather than in groups.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(router.slowRequest))
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1/stats", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chimiddleware.Compress(5, "application/json"))
		r.Post("/", router.handler.Stats)
		r.Post("/{name}", router.handler.StatTable)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
