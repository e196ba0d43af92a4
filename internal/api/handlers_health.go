// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/animestats/internal/models"
)

// healthCheckTimeout bounds each readiness probe.
const healthCheckTimeout = 5 * time.Second

// HealthLive reports that the process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]any{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

// HealthReady returns 200 only when DuckDB answers and the catalog scans;
// otherwise 503. Scans are served from the catalog cache when warm.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	health := h.check(r.Context())

	status := http.StatusOK
	if health.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, r, status, &models.APIResponse{
		Status:   health.Status,
		Data:     health,
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

// Health reports component health without affecting the status code.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := h.check(r.Context())
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     health,
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

func (h *Handler) check(ctx context.Context) models.HealthResponse {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	resp := models.HealthResponse{Version: h.version}
	resp.Database = h.db != nil && h.db.Ping(ctx) == nil
	if h.catalog != nil {
		_, err := h.catalog.Scan(ctx, h.catalogPath)
		resp.CatalogOK = err == nil
	}

	resp.Status = "ok"
	if !resp.Database || !resp.CatalogOK {
		resp.Status = "degraded"
	}
	return resp
}
