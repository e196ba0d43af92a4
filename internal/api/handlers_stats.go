// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/animestats/internal/frame"
	"github.com/tomtom215/animestats/internal/models"
	"github.com/tomtom215/animestats/internal/resolve"
	"github.com/tomtom215/animestats/internal/schedule"
	"github.com/tomtom215/animestats/internal/userlist"
	"github.com/tomtom215/animestats/internal/validation"
)

// errCatalogUnavailable marks failures to load the catalog, which are the
// server's problem rather than the caller's.
var errCatalogUnavailable = errors.New("catalog unavailable")

// Stats handles POST /api/v1/stats.
//
// The body is a models.StatsRequest. The response carries all three stat
// tables and the number of user list entries missing from the catalog.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	h.serveStats(w, r, "")
}

// StatTable handles POST /api/v1/stats/{name}: the same computation,
// returning only the named table.
func (h *Handler) StatTable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	switch name {
	case models.StatFavoriteFranchises, models.StatAirSchedule, models.StatNextReleases:
	default:
		respondError(w, r, http.StatusNotFound, &models.APIError{
			Code:    "NOT_FOUND",
			Message: fmt.Sprintf("Unknown stat %q", sanitizeLogValue(name)),
			Details: map[string]any{"available": []string{
				models.StatFavoriteFranchises, models.StatAirSchedule, models.StatNextReleases,
			}},
		}, nil)
		return
	}
	h.serveStats(w, r, name)
}

func (h *Handler) serveStats(w http.ResponseWriter, r *http.Request, table string) {
	start := time.Now()

	req, status, apiErr := h.decodeStatsRequest(w, r)
	if apiErr != nil {
		respondError(w, r, status, apiErr, nil)
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	bundle, unmatched, err := h.compute(ctx, req)
	if err != nil {
		status, apiErr := classifyError(err)
		respondError(w, r, status, apiErr, err)
		return
	}

	if table == "" {
		respondSuccess(w, r, models.StatsResponse{Stats: bundle, UnmatchedCount: unmatched}, start)
		return
	}
	resp, _ := bundle.TableResponse(table, unmatched)
	respondSuccess(w, r, resp, start)
}

// decodeStatsRequest reads and validates the body. An empty timezone takes
// the configured default.
func (h *Handler) decodeStatsRequest(w http.ResponseWriter, r *http.Request) (*models.StatsRequest, int, *models.APIError) {
	body := r.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, &models.APIError{
				Code:    "REQUEST_TOO_LARGE",
				Message: fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit),
			}
		}
		return nil, http.StatusBadRequest, &models.APIError{Code: "VALIDATION_ERROR", Message: "Failed to read request body"}
	}

	var req models.StatsRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, http.StatusBadRequest, &models.APIError{
			Code:    "VALIDATION_ERROR",
			Message: "Request body must be a JSON object with a user_list array",
		}
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		return nil, http.StatusBadRequest, apiErr
	}
	if req.Timezone == "" {
		req.Timezone = h.timezone
	}
	return &req, 0, nil
}

// compute validates the user list, resolves it against the catalog and
// builds the bundle.
func (h *Handler) compute(ctx context.Context, req *models.StatsRequest) (*models.StatsBundle, int, error) {
	userList, err := userlist.FromRecords(req.UserList)
	if err != nil {
		return nil, 0, err
	}

	catalog, err := h.catalog.Scan(ctx, h.catalogPath)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", errCatalogUnavailable, err)
	}
	res, err := h.resolver.Resolve(ctx, userList, catalog)
	if errors.Is(err, resolve.ErrInvalidCatalog) {
		return nil, 0, fmt.Errorf("%w: %w", errCatalogUnavailable, err)
	}
	if err != nil {
		return nil, 0, err
	}

	bundle, err := h.stats.ComputeStats(ctx, res.Animes, nil, req.Timezone)
	if err != nil {
		return nil, 0, err
	}
	return bundle, res.UnmatchedCount, nil
}

// classifyError maps a computation failure to a status and client error.
func classifyError(err error) (int, *models.APIError) {
	var verr *validation.RequestValidationError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, &models.APIError{Code: "TIMEOUT", Message: "Stats computation timed out"}
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, &models.APIError{Code: "CANCELED", Message: "Request canceled"}
	case errors.Is(err, errCatalogUnavailable):
		return http.StatusServiceUnavailable, &models.APIError{Code: "CATALOG_UNAVAILABLE", Message: "Anime catalog is unavailable"}
	case errors.As(err, &verr):
		return http.StatusBadRequest, toModelError(verr.ToAPIError())
	case errors.Is(err, userlist.ErrInvalidUserList):
		return http.StatusBadRequest, &models.APIError{Code: "VALIDATION_ERROR", Message: "Invalid user list"}
	case errors.Is(err, schedule.ErrInvalidTimezone):
		return http.StatusBadRequest, &models.APIError{Code: "INVALID_TIMEZONE", Message: "Unknown timezone"}
	case errors.Is(err, frame.ErrSchemaViolation):
		return http.StatusUnprocessableEntity, &models.APIError{Code: "SCHEMA_VIOLATION", Message: err.Error()}
	default:
		return http.StatusInternalServerError, &models.APIError{Code: "INTERNAL_ERROR", Message: "Failed to compute stats"}
	}
}
