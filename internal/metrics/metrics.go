// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package metrics

import (
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Resolution Metrics
	ResolveMatchedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "animestats_resolve_matched_total",
			Help: "Total number of user list entries matched to a catalog anime",
		},
	)

	ResolveUnmatchedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "animestats_resolve_unmatched_total",
			Help: "Total number of user list entries with no catalog anime",
		},
	)

	// Plan Metrics
	PlanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "animestats_plan_duration_seconds",
			Help:    "Duration of deferred plan evaluation in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"plan"},
	)

	PlanErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animestats_plan_errors_total",
			Help: "Total number of failed plan evaluations",
		},
		[]string{"plan"},
	)

	// Stats Metrics
	StatsComputations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animestats_stats_computations_total",
			Help: "Total number of stats bundle computations",
		},
		[]string{"result"}, // "success", "error"
	)

	StatsDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "animestats_stats_duration_seconds",
			Help:    "Duration of a full stats bundle computation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	FranchisesComputed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "animestats_franchises",
			Help: "Number of franchises in the most recent stats bundle",
		},
	)

	// Catalog Metrics
	CatalogScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "animestats_catalog_scan_duration_seconds",
			Help:    "Duration of catalog scans in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	CatalogRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "animestats_catalog_rows",
			Help: "Number of anime in the most recently scanned catalog",
		},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Application Info
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordResolution records the outcome of one catalog resolution.
func RecordResolution(matched, unmatched int) {
	ResolveMatchedTotal.Add(float64(matched))
	ResolveUnmatchedTotal.Add(float64(unmatched))
}

// RecordPlan records one plan evaluation. Its signature matches
// plan.Observer so it can be passed to plan.WithObserver directly.
func RecordPlan(name string, elapsed time.Duration, err error) {
	PlanDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	if err != nil {
		PlanErrors.WithLabelValues(name).Inc()
	}
}

// RecordStats records one stats bundle computation.
func RecordStats(duration time.Duration, franchises int, err error) {
	StatsDuration.Observe(duration.Seconds())
	if err != nil {
		StatsComputations.WithLabelValues("error").Inc()
		return
	}
	StatsComputations.WithLabelValues("success").Inc()
	FranchisesComputed.Set(float64(franchises))
}

// RecordCatalogScan records a catalog scan and the number of rows it produced.
func RecordCatalogScan(duration time.Duration, rows int, err error) {
	CatalogScanDuration.Observe(duration.Seconds())
	if err == nil {
		CatalogRows.Set(float64(rows))
	}
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a request rejected by the rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// SetAppInfo publishes the running version.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}

// WriteTextfile writes every registered metric to path in the text
// exposition format, for node_exporter's textfile collector. The one-shot
// CLI has no /metrics endpoint to scrape.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
