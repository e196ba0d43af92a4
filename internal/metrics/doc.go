// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

/*
Package metrics provides Prometheus metrics for Animestats.

Metrics are registered with the default registry through promauto. The
serve command exposes them at /metrics; the one-shot stats command can
write them to a textfile (METRICS_TEXTFILE) for node_exporter.

# Available Metrics

Resolution:
  - animestats_resolve_matched_total: user list entries found in the catalog (counter)
  - animestats_resolve_unmatched_total: user list entries missing from the catalog (counter)

Plans:
  - animestats_plan_duration_seconds: deferred plan evaluation time (histogram)
    Labels: plan (favorite_franchises, air_schedule, next_releases)
  - animestats_plan_errors_total: failed plan evaluations (counter)
    Labels: plan

Stats:
  - animestats_stats_computations_total: bundle computations (counter)
    Labels: result (success, error)
  - animestats_stats_duration_seconds: full bundle computation time (histogram)
  - animestats_franchises: franchises in the latest bundle (gauge)

Catalog and DuckDB:
  - animestats_catalog_scan_duration_seconds: catalog scan time (histogram)
  - animestats_catalog_rows: anime in the latest catalog scan (gauge)
  - duckdb_query_duration_seconds: query time (histogram)
    Labels: operation
  - duckdb_query_errors_total: failed queries (counter)
    Labels: operation

HTTP:
  - api_requests_total: requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: in-flight requests (gauge)
  - api_rate_limit_hits_total: rate limited requests (counter)
    Labels: endpoint

# Usage

	metrics.RecordResolution(matched, unmatched)

	frames, err := plan.ExecuteAll(ctx, plans, plan.WithObserver(metrics.RecordPlan))

Endpoint labels use chi route patterns, never raw paths, to keep label
cardinality bounded.
*/
package metrics
