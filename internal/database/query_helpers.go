// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/tomtom215/animestats/internal/metrics"
)

// scanFunc scans a single row into a result.
type scanFunc[T any] func(*sql.Rows) (T, error)

// queryAndScan runs query and scans every row with scan. The query is
// recorded under operation.
func queryAndScan[T any](ctx context.Context, db *sql.DB, operation, query string, args []any, scan scanFunc[T]) (results []T, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery(operation, time.Since(start), err)
	}()

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeWithLog(rows, nil, "rows")

	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// scanAny scans a row of n columns into driver values.
func scanAny(n int) scanFunc[[]any] {
	return func(rows *sql.Rows) ([]any, error) {
		values := make([]any, n)
		ptrs := make([]any, n)
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		return values, nil
	}
}
