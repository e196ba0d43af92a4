// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package database

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/animestats/internal/frame"
	"github.com/tomtom215/animestats/internal/logging"
	"github.com/tomtom215/animestats/internal/metrics"
)

// readers maps file extensions to DuckDB table functions.
var readers = map[string]string{
	".parquet": "read_parquet",
	".json":    "read_json_auto",
	".ndjson":  "read_json_auto",
	".jsonl":   "read_json_auto",
	".csv":     "read_csv_auto",
}

// sqlTypes maps scalar kinds to the DuckDB type each column is cast to.
var sqlTypes = map[frame.Kind]string{
	frame.KindUint64:  "UBIGINT",
	frame.KindInt64:   "BIGINT",
	frame.KindFloat64: "DOUBLE",
	frame.KindBool:    "BOOLEAN",
	frame.KindString:  "VARCHAR",
	frame.KindTime:    "TIMESTAMP",
}

// Reader returns the DuckDB table function for path, or ErrUnsupportedFormat.
func Reader(path string) (string, error) {
	fn, ok := readers[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return fn, nil
}

// ReadFile loads the file at path into a frame with the given fields.
//
// Columns in the file that are not among fields are ignored. Every name in
// required must be present, otherwise the read fails with
// frame.ErrSchemaViolation; other missing fields become all-null columns.
// Scalar columns are cast to their field kind. List columns are read as
// JSON, so a scalar string becomes a one-element list and a string holding
// a JSON array (common in CSV exports) is expanded.
func (db *DB) ReadFile(ctx context.Context, path string, fields []frame.Field, required []string) (*frame.Frame, error) {
	fn, err := Reader(path)
	if err != nil {
		return nil, err
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	available, err := db.columns(ctx, fn, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var missing []string
	for _, name := range required {
		if !available[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s is missing column(s) %s",
			frame.ErrSchemaViolation, path, strings.Join(missing, ", "))
	}

	var present []frame.Field
	exprs := make([]string, 0, len(fields))
	for _, field := range fields {
		if !available[field.Name] {
			continue
		}
		present = append(present, field)
		exprs = append(exprs, selectExpr(field))
	}
	if len(present) == 0 {
		return frame.Empty(fields), nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s(?)", strings.Join(exprs, ", "), fn)
	rows, err := queryAndScan(ctx, db.conn, fn, query, []any{path}, scanAny(len(present)))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cols := make(map[string][]any, len(fields))
	for i, field := range present {
		col := make([]any, len(rows))
		for r, row := range rows {
			v, err := normalize(field.Kind, row[i])
			if err != nil {
				return nil, fmt.Errorf("%w: %s column %s row %d: %v",
					frame.ErrSchemaViolation, path, field.Name, r, err)
			}
			col[r] = v
		}
		cols[field.Name] = col
	}

	ordered := make([][]any, len(fields))
	for i, field := range fields {
		if col, ok := cols[field.Name]; ok {
			ordered[i] = col
			continue
		}
		ordered[i] = make([]any, len(rows))
	}

	logging.Ctx(ctx).Debug().
		Str("path", path).
		Int("rows", len(rows)).
		Int("columns", len(present)).
		Int("null_columns", len(fields)-len(present)).
		Msg("File read")
	return frame.New(fields, ordered...)
}

// columns returns the column names of the file without reading its rows.
func (db *DB) columns(ctx context.Context, fn, path string) (available map[string]bool, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("describe", time.Since(start), err)
	}()

	rows, err := db.conn.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s(?) LIMIT 0", fn), path)
	if err != nil {
		return nil, err
	}
	defer closeWithLog(rows, nil, "rows")

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	available = make(map[string]bool, len(names))
	for _, name := range names {
		available[name] = true
	}
	return available, rows.Err()
}

func selectExpr(field frame.Field) string {
	col := quoteIdent(field.Name)
	switch field.Kind {
	case frame.KindStrings, frame.KindUint64s:
		return fmt.Sprintf("CAST(to_json(%s) AS VARCHAR) AS %s", col, col)
	default:
		return fmt.Sprintf("CAST(%s AS %s) AS %s", col, sqlTypes[field.Kind], col)
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// normalize converts a scanned driver value to a frame cell of kind.
func normalize(kind frame.Kind, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch kind {
	case frame.KindFloat64:
		if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			return nil, nil
		}
	case frame.KindTime:
		if t, ok := v.(time.Time); ok {
			return t.UTC(), nil
		}
	case frame.KindStrings:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("list column scanned as %T", v)
		}
		return decodeStrings(s)
	case frame.KindUint64s:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("list column scanned as %T", v)
		}
		return decodeUint64s(s)
	}
	return v, nil
}

// decodeStrings decodes a to_json value into a string list.
func decodeStrings(raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		if trimmed := strings.TrimSpace(x); strings.HasPrefix(trimmed, "[") {
			return decodeStrings(trimmed)
		}
		return []string{x}, nil
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			switch s := e.(type) {
			case nil:
			case string:
				out = append(out, s)
			default:
				out = append(out, fmt.Sprint(s))
			}
		}
		return out, nil
	}
	return []string{fmt.Sprint(v)}, nil
}

// decodeUint64s decodes a to_json value into an id list.
func decodeUint64s(raw string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	var items []any
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []any:
		items = x
	case string:
		if trimmed := strings.TrimSpace(x); strings.HasPrefix(trimmed, "[") {
			return decodeUint64s(trimmed)
		}
		items = []any{x}
	default:
		items = []any{x}
	}

	out := make([]uint64, 0, len(items))
	for _, e := range items {
		if e == nil {
			continue
		}
		n, err := strconv.ParseUint(fmt.Sprint(e), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("id %v: %w", e, err)
		}
		out = append(out, n)
	}
	return out, nil
}
