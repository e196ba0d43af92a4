// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package database

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tomtom215/animestats/internal/frame"
)

func TestReader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"catalog.parquet", "read_parquet"},
		{"/data/part-*.PARQUET", "read_parquet"},
		{"list.json", "read_json_auto"},
		{"list.ndjson", "read_json_auto"},
		{"list.jsonl", "read_json_auto"},
		{"catalog.csv", "read_csv_auto"},
	}
	for _, tt := range tests {
		got, err := Reader(tt.path)
		if err != nil {
			t.Errorf("Reader(%q) error = %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Reader(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}

	for _, path := range []string{"catalog.xlsx", "catalog", "notes.txt"} {
		if _, err := Reader(path); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Reader(%q) error = %v, want ErrUnsupportedFormat", path, err)
		}
	}
}

func TestSelectExpr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		field frame.Field
		want  string
	}{
		{frame.Field{Name: "anime_id", Kind: frame.KindUint64}, `CAST("anime_id" AS UBIGINT) AS "anime_id"`},
		{frame.Field{Name: "air_start", Kind: frame.KindTime}, `CAST("air_start" AS TIMESTAMP) AS "air_start"`},
		{frame.Field{Name: "genres", Kind: frame.KindStrings}, `CAST(to_json("genres") AS VARCHAR) AS "genres"`},
		{frame.Field{Name: `odd"name`, Kind: frame.KindString}, `CAST("odd""name" AS VARCHAR) AS "odd""name"`},
	}
	for _, tt := range tests {
		if got := selectExpr(tt.field); got != tt.want {
			t.Errorf("selectExpr(%v) = %s, want %s", tt.field, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	berlin := time.FixedZone("CEST", 2*60*60)
	at := time.Date(2026, time.October, 5, 2, 0, 0, 0, berlin)

	tests := []struct {
		name string
		kind frame.Kind
		in   any
		want any
	}{
		{"null", frame.KindInt64, nil, nil},
		{"int passes", frame.KindInt64, int64(12), int64(12)},
		{"NaN is null", frame.KindFloat64, math.NaN(), nil},
		{"Inf is null", frame.KindFloat64, math.Inf(1), nil},
		{"float passes", frame.KindFloat64, 7.5, 7.5},
		{"time to UTC", frame.KindTime, at, time.Date(2026, time.October, 5, 0, 0, 0, 0, time.UTC)},
		{"json list", frame.KindStrings, `["Action","Drama"]`, []string{"Action", "Drama"}},
		{"json null", frame.KindStrings, `null`, nil},
		{"scalar string", frame.KindStrings, `"Action"`, []string{"Action"}},
		{"string holding list", frame.KindStrings, `"[\"Action\", \"Drama\"]"`, []string{"Action", "Drama"}},
		{"null elements dropped", frame.KindStrings, `["Action",null]`, []string{"Action"}},
		{"empty list", frame.KindStrings, `[]`, []string{}},
		{"id list", frame.KindUint64s, `[3,1,2]`, []uint64{3, 1, 2}},
		{"scalar id", frame.KindUint64s, `7`, []uint64{7}},
		{"large id", frame.KindUint64s, `[18446744073709551615]`, []uint64{math.MaxUint64}},
		{"id list in string", frame.KindUint64s, `"[1, 2]"`, []uint64{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := normalize(tt.kind, tt.in)
			if err != nil {
				t.Fatalf("normalize error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("normalize mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalize_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kind frame.Kind
		in   any
	}{
		{"bad json", frame.KindStrings, `[`},
		{"list scanned as number", frame.KindStrings, int64(1)},
		{"negative id", frame.KindUint64s, `[-1]`},
		{"word id", frame.KindUint64s, `["one"]`},
	}
	for _, tt := range tests {
		if _, err := normalize(tt.kind, tt.in); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}
