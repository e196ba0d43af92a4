// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package franchise

import (
	"fmt"
	"math"
	"slices"

	"github.com/tomtom215/animestats/internal/frame"
	"github.com/tomtom215/animestats/internal/models"
)

// Kind selects how a reducer folds a group of rows into one value.
type Kind uint8

// Reducer kinds.
const (
	// Sum adds numeric values; nulls contribute nothing and an empty sum is 0.
	Sum Kind = iota + 1
	// WeightedMean computes Σ(value·weight)/Σ(weight) with Source[0] as the
	// value and Source[1] as the weight.
	WeightedMean
	// Union flattens lists (or scalars) into a sorted set of distinct strings.
	Union
	// All is true unless some non-null member is false.
	All
	// Any is true if some non-null member is true.
	Any
	// First keeps the first member's value, null or not.
	First
	// Collect keeps every member value as a sorted list.
	Collect
)

var kindNames = map[Kind]string{
	Sum:          "sum",
	WeightedMean: "weighted_mean",
	Union:        "union",
	All:          "all",
	Any:          "any",
	First:        "first",
	Collect:      "collect",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("reducer(%d)", uint8(k))
}

// Reducer describes one output column of the franchise summary.
type Reducer struct {
	Kind   Kind
	Output string
	Source []string

	// ZeroAsNull turns an exact 0 result into null.
	ZeroAsNull bool
}

// Columns returns the input columns the reducer reads.
func (r Reducer) Columns() []string {
	return r.Source
}

func sum(col string) Reducer {
	return Reducer{Kind: Sum, Output: col, Source: []string{col}}
}

func weightedMean(col, weight string) Reducer {
	return Reducer{Kind: WeightedMean, Output: col, Source: []string{col, weight}}
}

func union(col string) Reducer {
	return Reducer{Kind: Union, Output: col, Source: []string{col}}
}

// DefaultReducers is the reducer table for franchise summaries.
func DefaultReducers() []Reducer {
	userScored := weightedMean(models.ColUserScored, models.ColEpisodes)
	userScored.ZeroAsNull = true

	return []Reducer{
		sum(models.ColEpisodes),
		sum(models.ColUserWatchEpisodes),
		weightedMean(models.ColScoredAvg, models.ColEpisodes),
		userScored,
		union(models.ColGenres),
		union(models.ColThemes),
		union(models.ColDemographics),
		union(models.ColStudios),
		union(models.ColLicensors),
		union(models.ColProducers),
		union(models.ColSource),
		union(models.ColRating),
		union(models.ColType),
		{Kind: All, Output: models.ColSFW, Source: []string{models.ColSFW}},
		{Kind: Any, Output: models.ColUserRewatching, Source: []string{models.ColUserRewatching}},
		sum(models.ColTotalDurationSec),
		{Kind: Collect, Output: models.ColAnimeID, Source: []string{models.ColAnimeID}},
	}
}

// PendingColumns are resolved columns with no reducer yet; they are dropped
// from the summary.
//
// TODO: aggregate the watch and air spans (earliest start, latest end) and
// user_watch_status once total_duration_sec is replaced by an average episode
// duration, so a per-franchise user watch duration can be derived.
var PendingColumns = []string{
	models.ColUserWatchStatus,
	models.ColUserWatchStart,
	models.ColUserWatchEnd,
	models.ColAirStart,
	models.ColAirEnd,
}

// outputKind validates the reducer against the input schema and returns the
// kind of the column it produces.
func (r Reducer) outputKind(in *frame.Frame) (frame.Kind, error) {
	want := 1
	if r.Kind == WeightedMean {
		want = 2
	}
	if len(r.Source) != want {
		return frame.KindInvalid, fmt.Errorf("%w: %s reducer for %s needs %d source column(s), has %d",
			frame.ErrSchemaViolation, r.Kind, r.Output, want, len(r.Source))
	}
	if err := in.Require(r.Source...); err != nil {
		return frame.KindInvalid, fmt.Errorf("%s reducer for %s: %w", r.Kind, r.Output, err)
	}

	src, _ := in.Field(r.Source[0])
	bad := func() (frame.Kind, error) {
		return frame.KindInvalid, fmt.Errorf("%w: %s reducer cannot read %s column %s",
			frame.ErrSchemaViolation, r.Kind, src.Kind, src.Name)
	}

	switch r.Kind {
	case Sum:
		if !src.Kind.IsNumeric() {
			return bad()
		}
		return src.Kind, nil
	case WeightedMean:
		weight, _ := in.Field(r.Source[1])
		if !src.Kind.IsNumeric() {
			return bad()
		}
		if !weight.Kind.IsNumeric() {
			return frame.KindInvalid, fmt.Errorf("%w: weight column %s has kind %s",
				frame.ErrSchemaViolation, weight.Name, weight.Kind)
		}
		return frame.KindFloat64, nil
	case Union:
		if src.Kind != frame.KindString && src.Kind != frame.KindStrings {
			return bad()
		}
		return frame.KindStrings, nil
	case All, Any:
		if src.Kind != frame.KindBool {
			return bad()
		}
		return frame.KindBool, nil
	case First:
		return src.Kind, nil
	case Collect:
		switch src.Kind {
		case frame.KindUint64:
			return frame.KindUint64s, nil
		case frame.KindString:
			return frame.KindStrings, nil
		}
		return bad()
	}
	return frame.KindInvalid, fmt.Errorf("%w: unknown reducer kind %s", frame.ErrSchemaViolation, r.Kind)
}

// reduce folds the given rows of in into a single cell.
func (r Reducer) reduce(in *frame.Frame, rows []int, out frame.Kind) any {
	switch r.Kind {
	case Sum:
		return reduceSum(in, rows, r.Source[0], out)
	case WeightedMean:
		v := reduceWeightedMean(in, rows, r.Source[0], r.Source[1])
		if r.ZeroAsNull {
			if x, ok := v.(float64); ok && x == 0 {
				return nil
			}
		}
		return v
	case Union:
		return reduceUnion(in, rows, r.Source[0])
	case All:
		for _, row := range rows {
			if b, ok := in.Value(row, r.Source[0]).(bool); ok && !b {
				return false
			}
		}
		return true
	case Any:
		for _, row := range rows {
			if b, ok := in.Value(row, r.Source[0]).(bool); ok && b {
				return true
			}
		}
		return false
	case First:
		if len(rows) == 0 {
			return nil
		}
		return in.Value(rows[0], r.Source[0])
	case Collect:
		return reduceCollect(in, rows, r.Source[0], out)
	}
	return nil
}

func reduceSum(in *frame.Frame, rows []int, col string, out frame.Kind) any {
	switch out {
	case frame.KindInt64:
		var total int64
		for _, row := range rows {
			if n, ok := in.Value(row, col).(int64); ok {
				total += n
			}
		}
		return total
	case frame.KindUint64:
		var total uint64
		for _, row := range rows {
			if n, ok := in.Value(row, col).(uint64); ok {
				total += n
			}
		}
		return total
	default:
		xs := make([]float64, 0, len(rows))
		for _, row := range rows {
			if x, ok := frame.AsFloat(in.Value(row, col)); ok {
				xs = append(xs, x)
			}
		}
		return sortedSum(xs)
	}
}

// reduceWeightedMean divides the sum of value·weight over rows where both
// are present by the sum of every present weight. A zero denominator or a
// non-finite ratio yields null. Terms are summed in sorted order so the
// result does not depend on row order.
func reduceWeightedMean(in *frame.Frame, rows []int, valueCol, weightCol string) any {
	terms := make([]float64, 0, len(rows))
	weights := make([]float64, 0, len(rows))
	for _, row := range rows {
		w, wok := frame.AsFloat(in.Value(row, weightCol))
		if !wok {
			continue
		}
		weights = append(weights, w)
		if v, ok := frame.AsFloat(in.Value(row, valueCol)); ok {
			terms = append(terms, v*w)
		}
	}
	den := sortedSum(weights)
	if den == 0 {
		return nil
	}
	mean := sortedSum(terms) / den
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return nil
	}
	return mean
}

// sortedSum sorts xs in place and adds it up in ascending order.
func sortedSum(xs []float64) float64 {
	slices.Sort(xs)
	var total float64
	for _, x := range xs {
		total += x
	}
	return total
}

func reduceUnion(in *frame.Frame, rows []int, col string) any {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for _, s := range frame.AsStrings(in.Value(row, col)) {
			seen[s] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

func reduceCollect(in *frame.Frame, rows []int, col string, out frame.Kind) any {
	if out == frame.KindStrings {
		var values []string
		for _, row := range rows {
			if s, ok := in.Value(row, col).(string); ok {
				values = append(values, s)
			}
		}
		slices.Sort(values)
		return values
	}
	var values []uint64
	for _, row := range rows {
		if id, ok := in.Value(row, col).(uint64); ok {
			values = append(values, id)
		}
	}
	slices.Sort(values)
	return values
}
