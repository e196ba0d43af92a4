// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package franchise

import (
	"fmt"

	"github.com/tomtom215/animestats/internal/frame"
	"github.com/tomtom215/animestats/internal/models"
	"github.com/tomtom215/animestats/internal/plan"
)

// Aggregator groups resolved user animes into franchises.
type Aggregator struct {
	// Key is the grouping column.
	Key string

	// Fallback fills Key where it is null, so titles without a franchise
	// become singleton franchises keyed by their own title.
	Fallback string

	// Reducers produce the summary columns, in output order after Key.
	Reducers []Reducer

	// SortBy orders the summary descending with nulls last. Empty keeps
	// first-appearance order.
	SortBy string
}

// NewAggregator returns the aggregator for franchise summaries.
func NewAggregator() *Aggregator {
	return &Aggregator{
		Key:      models.ColFranchise,
		Fallback: models.ColTitle,
		Reducers: DefaultReducers(),
		SortBy:   models.ColUserScored,
	}
}

// Aggregate reduces every group of rows sharing a franchise into one row.
// The result does not depend on input row order apart from the order of
// franchises that tie on SortBy, which follows first appearance.
func (a *Aggregator) Aggregate(resolved *frame.Frame) (*frame.Frame, error) {
	if resolved == nil {
		return nil, fmt.Errorf("%w: nil table", frame.ErrSchemaViolation)
	}

	filled, err := a.fillKey(resolved)
	if err != nil {
		return nil, err
	}

	fields := make([]frame.Field, 0, len(a.Reducers)+1)
	fields = append(fields, frame.Field{Name: a.Key, Kind: frame.KindString})
	kinds := make([]frame.Kind, len(a.Reducers))
	for i, r := range a.Reducers {
		kind, err := r.outputKind(filled)
		if err != nil {
			return nil, err
		}
		kinds[i] = kind
		fields = append(fields, frame.Field{Name: r.Output, Kind: kind})
	}

	keys, groups := a.group(filled)

	cols := make([][]any, len(fields))
	cols[0] = keys
	for i, r := range a.Reducers {
		col := make([]any, len(groups))
		for g, rows := range groups {
			col[g] = r.reduce(filled, rows, kinds[i])
		}
		cols[i+1] = col
	}

	summary, err := frame.New(fields, cols...)
	if err != nil {
		return nil, fmt.Errorf("build franchise summary: %w", err)
	}

	if a.SortBy == "" {
		return summary, nil
	}
	return SortByScore(summary, a.SortBy)
}

// Plan returns the deferred form of Aggregate over src.
func (a *Aggregator) Plan(src *plan.Plan) *plan.Plan {
	return src.Then("aggregate_franchises", a.Aggregate)
}

// SortByScore orders franchises by col, highest first, nulls last. Ties
// keep their current order.
func SortByScore(f *frame.Frame, col string) (*frame.Frame, error) {
	return f.SortBy(frame.SortKey{Column: col, Descending: true, NullsLast: true})
}

// fillKey replaces null keys with the fallback column.
func (a *Aggregator) fillKey(in *frame.Frame) (*frame.Frame, error) {
	if err := in.RequireKind(a.Key, frame.KindString); err != nil {
		return nil, err
	}
	if err := in.RequireKind(a.Fallback, frame.KindString); err != nil {
		return nil, err
	}

	keys, _ := in.Column(a.Key)
	fallback, _ := in.Column(a.Fallback)
	for i, k := range keys {
		if k == nil {
			keys[i] = fallback[i]
		}
	}
	return in.WithColumn(frame.Field{Name: a.Key, Kind: frame.KindString}, keys)
}

// group returns the distinct keys in first-appearance order and the member
// rows of each. Rows whose key and fallback are both null share one group.
func (a *Aggregator) group(in *frame.Frame) ([]any, [][]int) {
	var (
		keys     []any
		groups   [][]int
		index    = make(map[string]int)
		nullSlot = -1
	)
	for row := 0; row < in.Height(); row++ {
		k, ok := in.Value(row, a.Key).(string)
		if !ok {
			if nullSlot < 0 {
				nullSlot = len(groups)
				keys = append(keys, nil)
				groups = append(groups, nil)
			}
			groups[nullSlot] = append(groups[nullSlot], row)
			continue
		}
		g, seen := index[k]
		if !seen {
			g = len(groups)
			index[k] = g
			keys = append(keys, k)
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], row)
	}
	return keys, groups
}
