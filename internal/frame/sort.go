// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package frame

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

// SortKey orders rows by one column.
type SortKey struct {
	Column     string
	Descending bool
	NullsLast  bool
}

// SortBy returns the rows ordered by the given keys. The sort is stable:
// rows that compare equal on every key keep their original relative order.
func (f *Frame) SortBy(keys ...SortKey) (*Frame, error) {
	idx := make([]int, len(keys))
	for i, key := range keys {
		field, ok := f.Field(key.Column)
		if !ok {
			return nil, fmt.Errorf("%w: missing sort column %s", ErrSchemaViolation, key.Column)
		}
		if !sortable(field.Kind) {
			return nil, fmt.Errorf("%w: cannot sort by %s column %s", ErrSchemaViolation, field.Kind, key.Column)
		}
		idx[i] = f.index[key.Column]
	}

	rows := make([]int, f.height)
	for i := range rows {
		rows[i] = i
	}

	slices.SortStableFunc(rows, func(a, b int) int {
		for i, key := range keys {
			col := f.cols[idx[i]]
			if c := compareCells(col[a], col[b], key); c != 0 {
				return c
			}
		}
		return 0
	})

	return f.Take(rows), nil
}

func sortable(k Kind) bool {
	switch k {
	case KindUint64, KindInt64, KindFloat64, KindBool, KindString, KindTime:
		return true
	}
	return false
}

// compareCells orders two cells of the same kind under key. Null placement is
// independent of the direction.
func compareCells(a, b any, key SortKey) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		if key.NullsLast {
			return 1
		}
		return -1
	case b == nil:
		if key.NullsLast {
			return -1
		}
		return 1
	}

	c := Compare(a, b)
	if key.Descending {
		return -c
	}
	return c
}

// Compare orders two non-null cells of the same kind.
func Compare(a, b any) int {
	switch x := a.(type) {
	case uint64:
		return cmp.Compare(x, b.(uint64))
	case int64:
		return cmp.Compare(x, b.(int64))
	case float64:
		return cmp.Compare(x, b.(float64))
	case string:
		return cmp.Compare(x, b.(string))
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case time.Time:
		return x.Compare(b.(time.Time))
	}
	return 0
}
