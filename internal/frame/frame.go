// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package frame

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrSchemaViolation is returned when a frame does not have the shape an
// operation needs: a missing column, a column of the wrong kind, or a join
// whose cardinality contract is broken.
var ErrSchemaViolation = errors.New("schema violation")

// Kind is the logical type of a column.
type Kind uint8

// Column kinds. A nil cell is null for every kind.
const (
	KindInvalid Kind = iota
	KindUint64
	KindInt64
	KindFloat64
	KindBool
	KindString
	KindStrings
	KindUint64s
	KindTime
)

var kindNames = map[Kind]string{
	KindInvalid: "invalid",
	KindUint64:  "uint64",
	KindInt64:   "int64",
	KindFloat64: "float64",
	KindBool:    "bool",
	KindString:  "string",
	KindStrings: "list[string]",
	KindUint64s: "list[uint64]",
	KindTime:    "time",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsNumeric reports whether values of the kind can be summed.
func (k Kind) IsNumeric() bool {
	return k == KindUint64 || k == KindInt64 || k == KindFloat64
}

// Field names and types a single column.
type Field struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Frame is an immutable columnar table. Every operation returns a new Frame;
// the receiver is never modified, so a Frame can be shared freely between
// goroutines.
type Frame struct {
	fields []Field
	index  map[string]int
	cols   [][]any
	height int
}

// New builds a frame from fields and one value slice per field. Values are
// checked against the field kind; the slices are copied.
func New(fields []Field, cols ...[]any) (*Frame, error) {
	if len(fields) != len(cols) {
		return nil, fmt.Errorf("%w: %d fields but %d columns", ErrSchemaViolation, len(fields), len(cols))
	}

	f := &Frame{
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
		cols:   make([][]any, len(cols)),
	}
	copy(f.fields, fields)

	for i, field := range fields {
		if field.Name == "" {
			return nil, fmt.Errorf("%w: column %d has no name", ErrSchemaViolation, i)
		}
		if _, dup := f.index[field.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrSchemaViolation, field.Name)
		}
		f.index[field.Name] = i

		if i == 0 {
			f.height = len(cols[i])
		} else if len(cols[i]) != f.height {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d",
				ErrSchemaViolation, field.Name, len(cols[i]), f.height)
		}

		col := make([]any, len(cols[i]))
		for row, v := range cols[i] {
			if err := checkValue(field.Kind, v); err != nil {
				return nil, fmt.Errorf("%w: column %q row %d: %v", ErrSchemaViolation, field.Name, row, err)
			}
			col[row] = v
		}
		f.cols[i] = col
	}

	return f, nil
}

// Empty returns a zero-row frame with the given schema.
func Empty(fields []Field) *Frame {
	cols := make([][]any, len(fields))
	for i := range cols {
		cols[i] = []any{}
	}
	f, err := New(fields, cols...)
	if err != nil {
		// Only reachable with invalid field names, which is a programming error.
		panic(err)
	}
	return f
}

// FromRecords builds a frame from row maps. Keys not named in fields are
// ignored; missing keys become null.
func FromRecords(fields []Field, records []map[string]any) (*Frame, error) {
	cols := make([][]any, len(fields))
	for i, field := range fields {
		col := make([]any, len(records))
		for row, rec := range records {
			col[row] = rec[field.Name]
		}
		cols[i] = col
	}
	return New(fields, cols...)
}

// newUnchecked assembles a frame from columns the caller has already
// validated and owns exclusively.
func newUnchecked(fields []Field, cols [][]any, height int) *Frame {
	index := make(map[string]int, len(fields))
	for i, field := range fields {
		index[field.Name] = i
	}
	return &Frame{fields: fields, index: index, cols: cols, height: height}
}

// Height returns the number of rows.
func (f *Frame) Height() int {
	return f.height
}

// Width returns the number of columns.
func (f *Frame) Width() int {
	return len(f.fields)
}

// Fields returns a copy of the schema.
func (f *Frame) Fields() []Field {
	out := make([]Field, len(f.fields))
	copy(out, f.fields)
	return out
}

// Names returns the column names in schema order.
func (f *Frame) Names() []string {
	out := make([]string, len(f.fields))
	for i, field := range f.fields {
		out[i] = field.Name
	}
	return out
}

// Field looks up a column definition by name.
func (f *Frame) Field(name string) (Field, bool) {
	i, ok := f.index[name]
	if !ok {
		return Field{}, false
	}
	return f.fields[i], true
}

// Has reports whether the frame has a column named name.
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Require fails with ErrSchemaViolation naming every absent column.
func (f *Frame) Require(names ...string) error {
	var missing []string
	for _, name := range names {
		if !f.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing column(s) %s", ErrSchemaViolation, strings.Join(missing, ", "))
	}
	return nil
}

// RequireKind fails with ErrSchemaViolation unless the column exists and has
// one of the given kinds.
func (f *Frame) RequireKind(name string, kinds ...Kind) error {
	field, ok := f.Field(name)
	if !ok {
		return fmt.Errorf("%w: missing column %s", ErrSchemaViolation, name)
	}
	for _, k := range kinds {
		if field.Kind == k {
			return nil
		}
	}
	return fmt.Errorf("%w: column %s has kind %s", ErrSchemaViolation, name, field.Kind)
}

// Column returns a copy of the named column's values.
func (f *Frame) Column(name string) ([]any, error) {
	i, ok := f.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: missing column %s", ErrSchemaViolation, name)
	}
	out := make([]any, f.height)
	copy(out, f.cols[i])
	return out, nil
}

// Value returns a single cell, or nil when the column does not exist.
func (f *Frame) Value(row int, name string) any {
	i, ok := f.index[name]
	if !ok {
		return nil
	}
	return f.cols[i][row]
}

// Row returns one row as a map keyed by column name.
func (f *Frame) Row(row int) map[string]any {
	rec := make(map[string]any, len(f.fields))
	for i, field := range f.fields {
		rec[field.Name] = f.cols[i][row]
	}
	return rec
}

// Records returns every row as a map keyed by column name.
func (f *Frame) Records() []map[string]any {
	out := make([]map[string]any, f.height)
	for row := range out {
		out[row] = f.Row(row)
	}
	return out
}

// Take returns a new frame holding the given rows in the given order.
func (f *Frame) Take(rows []int) *Frame {
	cols := make([][]any, len(f.cols))
	for i, src := range f.cols {
		col := make([]any, len(rows))
		for j, row := range rows {
			col[j] = src[row]
		}
		cols[i] = col
	}
	return newUnchecked(f.Fields(), cols, len(rows))
}

// Filter keeps the rows for which keep returns true.
func (f *Frame) Filter(keep func(row int) bool) *Frame {
	rows := make([]int, 0, f.height)
	for row := 0; row < f.height; row++ {
		if keep(row) {
			rows = append(rows, row)
		}
	}
	return f.Take(rows)
}

// Head returns the first n rows.
func (f *Frame) Head(n int) *Frame {
	if n > f.height {
		n = f.height
	}
	if n < 0 {
		n = 0
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return f.Take(rows)
}

// Select returns a frame with only the named columns, in the given order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	if err := f.Require(names...); err != nil {
		return nil, err
	}
	fields := make([]Field, len(names))
	cols := make([][]any, len(names))
	for i, name := range names {
		src := f.index[name]
		fields[i] = f.fields[src]
		cols[i] = f.cols[src]
	}
	return newUnchecked(fields, cols, f.height), nil
}

// Drop returns a frame without the named columns. Absent names are ignored.
func (f *Frame) Drop(names ...string) *Frame {
	skip := make(map[string]bool, len(names))
	for _, name := range names {
		skip[name] = true
	}
	var fields []Field
	var cols [][]any
	for i, field := range f.fields {
		if skip[field.Name] {
			continue
		}
		fields = append(fields, field)
		cols = append(cols, f.cols[i])
	}
	return newUnchecked(fields, cols, f.height)
}

// WithColumn returns a frame with the column replaced, or appended when the
// name is new.
func (f *Frame) WithColumn(field Field, values []any) (*Frame, error) {
	if len(values) != f.height {
		return nil, fmt.Errorf("%w: column %q has %d rows, expected %d",
			ErrSchemaViolation, field.Name, len(values), f.height)
	}
	col := make([]any, len(values))
	for row, v := range values {
		if err := checkValue(field.Kind, v); err != nil {
			return nil, fmt.Errorf("%w: column %q row %d: %v", ErrSchemaViolation, field.Name, row, err)
		}
		col[row] = v
	}

	fields := f.Fields()
	cols := make([][]any, len(f.cols), len(f.cols)+1)
	copy(cols, f.cols)
	if i, ok := f.index[field.Name]; ok {
		fields[i] = field
		cols[i] = col
	} else {
		fields = append(fields, field)
		cols = append(cols, col)
	}
	return newUnchecked(fields, cols, f.height), nil
}

// Rename returns a frame with column from renamed to to.
func (f *Frame) Rename(from, to string) (*Frame, error) {
	i, ok := f.index[from]
	if !ok {
		return nil, fmt.Errorf("%w: missing column %s", ErrSchemaViolation, from)
	}
	if _, clash := f.index[to]; clash && to != from {
		return nil, fmt.Errorf("%w: column %s already exists", ErrSchemaViolation, to)
	}
	fields := f.Fields()
	fields[i].Name = to
	return newUnchecked(fields, f.cols, f.height), nil
}

// Cast converts a column to another kind. Only lossless numeric conversions
// are supported; anything else fails with ErrSchemaViolation.
func (f *Frame) Cast(name string, kind Kind) (*Frame, error) {
	field, ok := f.Field(name)
	if !ok {
		return nil, fmt.Errorf("%w: missing column %s", ErrSchemaViolation, name)
	}
	if field.Kind == kind {
		return f, nil
	}

	src := f.cols[f.index[name]]
	out := make([]any, len(src))
	for row, v := range src {
		if v == nil {
			continue
		}
		converted, err := castValue(v, kind)
		if err != nil {
			return nil, fmt.Errorf("%w: cast %s row %d to %s: %v", ErrSchemaViolation, name, row, kind, err)
		}
		out[row] = converted
	}
	return f.WithColumn(Field{Name: name, Kind: kind}, out)
}

func castValue(v any, kind Kind) (any, error) {
	switch kind {
	case KindUint64:
		switch n := v.(type) {
		case int64:
			if n < 0 {
				return nil, fmt.Errorf("negative value %d", n)
			}
			return uint64(n), nil
		case float64:
			if n < 0 || n != math.Trunc(n) || n >= math.MaxUint64 {
				return nil, fmt.Errorf("value %v is not an unsigned integer", n)
			}
			return uint64(n), nil
		}
	case KindInt64:
		switch n := v.(type) {
		case uint64:
			if n > math.MaxInt64 {
				return nil, fmt.Errorf("value %d overflows int64", n)
			}
			return int64(n), nil
		case float64:
			if n != math.Trunc(n) || n >= math.MaxInt64 || n < math.MinInt64 {
				return nil, fmt.Errorf("value %v is not an integer", n)
			}
			return int64(n), nil
		}
	case KindFloat64:
		if x, ok := AsFloat(v); ok {
			return x, nil
		}
	}
	return nil, fmt.Errorf("unsupported conversion from %T", v)
}

// checkValue verifies that v is a legal cell for kind.
func checkValue(kind Kind, v any) error {
	if v == nil {
		return nil
	}
	ok := false
	switch kind {
	case KindUint64:
		_, ok = v.(uint64)
	case KindInt64:
		_, ok = v.(int64)
	case KindFloat64:
		var x float64
		x, ok = v.(float64)
		if ok && math.IsNaN(x) {
			return errors.New("NaN is not a valid value; use null")
		}
	case KindBool:
		_, ok = v.(bool)
	case KindString:
		_, ok = v.(string)
	case KindStrings:
		_, ok = v.([]string)
	case KindUint64s:
		_, ok = v.([]uint64)
	case KindTime:
		_, ok = v.(time.Time)
	}
	if !ok {
		return fmt.Errorf("value of type %T is not %s", v, kind)
	}
	return nil
}

// AsFloat converts a numeric cell to float64.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// AsString returns a string cell, or "" and false for null.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsStrings returns the cell as a list of strings. Scalar strings are
// treated as one-element lists.
func AsStrings(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case string:
		return []string{s}
	}
	return nil
}
