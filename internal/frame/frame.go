// Package frame holds the rectangular record sets produced by extractors:
// a fixed, ordered column set plus rows of nullable typed cells.
package frame

import (
	"fmt"
	"sort"
)

// Kind enumerates the cell types a column can hold.
type Kind int

const (
	String Kind = iota
	Int64
	Float64
	Bool
)

// Column declares one named, typed column.
type Column struct {
	Name string
	Kind Kind
}

// Str declares a string column.
func Str(name string) Column { return Column{Name: name, Kind: String} }

// Int declares an int64 column.
func Int(name string) Column { return Column{Name: name, Kind: Int64} }

// Float declares a float64 column.
func Float(name string) Column { return Column{Name: name, Kind: Float64} }

// Boolean declares a bool column.
func Boolean(name string) Column { return Column{Name: name, Kind: Bool} }

// Frame is an append-only table. Cells are string/int64/float64/bool
// matching the column kind, or nil for null.
type Frame struct {
	cols  []Column
	index map[string]int
	rows  [][]any
}

// New constructs an empty frame with the given column set.
func New(cols ...Column) *Frame {
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c.Name] = i
	}
	return &Frame{cols: cols, index: index}
}

// Columns returns the declared column set in order.
func (f *Frame) Columns() []Column {
	return f.cols
}

// NumRows returns the number of appended rows.
func (f *Frame) NumRows() int {
	return len(f.rows)
}

// AppendRow adds one row. Values must match the column count and kinds;
// nil marks a null cell.
func (f *Frame) AppendRow(values ...any) error {
	if len(values) != len(f.cols) {
		return fmt.Errorf("frame: row has %d values, want %d", len(values), len(f.cols))
	}
	for i, v := range values {
		if v == nil {
			continue
		}
		if !kindMatches(f.cols[i].Kind, v) {
			return fmt.Errorf("frame: column %q: value %T does not match kind", f.cols[i].Name, v)
		}
	}
	row := make([]any, len(values))
	copy(row, values)
	f.rows = append(f.rows, row)
	return nil
}

// Value returns the cell at (row, column name); ok is false when the column
// does not exist or the row is out of range.
func (f *Frame) Value(row int, col string) (any, bool) {
	i, ok := f.index[col]
	if !ok || row < 0 || row >= len(f.rows) {
		return nil, false
	}
	return f.rows[row][i], true
}

// Row returns the raw cells of one row.
func (f *Frame) Row(i int) []any {
	return f.rows[i]
}

// SortBy orders rows ascending by the named columns. Null cells sort first.
// Used to keep partition contents reproducible across runs.
func (f *Frame) SortBy(cols ...string) {
	idx := make([]int, 0, len(cols))
	for _, name := range cols {
		if i, ok := f.index[name]; ok {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(f.rows, func(a, b int) bool {
		for _, i := range idx {
			c := compareCells(f.rows[a][i], f.rows[b][i])
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
}

func kindMatches(kind Kind, v any) bool {
	switch kind {
	case String:
		_, ok := v.(string)
		return ok
	case Int64:
		_, ok := v.(int64)
		return ok
	case Float64:
		_, ok := v.(float64)
		return ok
	case Bool:
		_, ok := v.(bool)
		return ok
	}
	return false
}

func compareCells(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	switch av := a.(type) {
	case string:
		bv := b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	case int64:
		bv := b.(int64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	case float64:
		bv := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	case bool:
		bv := b.(bool)
		if av != bv {
			if !av {
				return -1
			}
			return 1
		}
	}
	return 0
}
