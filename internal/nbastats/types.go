package nbastats

import "fmt"

// statsResponse mirrors the wire shape of stats API payloads: a list of
// named tabular result sets, each a header row plus value rows.
type statsResponse struct {
	Resource   string      `json:"resource"`
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

// ResultTable is one decoded result set with header-indexed access.
// Cells hold what encoding/json produced: string, float64, or nil.
type ResultTable struct {
	Name    string
	Headers []string
	Rows    [][]any

	index map[string]int
}

func newResultTable(set resultSet) *ResultTable {
	index := make(map[string]int, len(set.Headers))
	for i, h := range set.Headers {
		index[h] = i
	}
	return &ResultTable{Name: set.Name, Headers: set.Headers, Rows: set.RowSet, index: index}
}

// NewResultTable builds a table from headers and rows. Exposed for tests and
// fixture sources.
func NewResultTable(name string, headers []string, rows [][]any) *ResultTable {
	return newResultTable(resultSet{Name: name, Headers: headers, RowSet: rows})
}

// NumRows returns the number of value rows.
func (t *ResultTable) NumRows() int {
	return len(t.Rows)
}

// HasColumn reports whether the header row contains the named column.
func (t *ResultTable) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Str returns the cell as a string; absent columns and null cells yield "".
func (t *ResultTable) Str(row int, col string) string {
	v, ok := t.cell(row, col)
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		// Whole numbers decoded as float64 (ids, counts).
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Int returns the cell as an int64; ok is false for absent columns, null
// cells, and non-numeric values.
func (t *ResultTable) Int(row int, col string) (int64, bool) {
	v, ok := t.cell(row, col)
	if !ok || v == nil {
		return 0, false
	}
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

// Float returns the cell as a float64; ok is false for absent columns, null
// cells, and non-numeric values.
func (t *ResultTable) Float(row int, col string) (float64, bool) {
	v, ok := t.cell(row, col)
	if !ok || v == nil {
		return 0, false
	}
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return f, true
}

func (t *ResultTable) cell(row int, col string) (any, bool) {
	i, ok := t.index[col]
	if !ok || row < 0 || row >= len(t.Rows) || i >= len(t.Rows[row]) {
		return nil, false
	}
	return t.Rows[row][i], true
}

func (r *statsResponse) table(name string) (*ResultTable, bool) {
	for _, set := range r.ResultSets {
		if set.Name == name {
			return newResultTable(set), true
		}
	}
	return nil, false
}
