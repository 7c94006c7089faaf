// Package table provides an ordered-column, schema-on-read table used for
// normalized catalogue payloads, scenario metadata, and CLI rendering.
//
// Columns are discovered at runtime (the remote service defines the
// metadata schema), so the table stores cells as `any` with nil meaning
// null. Column order and row order are significant: two tables are equal
// only if they match cell for cell in the same order.
package table

import (
	"fmt"
	"sort"
)

// Table is an in-memory table with a fixed, ordered column set.
// The zero value is not usable; create instances with New.
type Table struct {
	cols []string
	rows [][]any
}

// New creates an empty table with the given column order.
func New(cols ...string) *Table {
	t := &Table{cols: make([]string, len(cols))}
	copy(t.cols, cols)
	return t
}

// Columns returns the ordered column names.
func (t *Table) Columns() []string {
	out := make([]string, len(t.cols))
	copy(out, t.cols)
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool { return len(t.rows) == 0 }

// AppendRow appends a row. The number of values must match the column count.
func (t *Table) AppendRow(vals ...any) error {
	if len(vals) != len(t.cols) {
		return fmt.Errorf("table: row has %d values, expected %d columns", len(vals), len(t.cols))
	}
	row := make([]any, len(vals))
	copy(row, vals)
	t.rows = append(t.rows, row)
	return nil
}

// MustAppendRow is AppendRow for fixture construction; it panics on arity
// mismatch.
func (t *Table) MustAppendRow(vals ...any) {
	if err := t.AppendRow(vals...); err != nil {
		panic(err)
	}
}

// colIndex returns the position of col, or -1.
func (t *Table) colIndex(col string) int {
	for i, c := range t.cols {
		if c == col {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table has the given column.
func (t *Table) HasColumn(col string) bool { return t.colIndex(col) >= 0 }

// Cell returns the value at (row, col). The second return value is false if
// the row or column does not exist.
func (t *Table) Cell(row int, col string) (any, bool) {
	i := t.colIndex(col)
	if i < 0 || row < 0 || row >= len(t.rows) {
		return nil, false
	}
	return t.rows[row][i], true
}

// Row returns a copy of the row at the given position as a column-keyed map.
func (t *Table) Row(row int) map[string]any {
	out := make(map[string]any, len(t.cols))
	for i, c := range t.cols {
		out[c] = t.rows[row][i]
	}
	return out
}

// Rows returns a copy of all rows in column order.
func (t *Table) Rows() [][]any {
	out := make([][]any, len(t.rows))
	for i, r := range t.rows {
		row := make([]any, len(r))
		copy(row, r)
		out[i] = row
	}
	return out
}

// Column returns a copy of all values of one column in row order.
func (t *Table) Column(col string) ([]any, error) {
	i := t.colIndex(col)
	if i < 0 {
		return nil, fmt.Errorf("table: unknown column %q", col)
	}
	out := make([]any, len(t.rows))
	for j, r := range t.rows {
		out[j] = r[i]
	}
	return out, nil
}

// Select returns a new table containing exactly the requested columns, in
// the requested order. Unknown columns are an error.
func (t *Table) Select(cols ...string) (*Table, error) {
	idx := make([]int, len(cols))
	for i, c := range cols {
		j := t.colIndex(c)
		if j < 0 {
			return nil, fmt.Errorf("table: unknown column %q", c)
		}
		idx[i] = j
	}
	out := New(cols...)
	for _, r := range t.rows {
		row := make([]any, len(idx))
		for i, j := range idx {
			row[i] = r[j]
		}
		out.rows = append(out.rows, row)
	}
	return out, nil
}

// Filter returns a new table with the rows for which pred returns true.
// Column order is preserved.
func (t *Table) Filter(pred func(row map[string]any) bool) *Table {
	out := New(t.cols...)
	for i, r := range t.rows {
		if pred(t.Row(i)) {
			row := make([]any, len(r))
			copy(row, r)
			out.rows = append(out.rows, row)
		}
	}
	return out
}

// SortBy sorts rows in place by the given columns, in order. Values are
// compared by their formatted representation except for numeric cells,
// which compare numerically. The sort is stable.
func (t *Table) SortBy(cols ...string) {
	idx := make([]int, 0, len(cols))
	for _, c := range cols {
		if i := t.colIndex(c); i >= 0 {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(t.rows, func(a, b int) bool {
		for _, i := range idx {
			c := compareCells(t.rows[a][i], t.rows[b][i])
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := New(t.cols...)
	out.rows = t.Rows()
	return out
}

// Equal reports exact equality: same columns in the same order, same rows
// in the same order, cell-wise equal. Numeric cells compare by value, so an
// int 1 equals a float64 1 (JSON decoding yields float64).
func (t *Table) Equal(o *Table) bool {
	if o == nil || len(t.cols) != len(o.cols) || len(t.rows) != len(o.rows) {
		return false
	}
	for i := range t.cols {
		if t.cols[i] != o.cols[i] {
			return false
		}
	}
	for i := range t.rows {
		for j := range t.cols {
			if compareCells(t.rows[i][j], o.rows[i][j]) != 0 {
				return false
			}
		}
	}
	return true
}

// compareCells orders two cells. Nulls sort first; numbers compare
// numerically across int/float kinds; everything else compares by its
// string form.
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
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
