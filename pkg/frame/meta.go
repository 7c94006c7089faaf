package frame

import (
	"fmt"

	"github.com/iamkit/iamkit/pkg/table"
)

// metaTable holds the per-(model, scenario) metadata columns. Column order
// is discovery order; key order is the canonical sorted order of the frame.
type metaTable struct {
	keys []Key
	cols []string
	vals map[Key]map[string]any
}

func newMetaTable() *metaTable {
	return &metaTable{vals: make(map[Key]map[string]any)}
}

func (m *metaTable) addKey(k Key) {
	if _, ok := m.vals[k]; ok {
		return
	}
	m.keys = append(m.keys, k)
	m.vals[k] = make(map[string]any)
}

func (m *metaTable) hasKey(k Key) bool {
	_, ok := m.vals[k]
	return ok
}

func (m *metaTable) addColumn(name string) {
	for _, c := range m.cols {
		if c == name {
			return
		}
	}
	m.cols = append(m.cols, name)
}

func (m *metaTable) set(k Key, col string, v any) {
	m.addColumn(col)
	m.vals[k][col] = v
}

// restrict returns a copy containing only the given keys, preserving
// column order.
func (m *metaTable) restrict(keys []Key) *metaTable {
	out := newMetaTable()
	out.cols = append([]string(nil), m.cols...)
	for _, k := range keys {
		if src, ok := m.vals[k]; ok {
			out.keys = append(out.keys, k)
			dst := make(map[string]any, len(src))
			for c, v := range src {
				dst[c] = v
			}
			out.vals[k] = dst
		}
	}
	return out
}

// extendTo returns a copy covering the given key set; keys not previously
// present get null in every column.
func (m *metaTable) extendTo(keys []Key) *metaTable {
	out := newMetaTable()
	out.cols = append([]string(nil), m.cols...)
	for _, k := range keys {
		out.keys = append(out.keys, k)
		dst := make(map[string]any)
		if src, ok := m.vals[k]; ok {
			for c, v := range src {
				dst[c] = v
			}
		}
		out.vals[k] = dst
	}
	return out
}

// table renders the meta table with the (model, scenario) index as leading
// columns.
func (m *metaTable) table() *table.Table {
	cols := append(append([]string(nil), MetaIndex...), m.cols...)
	t := table.New(cols...)
	for _, k := range m.keys {
		row := make([]any, 0, len(cols))
		row = append(row, k.Model, k.Scenario)
		for _, c := range m.cols {
			row = append(row, m.vals[k][c])
		}
		t.MustAppendRow(row...)
	}
	return t
}

// Meta returns a copy of the metadata table, columns {model, scenario,
// extras...}, one row per (model, scenario) pair in canonical order.
func (f *Frame) Meta() *table.Table { return f.meta.table() }

// MetaColumns returns the ordered extra metadata column names.
func (f *Frame) MetaColumns() []string {
	return append([]string(nil), f.meta.cols...)
}

// MetaValue returns the metadata cell for one pair and column.
func (f *Frame) MetaValue(k Key, col string) (any, bool) {
	vals, ok := f.meta.vals[k]
	if !ok {
		return nil, false
	}
	v, ok := vals[col]
	return v, ok
}

func checkMetaName(name string) error {
	if name == "" {
		return fmt.Errorf("frame: metadata column needs a name")
	}
	if reservedMetaCols[name] {
		return fmt.Errorf("frame: %q is reserved and cannot be used as a metadata column", name)
	}
	return nil
}

// SetMetaValue broadcasts a scalar to all (model, scenario) pairs.
func (f *Frame) SetMetaValue(name string, value any) error {
	if err := checkMetaName(name); err != nil {
		return err
	}
	for _, k := range f.meta.keys {
		f.meta.set(k, name, value)
	}
	return nil
}

// SetMetaSeries sets values aligned by (model, scenario). Keys absent from
// the frame are an error; pairs not mentioned get null.
func (f *Frame) SetMetaSeries(name string, values map[Key]any) error {
	if err := checkMetaName(name); err != nil {
		return err
	}
	for k := range values {
		if !f.meta.hasKey(k) {
			return fmt.Errorf("frame: scenario %s not in frame", k)
		}
	}
	f.meta.addColumn(name)
	for k, v := range values {
		f.meta.set(k, name, v)
	}
	return nil
}

// SetMetaList sets values positionally, one per (model, scenario) pair in
// canonical order.
func (f *Frame) SetMetaList(name string, values []any) error {
	if err := checkMetaName(name); err != nil {
		return err
	}
	if len(values) != len(f.meta.keys) {
		return fmt.Errorf("frame: %d values for %d scenarios", len(values), len(f.meta.keys))
	}
	for i, k := range f.meta.keys {
		f.meta.set(k, name, values[i])
	}
	return nil
}

// SetMetaColumn copies column name from a (model, scenario)-keyed table.
// The source must have model, scenario and the named column; duplicate
// (model, scenario) rows or rows for unknown pairs are an error.
func (f *Frame) SetMetaColumn(name string, src *table.Table) error {
	if err := checkMetaName(name); err != nil {
		return err
	}
	for _, c := range append(append([]string(nil), MetaIndex...), name) {
		if !src.HasColumn(c) {
			return fmt.Errorf("frame: source table has no column %q", c)
		}
	}
	values := make(map[Key]any, src.Len())
	for i := 0; i < src.Len(); i++ {
		row := src.Row(i)
		k := Key{Model: fmt.Sprint(row["model"]), Scenario: fmt.Sprint(row["scenario"])}
		if _, dup := values[k]; dup {
			return fmt.Errorf("frame: duplicate metadata rows for %s", k)
		}
		values[k] = row[name]
	}
	return f.SetMetaSeries(name, values)
}
