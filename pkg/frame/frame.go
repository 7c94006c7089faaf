// Package frame provides the unified scenario-data object: long-format
// IAM timeseries rows combined with a metadata table keyed by
// (model, scenario).
//
// Frames are immutable by convention. Filtering returns a new frame; the
// only mutating operations are the SetMeta family, which extend the
// metadata table without touching timeseries rows.
package frame

import (
	"fmt"
	"sort"
)

// SubannualYear is the sentinel sub-annual label for annual data.
const SubannualYear = "Year"

// Column names of the (model, scenario) index.
var MetaIndex = []string{"model", "scenario"}

// reservedMetaCols cannot be used as metadata column names because they
// collide with the index or the container itself.
var reservedMetaCols = map[string]bool{
	"model":    true,
	"scenario": true,
	"data":     true,
	"meta":     true,
}

// Key identifies one scenario run: a (model, scenario) pair.
type Key struct {
	Model    string
	Scenario string
}

func (k Key) String() string { return k.Model + "|" + k.Scenario }

// Datum is one long-format timeseries observation.
type Datum struct {
	Model     string
	Scenario  string
	Region    string
	Variable  string
	Unit      string
	Subannual string
	Year      int
	Value     float64
}

// key returns the scenario key of the datum.
func (d Datum) key() Key { return Key{Model: d.Model, Scenario: d.Scenario} }

// idx is the identity of a datum without its value, used for duplicate
// detection.
type idx struct {
	Model, Scenario, Region, Variable, Unit, Subannual string
	Year                                               int
}

func (d Datum) idx() idx {
	return idx{d.Model, d.Scenario, d.Region, d.Variable, d.Unit, d.Subannual, d.Year}
}

// Frame combines timeseries data with a (model, scenario)-keyed meta table.
type Frame struct {
	data []Datum
	meta *metaTable
}

// Option configures frame construction.
type Option func(*options)

type options struct {
	subannual string
}

// WithSubannual fills the sub-annual label for rows that do not carry one.
// Without this option, empty labels default to "Year".
func WithSubannual(label string) Option {
	return func(o *options) { o.subannual = label }
}

// New builds a frame from long-format rows. Rows are validated, defaulted
// and sorted canonically; the meta table is seeded with one row per
// (model, scenario) pair.
func New(data []Datum, opts ...Option) (*Frame, error) {
	o := options{subannual: SubannualYear}
	for _, opt := range opts {
		opt(&o)
	}

	rows := make([]Datum, 0, len(data))
	seen := make(map[idx]bool, len(data))
	for _, d := range data {
		if d.Model == "" || d.Scenario == "" || d.Region == "" || d.Variable == "" {
			return nil, fmt.Errorf("frame: missing required column in row %+v", d)
		}
		if d.Subannual == "" {
			d.Subannual = o.subannual
		}
		if seen[d.idx()] {
			return nil, fmt.Errorf("frame: duplicate row %+v", d)
		}
		seen[d.idx()] = true
		rows = append(rows, d)
	}
	sortData(rows)

	f := &Frame{data: rows, meta: newMetaTable()}
	for _, k := range keysOf(rows) {
		f.meta.addKey(k)
	}
	return f, nil
}

// sortData orders rows canonically so that equal frames compare equal
// row for row.
func sortData(rows []Datum) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch {
		case a.Model != b.Model:
			return a.Model < b.Model
		case a.Scenario != b.Scenario:
			return a.Scenario < b.Scenario
		case a.Region != b.Region:
			return a.Region < b.Region
		case a.Variable != b.Variable:
			return a.Variable < b.Variable
		case a.Unit != b.Unit:
			return a.Unit < b.Unit
		case a.Subannual != b.Subannual:
			return a.Subannual < b.Subannual
		default:
			return a.Year < b.Year
		}
	})
}

// keysOf returns the sorted unique scenario keys of rows.
func keysOf(rows []Datum) []Key {
	seen := make(map[Key]bool)
	var keys []Key
	for _, d := range rows {
		if !seen[d.key()] {
			seen[d.key()] = true
			keys = append(keys, d.key())
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Model != keys[j].Model {
			return keys[i].Model < keys[j].Model
		}
		return keys[i].Scenario < keys[j].Scenario
	})
	return keys
}

// Len returns the number of timeseries rows.
func (f *Frame) Len() int { return len(f.data) }

// Empty reports whether the frame has no timeseries rows.
func (f *Frame) Empty() bool { return len(f.data) == 0 }

// Data returns a copy of the timeseries rows in canonical order.
func (f *Frame) Data() []Datum {
	out := make([]Datum, len(f.data))
	copy(out, f.data)
	return out
}

// Keys returns the sorted unique (model, scenario) pairs.
func (f *Frame) Keys() []Key { return keysOf(f.data) }

// Models returns the sorted unique model names.
func (f *Frame) Models() []string { return f.unique(func(d Datum) string { return d.Model }) }

// Scenarios returns the sorted unique scenario names.
func (f *Frame) Scenarios() []string { return f.unique(func(d Datum) string { return d.Scenario }) }

// Regions returns the sorted unique region names.
func (f *Frame) Regions() []string { return f.unique(func(d Datum) string { return d.Region }) }

// Variables returns the sorted unique variable names.
func (f *Frame) Variables() []string { return f.unique(func(d Datum) string { return d.Variable }) }

// Units returns the sorted unique units.
func (f *Frame) Units() []string { return f.unique(func(d Datum) string { return d.Unit }) }

// Subannuals returns the sorted unique sub-annual labels.
func (f *Frame) Subannuals() []string { return f.unique(func(d Datum) string { return d.Subannual }) }

// Years returns the sorted unique years.
func (f *Frame) Years() []int {
	seen := make(map[int]bool)
	var out []int
	for _, d := range f.data {
		if !seen[d.Year] {
			seen[d.Year] = true
			out = append(out, d.Year)
		}
	}
	sort.Ints(out)
	return out
}

func (f *Frame) unique(get func(Datum) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range f.data {
		v := get(d)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// Values returns the value of one (variable, year) slice per scenario key.
// Rows not matching variable or year are ignored; multiple matching rows
// per key (e.g. several regions) are summed.
func (f *Frame) Values(variable string, year int) map[Key]float64 {
	out := make(map[Key]float64)
	for _, d := range f.data {
		if d.Variable == variable && d.Year == year {
			out[d.key()] += d.Value
		}
	}
	return out
}

// AppendData returns a new frame with additional timeseries rows. Fields
// left empty in fill are taken from each row; non-empty fill fields
// override. Metadata columns carry over, with nulls for new pairs.
func (f *Frame) AppendData(data []Datum, fill Datum, opts ...Option) (*Frame, error) {
	rows := f.Data()
	for _, d := range data {
		if fill.Model != "" {
			d.Model = fill.Model
		}
		if fill.Scenario != "" {
			d.Scenario = fill.Scenario
		}
		if fill.Region != "" {
			d.Region = fill.Region
		}
		if fill.Unit != "" {
			d.Unit = fill.Unit
		}
		rows = append(rows, d)
	}
	out, err := New(rows, opts...)
	if err != nil {
		return nil, err
	}
	out.meta = f.meta.extendTo(out.Keys())
	return out, nil
}

// Append returns a new frame combining the rows of both frames. Metadata
// columns from both sides carry over; a pair present in both with
// different values for the same column is a conflict.
func (f *Frame) Append(other *Frame) (*Frame, error) {
	out, err := f.AppendData(other.Data(), Datum{})
	if err != nil {
		return nil, err
	}
	for _, k := range other.meta.keys {
		for _, col := range other.meta.cols {
			v, ok := other.MetaValue(k, col)
			if !ok || v == nil {
				continue
			}
			if have, ok := out.MetaValue(k, col); ok && have != nil && have != v {
				return nil, fmt.Errorf("frame: conflicting metadata for %s column %q", k, col)
			}
			out.meta.set(k, col, v)
		}
	}
	return out, nil
}

// Equal reports whether two frames have identical timeseries rows and
// identical meta tables.
func (f *Frame) Equal(o *Frame) bool {
	if o == nil || len(f.data) != len(o.data) {
		return false
	}
	for i := range f.data {
		if f.data[i] != o.data[i] {
			return false
		}
	}
	return f.meta.table().Equal(o.meta.table())
}
