package frame

import "github.com/iamkit/iamkit/pkg/table"

// Table renders the timeseries rows as a table in canonical order, one
// row per datum.
func (f *Frame) Table() *table.Table {
	t := table.New("model", "scenario", "region", "variable", "unit", "subannual", "year", "value")
	for _, d := range f.data {
		t.MustAppendRow(d.Model, d.Scenario, d.Region, d.Variable, d.Unit, d.Subannual, d.Year, d.Value)
	}
	return t
}
