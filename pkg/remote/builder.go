package remote

import (
	"fmt"

	"github.com/iamkit/iamkit/pkg/frame"
	"github.com/iamkit/iamkit/pkg/table"
)

// checkVersionAmbiguity fails when a runs table holds more than one
// version for the same (model, scenario) pair.
func checkVersionAmbiguity(runs *table.Table) error {
	counts := make(map[frame.Key]int)
	var order []frame.Key
	for i := 0; i < runs.Len(); i++ {
		row := runs.Row(i)
		k := frame.Key{Model: fmt.Sprint(row["model"]), Scenario: fmt.Sprint(row["scenario"])}
		if counts[k] == 1 {
			order = append(order, k)
		}
		counts[k]++
	}
	if len(order) > 0 {
		return &AmbiguousVersionError{Keys: order}
	}
	return nil
}

// buildFrame merges normalized timeseries rows with the selected metadata
// slice into the unified scenario frame. The join key is (model,
// scenario); every data pair must have a matching run row. defaultOnly
// drops the redundant is_default column from the merge.
func buildFrame(data []frame.Datum, runs *table.Table, sel metaSelection, defaultOnly bool) (*frame.Frame, error) {
	f, err := frame.New(data)
	if err != nil {
		return nil, err
	}
	if sel.none {
		return f, nil
	}

	keys := make(map[frame.Key]bool, len(f.Keys()))
	for _, k := range f.Keys() {
		keys[k] = true
	}
	// restrict the run rows to the scenarios actually present in the data
	matched := runs.Filter(func(row map[string]any) bool {
		return keys[frame.Key{Model: fmt.Sprint(row["model"]), Scenario: fmt.Sprint(row["scenario"])}]
	})

	// the invariant: every (model, scenario) in the data has a run row
	have := make(map[frame.Key]bool, matched.Len())
	for i := 0; i < matched.Len(); i++ {
		row := matched.Row(i)
		have[frame.Key{Model: fmt.Sprint(row["model"]), Scenario: fmt.Sprint(row["scenario"])}] = true
	}
	for k := range keys {
		if !have[k] {
			return nil, fmt.Errorf("remote: no run metadata for scenario %s", k)
		}
	}

	cols := []string{"version"}
	if !defaultOnly {
		cols = append(cols, "is_default")
	}
	extras, err := selectedMetaCols(matched, sel)
	if err != nil {
		return nil, err
	}
	cols = append(cols, extras...)

	for _, col := range cols {
		if err := f.SetMetaColumn(col, matched); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// selectedMetaCols resolves the extra metadata columns to merge: all
// server-defined columns by default, or the validated requested subset.
func selectedMetaCols(runs *table.Table, sel metaSelection) ([]string, error) {
	all := make([]string, 0)
	for _, c := range runs.Columns() {
		switch c {
		case "model", "scenario", "version", "is_default":
		default:
			all = append(all, c)
		}
	}
	if sel.cols == nil {
		return all, nil
	}
	known := make(map[string]bool, len(all))
	for _, c := range all {
		known[c] = true
	}
	for _, c := range sel.cols {
		if !known[c] {
			return nil, fmt.Errorf("remote: unknown metadata column %q (available: %v)", c, all)
		}
	}
	return append([]string(nil), sel.cols...), nil
}
