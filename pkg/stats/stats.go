// Package stats summarizes scenario values grouped by a metadata column.
package stats

import (
	"fmt"
	"strconv"

	"github.com/iamkit/iamkit/pkg/frame"
	"github.com/iamkit/iamkit/pkg/table"
)

// Statistics collects described value sets and renders them as one summary
// table, one row per grouping category.
type Statistics struct {
	frame      *frame.Frame
	groupCol   string
	categories []string
	groups     map[string][]frame.Key

	headers []string
	cells   map[string]map[string]any
}

// Option configures a Statistics instance.
type Option func(*Statistics)

// GroupBy groups the summary rows by a metadata column. Category order is
// preserved in the summary; scenarios outside the listed categories are
// excluded.
func GroupBy(col string, categories ...string) Option {
	return func(s *Statistics) {
		s.groupCol = col
		s.categories = categories
	}
}

// New prepares a Statistics instance over a frame. A grouping column is
// required and must be a metadata column of the frame.
func New(f *frame.Frame, opts ...Option) (*Statistics, error) {
	s := &Statistics{
		frame:  f,
		groups: make(map[string][]frame.Key),
		cells:  make(map[string]map[string]any),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.groupCol == "" {
		return nil, fmt.Errorf("stats: a grouping column is required")
	}
	known := false
	for _, c := range f.MetaColumns() {
		if c == s.groupCol {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("stats: unknown metadata column %q", s.groupCol)
	}

	for _, k := range f.Keys() {
		v, ok := f.MetaValue(k, s.groupCol)
		if !ok {
			continue
		}
		cat := fmt.Sprint(v)
		for _, c := range s.categories {
			if c == cat {
				s.groups[cat] = append(s.groups[cat], k)
				break
			}
		}
	}
	return s, nil
}

// Describe records one summary column from per-scenario values, typically
// Frame.Values output. The column is labelled "header (year)".
func (s *Statistics) Describe(header string, year int, values map[frame.Key]float64) {
	label := fmt.Sprintf("%s (%d)", header, year)
	s.headers = append(s.headers, label)

	for _, cat := range s.categories {
		var vals []float64
		for _, k := range s.groups[cat] {
			if v, ok := values[k]; ok {
				vals = append(vals, v)
			}
		}
		if s.cells[cat] == nil {
			s.cells[cat] = make(map[string]any)
		}
		s.cells[cat][label] = formatCell(vals)
	}
}

// formatCell renders mean (max, min) over the group values, or null when
// the group has none.
func formatCell(vals []float64) any {
	if len(vals) == 0 {
		return nil
	}
	sum, max, min := 0.0, vals[0], vals[0]
	for _, v := range vals {
		sum += v
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	return fmt.Sprintf("%.2f (%.2f, %.2f)", sum/float64(len(vals)), max, min)
}

// Summarize renders the collected statistics: one row per category with
// the scenario count and every described column.
func (s *Statistics) Summarize() *table.Table {
	cols := append([]string{s.groupCol, "count"}, s.headers...)
	t := table.New(cols...)
	for _, cat := range s.categories {
		row := []any{cat, strconv.Itoa(len(s.groups[cat]))}
		for _, h := range s.headers {
			row = append(row, s.cells[cat][h])
		}
		t.MustAppendRow(row...)
	}
	return t
}
