package table

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	pretty "github.com/jedib0t/go-pretty/v6/table"
)

// Format selects a render output format.
type Format string

// Supported render formats.
const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Render writes the table to w in the requested format. Unknown formats
// fall back to text.
func (t *Table) Render(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		return t.renderJSON(w)
	case FormatCSV:
		return t.renderCSV(w)
	default:
		return t.renderText(w)
	}
}

func (t *Table) renderText(w io.Writer) error {
	if t.Empty() {
		_, err := fmt.Fprintln(w, "(0 rows)")
		return err
	}

	tw := pretty.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(pretty.StyleLight)

	header := make(pretty.Row, len(t.cols))
	for i, c := range t.cols {
		header[i] = c
	}
	tw.AppendHeader(header)

	for _, r := range t.rows {
		row := make(pretty.Row, len(r))
		for i, v := range r {
			row[i] = formatCell(v)
		}
		tw.AppendRow(row)
	}

	tw.Render()
	_, err := fmt.Fprintf(w, "(%d rows)\n", len(t.rows))
	return err
}

func (t *Table) renderCSV(w io.Writer) error {
	if _, err := fmt.Fprintln(w, strings.Join(t.cols, ",")); err != nil {
		return err
	}
	for _, r := range t.rows {
		vals := make([]string, len(r))
		for i, v := range r {
			vals[i] = escapeCSV(formatCell(v))
		}
		if _, err := fmt.Fprintln(w, strings.Join(vals, ",")); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) renderJSON(w io.Writer) error {
	out := make([]map[string]any, len(t.rows))
	for i := range t.rows {
		out[i] = t.Row(i)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// formatCell converts a cell to its display form. Nulls render as empty
// strings.
func formatCell(v any) string {
	if v == nil {
		return ""
	}
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return fmt.Sprint(v)
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
