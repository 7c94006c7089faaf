package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iamkit/iamkit/internal/cli/config"
	"github.com/iamkit/iamkit/pkg/table"
)

// parseFormat maps the --output value to a render format.
func parseFormat(s string) (table.Format, error) {
	switch s {
	case "", "text", "table":
		return table.FormatText, nil
	case "csv":
		return table.FormatCSV, nil
	case "json":
		return table.FormatJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q (text|csv|json)", s)
}

// render writes a table to the command output in the configured format.
func render(cmd *cobra.Command, t *table.Table) error {
	format, err := parseFormat(config.Current().OutputFormat)
	if err != nil {
		return err
	}
	return t.Render(cmd.OutOrStdout(), format)
}

// renderList writes a single-column table from a string list.
func renderList(cmd *cobra.Command, col string, values []string) error {
	t := table.New(col)
	for _, v := range values {
		t.MustAppendRow(v)
	}
	return render(cmd, t)
}
