package commands

import "github.com/spf13/cobra"

// NewVariablesCommand creates the variables command.
func NewVariablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "variables",
		Short: "List the variables reported by the service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := newConnection(cmd)
			if err != nil {
				return err
			}
			vars, err := conn.Variables(cmd.Context())
			if err != nil {
				return err
			}
			return renderList(cmd, "variable", vars)
		},
	}
}
