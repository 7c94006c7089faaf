package commands

import "github.com/spf13/cobra"

// NewMetaCommand creates the meta command.
func NewMetaCommand() *cobra.Command {
	var allVersions, indexOnly bool

	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Show the scenario index and metadata of the service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := newConnection(cmd)
			if err != nil {
				return err
			}
			defaultOnly := !allVersions
			if indexOnly {
				t, err := conn.Index(cmd.Context(), defaultOnly)
				if err != nil {
					return err
				}
				return render(cmd, t)
			}
			t, err := conn.Meta(cmd.Context(), defaultOnly)
			if err != nil {
				return err
			}
			return render(cmd, t)
		},
	}

	cmd.Flags().BoolVar(&allVersions, "all-versions", false, "Include non-default run versions")
	cmd.Flags().BoolVar(&indexOnly, "index-only", false, "Show only the (model, scenario, version) index")

	return cmd
}
