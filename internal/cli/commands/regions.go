package commands

import "github.com/spf13/cobra"

// NewRegionsCommand creates the regions command.
func NewRegionsCommand() *cobra.Command {
	var synonyms bool

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List the regions defined by the service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := newConnection(cmd)
			if err != nil {
				return err
			}
			if synonyms {
				t, err := conn.RegionSynonyms(cmd.Context())
				if err != nil {
					return err
				}
				return render(cmd, t)
			}
			regions, err := conn.Regions(cmd.Context())
			if err != nil {
				return err
			}
			return renderList(cmd, "region", regions)
		},
	}

	cmd.Flags().BoolVar(&synonyms, "synonyms", false, "Include region synonyms, one row per pair")

	return cmd
}
