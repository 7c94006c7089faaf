package commands

import (
	"github.com/spf13/cobra"

	"github.com/iamkit/iamkit/pkg/remote"
)

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	var (
		models      []string
		scenarios   []string
		variables   []string
		regions     []string
		years       []int
		metaCols    []string
		noMeta      bool
		allVersions bool
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query timeseries data from the service",
		Long: `Query the service for timeseries data matching the given filters
and print the resulting rows. Filter values combine with OR within a
dimension and AND across dimensions; * acts as a wildcard.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := newConnection(cmd)
			if err != nil {
				return err
			}

			var opts []remote.QueryOption
			if len(models) > 0 {
				opts = append(opts, remote.FilterModel(models...))
			}
			if len(scenarios) > 0 {
				opts = append(opts, remote.FilterScenario(scenarios...))
			}
			if len(variables) > 0 {
				opts = append(opts, remote.FilterVariable(variables...))
			}
			if len(regions) > 0 {
				opts = append(opts, remote.FilterRegion(regions...))
			}
			if len(years) > 0 {
				opts = append(opts, remote.FilterYear(years...))
			}
			if noMeta {
				opts = append(opts, remote.WithoutMeta())
			} else if len(metaCols) > 0 {
				opts = append(opts, remote.WithMetaColumns(metaCols...))
			}
			if allVersions {
				opts = append(opts, remote.AllVersions())
			}

			f, err := conn.Query(cmd.Context(), opts...)
			if err != nil {
				return err
			}
			return render(cmd, f.Table())
		},
	}

	cmd.Flags().StringSliceVar(&models, "model", nil, "Filter by model name")
	cmd.Flags().StringSliceVar(&scenarios, "scenario", nil, "Filter by scenario name")
	cmd.Flags().StringSliceVar(&variables, "variable", nil, "Filter by variable name")
	cmd.Flags().StringSliceVar(&regions, "region", nil, "Filter by region name")
	cmd.Flags().IntSliceVar(&years, "year", nil, "Filter by year")
	cmd.Flags().StringSliceVar(&metaCols, "meta", nil, "Metadata columns to fetch (default: all)")
	cmd.Flags().BoolVar(&noMeta, "no-meta", false, "Skip the metadata merge")
	cmd.Flags().BoolVar(&allVersions, "all-versions", false, "Query beyond default run versions")

	return cmd
}
