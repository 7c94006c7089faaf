package commands

import (
	"github.com/spf13/cobra"

	"github.com/iamkit/iamkit/pkg/table"
)

// NewServicesCommand creates the services command.
func NewServicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "List known scenario catalogue services",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := table.New("name", "alias", "url")
			for _, name := range catalogueRegistry.Names() {
				svc, _ := catalogueRegistry.Lookup(name)
				t.MustAppendRow(svc.Name, svc.Alias, svc.URL)
			}
			return render(cmd, t)
		},
	}
}
