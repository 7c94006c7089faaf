package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	cliconfig "github.com/iamkit/iamkit/internal/cli/config"
	"github.com/iamkit/iamkit/internal/config"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login <service>",
		Short: "Store credentials for a catalogue service",
		Long: `Persist a username and password for a service in the credential
file. Connections to that service pick them up automatically.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cliconfig.Current().Credentials
			if path == "" {
				var err error
				path, err = config.CredentialsPath()
				if err != nil {
					return err
				}
			}
			store, err := config.LoadStore(path)
			if err != nil {
				return err
			}
			if err := store.Set(args[0], username, password); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Credentials for %q stored in %s\n", args[0], path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Service username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Service password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
