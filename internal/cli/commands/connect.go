// Package commands implements the iamkit subcommands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/iamkit/iamkit/internal/cli/config"
	"github.com/iamkit/iamkit/pkg/remote"
)

// catalogueRegistry resolves service names for all commands; swapped for
// a fixture registry in tests.
var catalogueRegistry = remote.DefaultRegistry()

// newConnection opens a connection to the configured service.
func newConnection(cmd *cobra.Command) (*remote.Connection, error) {
	cfg := config.Current()
	opts := []remote.Option{
		remote.WithRegistry(catalogueRegistry),
		remote.WithLogger(config.GetLogger(cmd.Context())),
	}
	if cfg.Credentials != "" {
		opts = append(opts, remote.WithCredentialStore(cfg.Credentials))
	}
	if cfg.Username != "" || cfg.Password != "" {
		opts = append(opts, remote.WithCredentials(cfg.Username, cfg.Password))
	}
	return remote.Connect(cmd.Context(), cfg.Service, opts...)
}
