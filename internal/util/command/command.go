package command

import (
	"context"

	"github.com/spf13/cobra"
	"github/pubterm/terminal-agent/internal/api"
	"github/pubterm/terminal-agent/internal/api/router"
	"github/pubterm/terminal-agent/internal/config"
)

// NewSubcommandGroup returns a parent command that only exists to group its
// subcommands and prints usage when called directly.
func NewSubcommandGroup(use string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use: use,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	cmd.AddCommand(subcommands...)

	return cmd
}

// WithServer builds a fully routed server from the given config, runs the
// closure against it and returns the closure's error.
func WithServer(ctx context.Context, cfg config.Server, closure func(ctx context.Context, s *api.Server) error) error {
	cfg.Logger.Apply()

	s := api.NewServer(cfg)
	router.Init(s)

	return closure(ctx, s)
}
