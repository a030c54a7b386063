package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/pubterm/terminal-agent/internal/config"
	"github/pubterm/terminal-agent/internal/terminal"
)

const countFlag = "count"

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Prints recent terminal messages",
		Long:  `Reads the most recent messages from the terminal contract and prints them as JSON.`,
		Run: func(cmd *cobra.Command, _ []string) {
			count, err := cmd.Flags().GetInt(countFlag)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to read count flag")
			}

			runFeed(count)
		},
	}

	cmd.Flags().Int(countFlag, 0, "Number of messages to read (0 selects the configured default)")

	return cmd
}

func runFeed(count int) {
	cfg := config.DefaultServiceConfigFromEnv()
	cfg.Logger.Apply()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	service, err := terminal.NewService(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize the terminal service")
	}

	messages, err := service.ReadFeed(ctx, count)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read the feed")
	}

	out, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal the feed")
	}

	fmt.Println(string(out))
}
