package post

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/pubterm/terminal-agent/internal/config"
	"github/pubterm/terminal-agent/internal/terminal"
)

const pinnedFlag = "pinned"

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post <text>",
		Short: "Mints a message to the terminal feed",
		Long: `Runs the full posting pipeline for the given message text:
signature request, transaction submission and receipt interpretation.
The result is printed as JSON; the exit code is non-zero on failure.`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			pinned, err := cmd.Flags().GetBool(pinnedFlag)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to read pinned flag")
			}

			runPost(strings.Join(args, " "), pinned)
		},
	}

	cmd.Flags().Bool(pinnedFlag, false, "Mint as a pinned message at the pin price")

	return cmd
}

func runPost(text string, pinned bool) {
	cfg := config.DefaultServiceConfigFromEnv()
	cfg.Logger.Apply()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var result terminal.PostResult

	service, err := terminal.NewService(cfg)
	if err != nil {
		result = terminal.ConfigFailure(err)
	} else if pinned {
		result = service.PostPinnedMessage(ctx, text)
	} else {
		result = service.PostMessage(ctx, text)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal the post result")
	}

	fmt.Println(string(out))

	if !result.Success {
		os.Exit(1)
	}
}
