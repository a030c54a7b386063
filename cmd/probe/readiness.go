package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/pubterm/terminal-agent/internal/config"
	"github/pubterm/terminal-agent/internal/terminal"
)

const readinessTimeout = 10 * time.Second

func newReadiness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Checks the outbound dependencies of the agent",
		Long: `Verifies that the agent identity resolves, the RPC node answers
and the signing API is reachable. Exits non-zero on the first failure.`,
		Run: func(cmd *cobra.Command, _ []string) {
			verbose, err := cmd.Flags().GetBool(verboseFlag)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to read verbose flag")
			}

			runReadiness(verbose)
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Prints each passed check")

	return cmd
}

func runReadiness(verbose bool) {
	cfg := config.DefaultServiceConfigFromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), readinessTimeout)
	defer cancel()

	identity, err := cfg.Agent.Resolve()
	if err != nil {
		log.Fatal().Err(err).Msg("Agent identity is not resolvable")
	}
	if verbose {
		fmt.Printf("Agent identity resolved (address %s)\n", identity.Address.Hex())
	}

	client, err := terminal.NewRPCClient(cfg.Terminal.RPCURL)
	if err != nil {
		log.Fatal().Err(err).Msg("RPC node is not reachable")
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("RPC node did not answer")
	}
	if verbose {
		fmt.Printf("RPC node answered (chain ID %s)\n", chainID.String())
	}

	httpClient := &http.Client{Timeout: readinessTimeout}
	res, err := httpClient.Get(cfg.Terminal.APIBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Signing API is not reachable")
	}
	res.Body.Close()
	if verbose {
		fmt.Printf("Signing API reachable (status %d)\n", res.StatusCode)
	}
}
