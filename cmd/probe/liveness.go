package probe

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/pubterm/terminal-agent/internal/config"
)

const livenessTimeout = 5 * time.Second

func newLiveness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liveness",
		Short: "Checks the local server liveness endpoint",
		Long:  `Hits /-/healthy on the configured listen address and exits non-zero if it does not answer.`,
		Run: func(cmd *cobra.Command, _ []string) {
			verbose, err := cmd.Flags().GetBool(verboseFlag)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to read verbose flag")
			}

			runLiveness(verbose)
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Prints the probe response body")

	return cmd
}

func runLiveness(verbose bool) {
	cfg := config.DefaultServiceConfigFromEnv()

	client := &http.Client{Timeout: livenessTimeout}

	res, err := client.Get(fmt.Sprintf("http://localhost%s/-/healthy", cfg.Echo.ListenAddress))
	if err != nil {
		log.Fatal().Err(err).Msg("Liveness probe failed")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		log.Fatal().Int("status", res.StatusCode).Msg("Liveness probe returned a non-OK status")
	}

	if verbose {
		fmt.Println("Healthy.")
	}
}
