package util

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/subosito/gotenv"
)

// DotEnvTryLoad applies a .env file to the process environment if it exists.
// Variables already present in the environment are never overridden.
func DotEnvTryLoad(path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return
	}

	if err := gotenv.Load(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to load .env file")
		return
	}

	log.Debug().Str("path", path).Msg("Loaded .env file")
}
