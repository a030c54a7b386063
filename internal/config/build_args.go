package config

import "fmt"

// ModuleName is the canonical name of this module.
const ModuleName = "github/pubterm/terminal-agent"

// The following vars are automatically injected via -ldflags.
var (
	Commit    = "local"
	BuildDate = "unknown"
)

// GetFormattedBuildArgs returns "<module> @ <commit> (<build date>)".
func GetFormattedBuildArgs() string {
	return fmt.Sprintf("%v @ %v (%v)", ModuleName, Commit, BuildDate)
}
