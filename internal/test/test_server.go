package test

import (
	"testing"

	"github/pubterm/terminal-agent/internal/api"
	"github/pubterm/terminal-agent/internal/api/router"
	"github/pubterm/terminal-agent/internal/config"
)

// anvil/hardhat dev key #0, safe to hardcode in tests
const TestAgentPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

// DefaultTestConfig returns a service config with a resolvable test
// identity, independent of the environment.
func DefaultTestConfig() config.Server {
	cfg := config.DefaultServiceConfigFromEnv()
	cfg.Agent = config.Agent{
		FID:        "1042",
		Username:   "terminal-bot",
		PrivateKey: TestAgentPrivateKey,
	}

	return cfg
}

// WithTestServer runs the closure against a fully routed test server using
// the default test config.
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()
	WithTestServerConfigurable(t, DefaultTestConfig(), closure)
}

// WithTestServerConfigurable runs the closure against a fully routed test
// server using the given config.
func WithTestServerConfigurable(t *testing.T, cfg config.Server, closure func(s *api.Server)) {
	t.Helper()

	s := api.NewServer(cfg)
	router.Init(s)

	closure(s)
}
