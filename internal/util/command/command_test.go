package command_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/pubterm/terminal-agent/internal/api"
	"github/pubterm/terminal-agent/internal/test"
	"github/pubterm/terminal-agent/internal/util/command"
)

func TestWithServer(t *testing.T) {
	ctx := t.Context()

	var testError = errors.New("test error")

	cfg := test.DefaultTestConfig()
	cfg.Logger.PrettyPrintConsole = false

	resultErr := command.WithServer(ctx, cfg, func(_ context.Context, s *api.Server) error {
		require.NotNil(t, s.Echo)
		require.NotNil(t, s.Router)
		assert.True(t, s.Ready())

		return testError
	})

	assert.Equal(t, testError, resultErr)
}
