package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/pubterm/terminal-agent/internal/api"
)

// statusNotReady mirrors the non-standard 521 the infrastructure expects
// from readiness probes.
const statusNotReady = 521

func GetReadyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/ready", getReadyHandler(s))
}

// getReadyHandler is the readiness probe: all components are initialized,
// including a resolvable agent identity.
func getReadyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.Ready() {
			return c.String(statusNotReady, "Not ready.")
		}

		return c.String(http.StatusOK, "Ready.")
	}
}
