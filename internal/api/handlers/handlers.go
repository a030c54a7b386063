package handlers

import (
	"github.com/labstack/echo/v4"
	"github/pubterm/terminal-agent/internal/api"
	"github/pubterm/terminal-agent/internal/api/handlers/common"
	"github/pubterm/terminal-agent/internal/api/handlers/terminal"
)

// AttachAllRoutes registers every route of the service.
func AttachAllRoutes(s *api.Server) []*echo.Route {
	return []*echo.Route{
		common.GetHealthyRoute(s),
		common.GetReadyRoute(s),
		terminal.PostMessageRoute(s),
		terminal.GetFeedRoute(s),
	}
}
