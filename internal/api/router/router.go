package router

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github/pubterm/terminal-agent/internal/api"
	"github/pubterm/terminal-agent/internal/api/handlers"
	"github/pubterm/terminal-agent/internal/api/httperrors"
)

// Init attaches echo, the middleware stack and all routes to the server.
func Init(s *api.Server) {
	s.Echo = echo.New()
	s.Echo.Debug = false
	s.Echo.HideBanner = true
	s.Echo.Logger.SetOutput(&echoLogAdapter{})
	s.Echo.HTTPErrorHandler = errorHandler(s)

	// request metrics live in a per-server registry so repeated Init calls
	// (one per test server) do not collide on collector registration
	registry := prometheus.NewRegistry()

	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.RequestID())
	s.Echo.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "terminal_agent",
		Registerer: registry,
	}))
	s.Echo.Use(requestLogger(s.Config.Logger))

	s.Router = &api.Router{
		Routes:        nil,
		Root:          s.Echo.Group(""),
		Management:    s.Echo.Group("/-"),
		APIV1Terminal: s.Echo.Group("/api/v1/terminal"),
	}

	s.Router.Management.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{registry, prometheus.DefaultGatherer},
	}))

	s.Router.Routes = handlers.AttachAllRoutes(s)

	log.Debug().Int("route_count", len(s.Router.Routes)).Msg("Routes attached")
}

// errorHandler renders HTTPError payloads and converts everything else into
// the generic shape, hiding internals when configured to do so.
func errorHandler(s *api.Server) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var payload *httperrors.HTTPError
		switch e := err.(type) {
		case *httperrors.HTTPError:
			payload = e
		case *echo.HTTPError:
			payload = httperrors.NewFromEcho(e)
		default:
			detail := err.Error()
			if s.Config.Echo.HideInternalServerErrorDetails {
				detail = ""
			}
			payload = httperrors.NewHTTPErrorWithDetail(http.StatusInternalServerError, httperrors.TypeGeneric,
				http.StatusText(http.StatusInternalServerError), detail)
		}

		if jsonErr := c.JSON(payload.Code, payload); jsonErr != nil {
			log.Error().Err(jsonErr).Msg("Failed to write error response")
		}
	}
}

// echoLogAdapter silences echo's own logger; zerolog owns all output.
type echoLogAdapter struct{}

func (*echoLogAdapter) Write(p []byte) (int, error) {
	log.Debug().Msg(string(p))
	return len(p), nil
}
