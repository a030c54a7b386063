package router

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"github/pubterm/terminal-agent/internal/config"
)

// requestLogger emits one structured log line per request and attaches a
// request-scoped logger to the request context.
func requestLogger(cfg config.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURI:       true,
		LogRequestID: true,
		LogLatency:   true,
		LogError:     true,
		BeforeNextFunc: func(c echo.Context) {
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			logger := log.With().Str("request_id", requestID).Logger()
			c.SetRequest(c.Request().WithContext(logger.WithContext(c.Request().Context())))
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := log.WithLevel(cfg.RequestLevel)
			if v.Error != nil {
				event = log.Warn().Err(v.Error)
			}

			event.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("Request handled")

			return nil
		},
	})
}
