package terminal

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github/pubterm/terminal-agent/internal/api"
	"github/pubterm/terminal-agent/internal/api/httperrors"
	terminalsvc "github/pubterm/terminal-agent/internal/terminal"
	"github/pubterm/terminal-agent/internal/util"
)

// GetFeedResponse wraps the recent messages.
type GetFeedResponse struct {
	Messages []terminalsvc.FeedMessage `json:"messages"`
}

func GetFeedRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Terminal.GET("/feed", getFeedHandler(s))
}

func getFeedHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		count := 0
		if raw := c.QueryParam("count"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				return httperrors.NewHTTPErrorWithDetail(http.StatusBadRequest, httperrors.TypeInvalidPayload,
					"Invalid count parameter", "count must be a non-negative integer")
			}
			count = parsed
		}

		if s.Terminal == nil {
			return httperrors.NewHTTPErrorWithDetail(http.StatusServiceUnavailable, httperrors.TypeGeneric,
				"Terminal service unavailable", s.TerminalInitError.Error())
		}

		messages, err := s.Terminal.ReadFeed(ctx, count)
		if err != nil {
			log.Debug().Err(err).Msg("Failed to read feed")
			return err
		}

		if messages == nil {
			messages = []terminalsvc.FeedMessage{}
		}

		return util.ValidateAndReturn(c, http.StatusOK, &GetFeedResponse{Messages: messages})
	}
}
