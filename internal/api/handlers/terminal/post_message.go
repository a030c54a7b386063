package terminal

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/pubterm/terminal-agent/internal/api"
	"github/pubterm/terminal-agent/internal/metrics"
	terminalsvc "github/pubterm/terminal-agent/internal/terminal"
	"github/pubterm/terminal-agent/internal/util"
)

// PostMessagePayload is the request body of the posting endpoint.
type PostMessagePayload struct {
	Text   string `json:"text"`
	Pinned bool   `json:"pinned"`
}

func PostMessageRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Terminal.POST("/messages", postMessageHandler(s))
}

// postMessageHandler runs the posting pipeline. Pipeline failures are part
// of the response body, not HTTP errors: a reverted transaction is still a
// completed request.
func postMessageHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body PostMessagePayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		variant := terminalsvc.VariantNormal
		if body.Pinned {
			variant = terminalsvc.VariantPinned
		}

		var result terminalsvc.PostResult
		switch {
		case s.Terminal == nil:
			result = terminalsvc.ConfigFailure(s.TerminalInitError)
		case body.Pinned:
			result = s.Terminal.PostPinnedMessage(ctx, body.Text)
		default:
			result = s.Terminal.PostMessage(ctx, body.Text)
		}

		metrics.RecordPostOutcome(variant, result)

		if !result.Success {
			log.Debug().
				Str("error_kind", string(result.ErrorKind)).
				Str("error", result.Error).
				Msg("Post failed")
		}

		return util.ValidateAndReturn(c, http.StatusOK, result)
	}
}
