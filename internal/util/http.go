package util

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// BindAndValidateBody binds the request body into v, translating binding
// failures into a generic 400.
func BindAndValidateBody(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		LogFromContext(c.Request().Context()).Debug().Err(err).Msg("Failed to bind request body")
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to parse request body")
	}

	return nil
}

// ValidateAndReturn writes v as the JSON response with the given status code.
func ValidateAndReturn(c echo.Context, code int, v any) error {
	if v == nil {
		return errors.New("response payload must not be nil")
	}

	return c.JSON(code, v)
}
