package httperrors

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTPError is the public error payload of this service. Code and Type are
// stable; Detail is informational only.
type HTTPError struct {
	Code   int    `json:"status"`
	Type   string `json:"type"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

const (
	// TypeGeneric marks errors without a more specific public type.
	TypeGeneric = "generic"
	// TypeInvalidPayload marks request payload validation failures.
	TypeInvalidPayload = "invalid_payload"
)

// NewHTTPError constructs a typed error payload.
func NewHTTPError(code int, errorType, title string) *HTTPError {
	return &HTTPError{
		Code:  code,
		Type:  errorType,
		Title: title,
	}
}

// NewHTTPErrorWithDetail constructs a typed error payload with extra detail.
func NewHTTPErrorWithDetail(code int, errorType, title, detail string) *HTTPError {
	return &HTTPError{
		Code:   code,
		Type:   errorType,
		Title:  title,
		Detail: detail,
	}
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTPError %d (%s): %s", e.Code, e.Type, e.Title)
}

// NewFromEcho converts an echo.HTTPError into the public payload shape.
func NewFromEcho(err *echo.HTTPError) *HTTPError {
	title := http.StatusText(err.Code)
	if msg, ok := err.Message.(string); ok {
		title = msg
	}

	return NewHTTPError(err.Code, TypeGeneric, title)
}
