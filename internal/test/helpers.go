package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github/pubterm/terminal-agent/internal/api"
	"github/pubterm/terminal-agent/internal/api/httperrors"
)

// PerformRequest sends an in-memory request through the server's handler
// chain. A non-nil body is encoded as JSON.
func PerformRequest(t *testing.T, s *api.Server, method string, path string, body any, headers http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, vals := range headers {
		for _, val := range vals {
			req.Header.Add(key, val)
		}
	}

	res := httptest.NewRecorder()
	s.Echo.ServeHTTP(res, req)

	return res
}

// ParseResponseBody decodes the recorded JSON response into v.
func ParseResponseBody(t *testing.T, res *httptest.ResponseRecorder, v any) {
	t.Helper()

	require.NoError(t, json.Unmarshal(res.Body.Bytes(), v))
}

// RequireHTTPError asserts that the response carries the given public error
// payload.
func RequireHTTPError(t *testing.T, res *httptest.ResponseRecorder, expected *httperrors.HTTPError) {
	t.Helper()

	require.Equal(t, expected.Code, res.Result().StatusCode)

	var payload httperrors.HTTPError
	ParseResponseBody(t, res, &payload)
	require.Equal(t, expected.Type, payload.Type)
}
