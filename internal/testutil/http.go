package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// APIResponse mirrors the JSON envelope written by the handlers.
type APIResponse struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     *APIError       `json:"error"`
	RequestID string          `json:"request_id"`
}

// APIError is the error part of APIResponse.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PerformRequest serves one request against engine. A non-nil body is
// JSON-encoded unless it already is an io.Reader.
func PerformRequest(t *testing.T, engine http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err, "Failed to marshal request body")
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if _, ok := body.(io.Reader); !ok && body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// DecodeResponse parses the JSON envelope of w.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "Failed to parse JSON response: %s", w.Body.String())
	return resp
}

// DecodeData parses the data field of the envelope into T.
func DecodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	resp := DecodeResponse(t, w)
	require.True(t, resp.Success, "expected success response, got %s", w.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	return out
}

// AssertErrorResponse checks status and error code of an error envelope.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	assert.Equal(t, status, w.Code, "unexpected status, body: %s", w.Body.String())
	resp := DecodeResponse(t, w)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error, "expected error object in response")
	assert.Equal(t, code, resp.Error.Code)
}
