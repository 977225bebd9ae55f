// Package testutil builds gin contexts and decodes the response envelope for handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/samvyt/rifa/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewTestContext returns a context for method and path. A non-nil body is sent as JSON.
func NewTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, reader)
	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, w
}

// SetURLParam adds a path parameter, as the router would for "/transactions/:id".
func SetURLParam(c *gin.Context, key, value string) {
	c.Params = append(c.Params, gin.Param{Key: key, Value: value})
}

// SetQueryParams replaces the request query string.
func SetQueryParams(c *gin.Context, params map[string]string) {
	q := make(url.Values, len(params))
	for k, v := range params {
		q.Set(k, v)
	}
	c.Request.URL.RawQuery = q.Encode()
}

func ParseResponse(w *httptest.ResponseRecorder, target interface{}) error {
	return json.Unmarshal(w.Body.Bytes(), target)
}

// APIResponse is the decoded envelope written by utils.SuccessResponse and
// utils.ErrorResponseWithError. Data is left raw for per-test decoding.
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

type ErrorInfo struct {
	Type    string   `json:"type"`
	Message string   `json:"message"`
	Details string   `json:"details,omitempty"`
	Numbers []string `json:"numbers,omitempty"` // quotas lost to another buyer
}

func NewMockLogger() logger.Interface {
	return logger.NewNopLogger()
}
