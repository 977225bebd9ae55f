// Package pix holds the PIX provider adapters behind pixgateway.Gateway.
package pix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout = 15 * time.Second
	// Maximum response body size accepted from a provider (QR images included).
	maxResponseSize = 1 << 20
	maxErrorSnippet = 512
)

// ProviderError is a non-2xx answer from a provider API.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// apiClient is the JSON-over-HTTP plumbing shared by the provider adapters.
type apiClient struct {
	provider   string
	baseURL    string
	httpClient *http.Client
	authorize  func(req *http.Request)
	// errorMessage extracts a readable message from an error body.
	errorMessage func(body []byte) string
}

func newAPIClient(provider, baseURL string, authorize func(*http.Request)) *apiClient {
	return &apiClient{
		provider:   provider,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		authorize:  authorize,
	}
}

// do sends body as JSON (when non-nil) and decodes a 2xx response into out (when non-nil).
func (c *apiClient) do(ctx context.Context, method, path string, body, out interface{}, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", c.provider, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if c.authorize != nil {
		c.authorize(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", c.provider, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", c.provider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ProviderError{
			Provider:   c.provider,
			StatusCode: resp.StatusCode,
			Message:    c.describe(data),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", c.provider, err)
	}
	return nil
}

func (c *apiClient) describe(body []byte) string {
	if c.errorMessage != nil {
		if msg := c.errorMessage(body); msg != "" {
			return msg
		}
	}
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorSnippet {
		s = s[:maxErrorSnippet]
	}
	return s
}

// splitName splits a full name into first name and the rest.
func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
