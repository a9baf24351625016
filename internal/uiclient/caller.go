package uiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPCaller issues callback requests against the callback server the way
// the embedded UI frame posts to `https://<resource>/<endpoint>`. The
// underlying client carries no timeout of its own; the bridge decides
// whether a request is bounded.
type HTTPCaller struct {
	base   string
	client *http.Client
}

// NewHTTPCaller creates a caller for a callback server base URL such as
// "http://127.0.0.1:3001".
func NewHTTPCaller(base string) *HTTPCaller {
	return &HTTPCaller{
		base: strings.TrimRight(base, "/"),
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Call implements bridge.Caller.
func (c *HTTPCaller) Call(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	url := c.base + "/" + strings.TrimLeft(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}
	return respBody, nil
}
