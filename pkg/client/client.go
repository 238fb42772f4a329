// Package client provides the API client used by dashboard-side consumers
// of quotation-engine, and the greeting loader the front page renders from.
package client

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// APIClient is the capability handed to components that need to fetch from
// the engine API. Keeping it an interface lets tests substitute a double
// instead of a process-wide HTTP client.
type APIClient interface {
	// Get issues a GET for path (relative to the configured base URL)
	// and returns the raw response body.
	Get(ctx context.Context, path string) ([]byte, error)
}

// RestyClient is the production APIClient backed by resty.
type RestyClient struct {
	http *resty.Client
}

// New creates a RestyClient rooted at baseURL.
func New(baseURL string) *RestyClient {
	return &RestyClient{
		http: resty.New().SetBaseURL(baseURL),
	}
}

// Get issues a GET request and returns the response body.
// Non-2xx responses are reported as errors.
func (c *RestyClient) Get(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("GET %s: unexpected status %s", path, resp.Status())
	}
	return resp.Body(), nil
}

// Ensure RestyClient implements APIClient at compile time.
var _ APIClient = (*RestyClient)(nil)
