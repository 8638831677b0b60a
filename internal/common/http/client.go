// internal/common/http/client.go
package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"customer-insights/internal/common/observability"
)

// Client is the shared HTTP client used to reach the analytics backend.
// A zero timeout leaves requests unbounded.
type Client struct {
	httpClient *http.Client
	obs        *observability.Observability
}

func NewClient(timeout time.Duration, obs *observability.Observability) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		obs: obs,
	}
}

// Get issues a GET and records it under endpoint, which should be the route
// template (for example "/customer/{id}") rather than the concrete path.
func (c *Client) Get(ctx context.Context, rawURL, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	c.obs.RecordRequest(ctx, endpoint, status, time.Since(start))

	return resp, err
}

// EscapePathSegment escapes s for use as a single path segment. Unlike
// url.PathEscape it also escapes sub-delimiters such as '&', '+' and '=' so
// the backend sees the literal value.
func EscapePathSegment(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
