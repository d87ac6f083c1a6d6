// ABOUTME: Standard HTTP client implementation with retry logic and timeout support
// ABOUTME: Used by discovery sources with retries and by the probe without them

package standard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"channel-catalog/core/interfaces"
)

const (
	defaultRetries   = 3
	defaultUserAgent = "channel-catalog/1.0"
)

// Options configure the client
type Options struct {
	Timeout time.Duration

	// UserAgent defaults to channel-catalog/1.0
	UserAgent string

	// MaxAttempts is the number of tries for 5xx and transport errors; 0 means 3
	MaxAttempts int
}

// StandardHTTPClient implements the HTTPClient interface using standard library
type StandardHTTPClient struct {
	client      *http.Client
	userAgent   string
	maxAttempts int
}

// NewStandardHTTPClient creates a new HTTP client
func NewStandardHTTPClient(opts Options) *StandardHTTPClient {
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultRetries
	}
	return &StandardHTTPClient{
		client:      &http.Client{Timeout: opts.Timeout},
		userAgent:   opts.UserAgent,
		maxAttempts: opts.MaxAttempts,
	}
}

// Get performs an HTTP GET request
func (c *StandardHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 100ms, 200ms, 400ms
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err = c.client.Do(req)
		if err != nil {
			resp = nil
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		// Don't retry on success or 4xx errors
		if resp.StatusCode < 500 {
			break
		}

		// Keep the last 5xx response if this was the final attempt
		if attempt == c.maxAttempts-1 {
			break
		}
		resp.Body.Close()
		lastErr = fmt.Errorf("server returned %d", resp.StatusCode)
		resp = nil
	}

	if resp == nil {
		return nil, lastErr
	}

	return &httpResponse{
		statusCode: resp.StatusCode,
		body:       resp.Body,
		headers:    resp.Header,
	}, nil
}

// httpResponse implements the Response interface
type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.headers.Get(key)
}
