package interfaces

import (
	"context"
	"io"
)

// HTTPClient is the outbound GET used by discovery sources and the probe.
// Tests substitute httptest servers or small fakes.
type HTTPClient interface {
	Get(ctx context.Context, url string) (Response, error)
}

// Response is the part of an HTTP response sources and the probe read.
// Callers must close Body.
type Response interface {
	StatusCode() int
	Body() io.ReadCloser

	// Header returns "" when the header is absent
	Header(key string) string
}
