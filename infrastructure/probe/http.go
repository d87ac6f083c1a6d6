// ABOUTME: HTTP prober measures how quickly a candidate endpoint starts delivering data
// ABOUTME: Faster endpoints score higher; non-2xx answers and timeouts are failures

package probe

import (
	"context"
	"errors"
	"io"
	"time"

	coreerrors "channel-catalog/core/errors"
	"channel-catalog/core/interfaces"
)

// DefaultMaxBytes is read from each endpoint when no budget is configured
const DefaultMaxBytes = 64 * 1024

// HTTPProber implements interfaces.Prober over an HTTPClient
type HTTPProber struct {
	client   interfaces.HTTPClient
	timeout  time.Duration
	maxBytes int64
	now      func() time.Time
}

// NewHTTPProber creates a prober. timeout bounds each probe; maxBytes bounds
// how much of the body is read.
func NewHTTPProber(client interfaces.HTTPClient, timeout time.Duration, maxBytes int64) *HTTPProber {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &HTTPProber{
		client:   client,
		timeout:  timeout,
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

// Probe fetches the start of the endpoint and scores it by latency
func (p *HTTPProber) Probe(ctx context.Context, url string) (interfaces.ProbeResult, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := p.now()
	resp, err := p.client.Get(ctx, url)
	if err != nil {
		return interfaces.ProbeResult{}, err
	}
	defer resp.Body().Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return interfaces.ProbeResult{}, &coreerrors.ExternalAPIError{
			StatusCode: resp.StatusCode(),
			Message:    "endpoint not serving",
			API:        url,
		}
	}

	n, err := io.CopyN(io.Discard, resp.Body(), p.maxBytes)
	if err != nil && !errors.Is(err, io.EOF) {
		return interfaces.ProbeResult{}, err
	}
	if n == 0 {
		return interfaces.ProbeResult{}, &coreerrors.ExternalAPIError{
			StatusCode: resp.StatusCode(),
			Message:    "empty response",
			API:        url,
		}
	}

	latency := p.now().Sub(start)
	return interfaces.ProbeResult{
		URL:     url,
		Latency: latency,
		Score:   Score(latency),
	}, nil
}

// Score maps latency to quality as 1000/max(latency_ms, 1)
func Score(latency time.Duration) float64 {
	ms := float64(latency) / float64(time.Millisecond)
	if ms < 1 {
		ms = 1
	}
	return 1000 / ms
}
