package interfaces

import (
	"context"
	"time"
)

// ProbeResult is one reachability/quality measurement
type ProbeResult struct {
	URL     string        `json:"url"`
	Latency time.Duration `json:"latency"`
	Score   float64       `json:"score"`
}

// Prober measures a single candidate endpoint.
// A non-nil error means the endpoint did not respond usefully.
type Prober interface {
	Probe(ctx context.Context, url string) (ProbeResult, error)
}
