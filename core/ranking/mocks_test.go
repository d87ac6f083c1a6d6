package ranking

import (
	"context"
	"errors"
	"sync"

	"channel-catalog/core/interfaces"
)

// mockProber returns a fixed score per URL; URLs without a score fail
type mockProber struct {
	mu     sync.Mutex
	scores map[string]float64
	calls  []string
	probe  func(ctx context.Context, url string) (interfaces.ProbeResult, error)
}

func (m *mockProber) Probe(ctx context.Context, url string) (interfaces.ProbeResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, url)
	m.mu.Unlock()

	if m.probe != nil {
		return m.probe(ctx, url)
	}
	score, ok := m.scores[url]
	if !ok {
		return interfaces.ProbeResult{}, errors.New("unreachable")
	}
	return interfaces.ProbeResult{URL: url, Score: score}, nil
}

func (m *mockProber) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
