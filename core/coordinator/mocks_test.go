package coordinator

import (
	"context"
	"sync"

	"channel-catalog/core/domain"
	"channel-catalog/core/interfaces"
)

// mockSource is a function-backed DiscoverySource that records its calls
type mockSource struct {
	id        string
	fetchFunc func(ctx context.Context, names []string, sink interfaces.ProgressSink) (domain.SourceResult, error)

	mu    sync.Mutex
	calls [][]string
}

func (m *mockSource) ID() string {
	return m.id
}

func (m *mockSource) Fetch(ctx context.Context, names []string, sink interfaces.ProgressSink) (domain.SourceResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, names)
	m.mu.Unlock()

	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, names, sink)
	}
	return domain.SourceResult{}, nil
}

func (m *mockSource) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockSource) lastNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1]
}

// mockLogger records warnings
type mockLogger struct {
	mu    sync.Mutex
	warns []string
}

func (m *mockLogger) Debug(string, map[string]interface{}) {}
func (m *mockLogger) Info(string, map[string]interface{})  {}
func (m *mockLogger) Error(string, map[string]interface{}) {}
func (m *mockLogger) Warn(msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns = append(m.warns, msg)
}
