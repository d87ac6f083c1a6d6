package gapfill

import (
	"context"
	"sync"

	"channel-catalog/core/domain"
	"channel-catalog/core/interfaces"
)

type mockSource struct {
	fetchFunc func(ctx context.Context, names []string) (domain.SourceResult, error)

	mu    sync.Mutex
	calls [][]string
}

func (m *mockSource) ID() string { return domain.SourceMulticast }

func (m *mockSource) Fetch(ctx context.Context, names []string, sink interfaces.ProgressSink) (domain.SourceResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, names)
	m.mu.Unlock()
	if m.fetchFunc == nil {
		return domain.SourceResult{}, nil
	}
	return m.fetchFunc(ctx, names)
}

// mockRanker reverses each channel and counts its calls
type mockRanker struct {
	calls  int
	labels []string
	err    error
}

func (m *mockRanker) Rank(ctx context.Context, catalog domain.Catalog, label string, sink interfaces.ProgressSink) (domain.Catalog, error) {
	m.calls++
	m.labels = append(m.labels, label)
	if m.err != nil {
		return nil, m.err
	}
	out := catalog.Clone()
	for _, key := range out.Keys() {
		list, _ := out.Get(key)
		for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
			list[i], list[j] = list[j], list[i]
		}
	}
	return out, nil
}
