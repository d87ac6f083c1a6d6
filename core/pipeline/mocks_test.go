package pipeline

import (
	"context"
	"errors"
	"sync"

	"channel-catalog/core/domain"
	"channel-catalog/core/interfaces"
)

type mockTemplates struct {
	template domain.Template
	err      error
}

func (m *mockTemplates) Load(ctx context.Context) (domain.Template, error) {
	return m.template, m.err
}

type mockSource struct {
	id     string
	result domain.SourceResult
	fetch  func(ctx context.Context, names []string) (domain.SourceResult, error)
	calls  [][]string
}

func (m *mockSource) ID() string { return m.id }

func (m *mockSource) Fetch(ctx context.Context, names []string, sink interfaces.ProgressSink) (domain.SourceResult, error) {
	m.calls = append(m.calls, names)
	if m.fetch != nil {
		return m.fetch(ctx, names)
	}
	return m.result, nil
}

type mockProber struct {
	mu     sync.Mutex
	scores map[string]float64
	probe  func(ctx context.Context, url string) (interfaces.ProbeResult, error)
}

func (m *mockProber) Probe(ctx context.Context, url string) (interfaces.ProbeResult, error) {
	if m.probe != nil {
		return m.probe(ctx, url)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	score, ok := m.scores[url]
	if !ok {
		return interfaces.ProbeResult{}, errors.New("unreachable")
	}
	return interfaces.ProbeResult{URL: url, Score: score}, nil
}

type mockWriter struct {
	calls   int
	catalog domain.Catalog
	err     error
}

func (m *mockWriter) Write(ctx context.Context, template domain.Template, catalog domain.Catalog) error {
	m.calls++
	m.catalog = catalog
	return m.err
}

type mockConverter struct {
	calls int
}

func (m *mockConverter) Convert(ctx context.Context, template domain.Template, catalog domain.Catalog) error {
	m.calls++
	return nil
}

type mockSnapshots struct {
	saved []domain.Snapshot
}

func (m *mockSnapshots) Save(ctx context.Context, snapshot domain.Snapshot) error {
	m.saved = append(m.saved, snapshot)
	return nil
}

func (m *mockSnapshots) Latest(ctx context.Context) (*domain.Snapshot, error) {
	if len(m.saved) == 0 {
		return nil, nil
	}
	return &m.saved[len(m.saved)-1], nil
}
