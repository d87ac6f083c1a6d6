package updater

import (
	"context"
	"fmt"
	"sync/atomic"

	"channel-catalog/core/domain"
	"channel-catalog/core/interfaces"
	"channel-catalog/core/pipeline"
)

var runCounter atomic.Int64

// mockRunner blocks in Run until released or stopped
type mockRunner struct {
	id      string
	release chan struct{}
	stopped chan struct{}
	err     error
}

func newMockRunner() *mockRunner {
	return &mockRunner{
		id:      fmt.Sprintf("run-%d", runCounter.Add(1)),
		release: make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

func (m *mockRunner) ID() string { return m.id }

func (m *mockRunner) Stop() {
	select {
	case <-m.stopped:
	default:
		close(m.stopped)
	}
}

func (m *mockRunner) Run(ctx context.Context, sink interfaces.ProgressSink) (pipeline.Result, error) {
	sink.Report("Running discovery, 1 sources left", 50, false, "")
	select {
	case <-m.release:
		sink.Report("Update completed, 1 channels with 2 endpoints", 100, true, "http://viewer")
		return pipeline.Result{RunSummary: domain.RunSummary{ID: m.id, Status: domain.RunStatusCompleted}}, m.err
	case <-m.stopped:
		sink.Report("Update cancelled", 0, false, "")
		return pipeline.Result{RunSummary: domain.RunSummary{ID: m.id, Status: domain.RunStatusCancelled}}, nil
	case <-ctx.Done():
		return pipeline.Result{RunSummary: domain.RunSummary{ID: m.id, Status: domain.RunStatusCancelled}}, nil
	}
}
