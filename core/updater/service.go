// ABOUTME: Update service owns at most one pipeline run at a time for the viewer and the binary
// ABOUTME: Tracks the latest progress event and the summary of the last finished run

package updater

import (
	"context"
	"sync"

	"channel-catalog/core/domain"
	"channel-catalog/core/errors"
	"channel-catalog/core/interfaces"
	"channel-catalog/core/pipeline"
	"channel-catalog/core/progress"
)

// Runner is one single-use pipeline invocation; *pipeline.Run implements it
type Runner interface {
	ID() string
	Run(ctx context.Context, sink interfaces.ProgressSink) (pipeline.Result, error)
	Stop()
}

// Factory builds a fresh runner for every update
type Factory func() Runner

// Status is a point-in-time view of the service
type Status struct {
	Running bool                  `json:"running"`
	RunID   string                `json:"run_id,omitempty"`
	Event   *domain.ProgressEvent `json:"event,omitempty"`
	LastRun *domain.RunSummary    `json:"last_run,omitempty"`
}

// Service serializes pipeline runs
type Service struct {
	factory Factory
	sink    interfaces.ProgressSink
	latest  *progress.Latest
	logger  interfaces.Logger

	mu      sync.Mutex
	current Runner
	done    chan struct{}
	lastRun *domain.RunSummary
}

// NewService creates a service. Every run reports to sink (which may be nil)
// as well as to the service's own latest-event tracker.
func NewService(factory Factory, sink interfaces.ProgressSink, deps interfaces.Dependencies) *Service {
	return &Service{
		factory: factory,
		sink:    sink,
		latest:  &progress.Latest{},
		logger:  deps.Log(),
	}
}

// Start launches a run in the background and returns its id. The run
// outlives ctx's cancellation; use Stop to end it. It fails with a
// ConflictError while another run is in progress.
func (s *Service) Start(ctx context.Context) (string, error) {
	runner, done, err := s.begin()
	if err != nil {
		return "", err
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		defer close(done)
		s.execute(ctx, runner)
	}()
	return runner.ID(), nil
}

// RunOnce performs a run in the calling goroutine
func (s *Service) RunOnce(ctx context.Context) (pipeline.Result, error) {
	runner, done, err := s.begin()
	if err != nil {
		return pipeline.Result{}, err
	}
	defer close(done)
	return s.execute(ctx, runner)
}

// Stop cancels the current run. It reports whether a run was in progress.
func (s *Service) Stop() bool {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	if current == nil {
		return false
	}
	current.Stop()
	return true
}

// Wait blocks until the current run, if any, has finished or ctx is done
func (s *Service) Wait(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Report lets callers publish an event outside a run, e.g. the viewer address at startup
func (s *Service) Report(message string, percent int, done bool, link string) {
	s.reporter().Report(message, percent, done, link)
}

// Status returns whether a run is active, the latest event and the last finished run
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := Status{LastRun: s.lastRun}
	if s.current != nil {
		status.Running = true
		status.RunID = s.current.ID()
	}
	if event, ok := s.latest.Event(); ok {
		status.Event = &event
	}
	return status
}

func (s *Service) begin() (Runner, chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return nil, nil, &errors.ConflictError{Resource: "update", Message: "a run is already in progress"}
	}
	runner := s.factory()
	s.current = runner
	s.done = make(chan struct{})
	return runner, s.done, nil
}

func (s *Service) execute(ctx context.Context, runner Runner) (pipeline.Result, error) {
	result, err := runner.Run(ctx, s.reporter())

	s.mu.Lock()
	summary := result.RunSummary
	s.lastRun = &summary
	s.current = nil
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("Update failed", map[string]interface{}{
			"run_id": runner.ID(),
			"error":  err.Error(),
		})
	}
	return result, err
}

func (s *Service) reporter() interfaces.ProgressSink {
	if s.sink == nil {
		return s.latest
	}
	return progress.Multi{s.latest, s.sink}
}
