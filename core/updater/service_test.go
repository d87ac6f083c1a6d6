package updater

import (
	"context"
	"errors"
	"testing"
	"time"

	"channel-catalog/core/domain"
	coreerrors "channel-catalog/core/errors"
	"channel-catalog/core/interfaces"
	"channel-catalog/core/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitIdle(t *testing.T, s *Service) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
	require.Eventually(t, func() bool { return !s.Status().Running }, time.Second, 5*time.Millisecond)
}

func TestService_StartRejectsConcurrentRuns(t *testing.T) {
	runner := newMockRunner()
	service := NewService(func() Runner { return runner }, nil, interfaces.Dependencies{})

	id, err := service.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, runner.ID(), id)

	_, err = service.Start(context.Background())
	assert.True(t, coreerrors.IsConflict(err))

	status := service.Status()
	assert.True(t, status.Running)
	assert.Equal(t, id, status.RunID)

	close(runner.release)
	waitIdle(t, service)

	status = service.Status()
	assert.False(t, status.Running)
	require.NotNil(t, status.LastRun)
	assert.Equal(t, domain.RunStatusCompleted, status.LastRun.Status)
	require.NotNil(t, status.Event)
	assert.True(t, status.Event.Done)
	assert.Equal(t, "http://viewer", status.Event.Link)
}

func TestService_RunSurvivesRequestContext(t *testing.T) {
	runner := newMockRunner()
	service := NewService(func() Runner { return runner }, nil, interfaces.Dependencies{})
	ctx, cancel := context.WithCancel(context.Background())

	_, err := service.Start(ctx)
	require.NoError(t, err)
	cancel()

	time.Sleep(20 * time.Millisecond)
	assert.True(t, service.Status().Running)

	close(runner.release)
	waitIdle(t, service)
}

func TestService_StopCancelsCurrentRun(t *testing.T) {
	service := NewService(func() Runner { return newMockRunner() }, nil, interfaces.Dependencies{})

	assert.False(t, service.Stop(), "nothing to stop")

	_, err := service.Start(context.Background())
	require.NoError(t, err)
	assert.True(t, service.Stop())
	waitIdle(t, service)

	status := service.Status()
	assert.Equal(t, domain.RunStatusCancelled, status.LastRun.Status)
	assert.Equal(t, "Update cancelled", status.Event.Message)

	_, err = service.Start(context.Background())
	assert.NoError(t, err, "a new run may start after the previous one ended")
	service.Stop()
	waitIdle(t, service)
}

func TestService_RunOnceForwardsToSink(t *testing.T) {
	runner := newMockRunner()
	runner.err = errors.New("write failed")
	close(runner.release)
	recorder := &progress.Recorder{}
	service := NewService(func() Runner { return runner }, recorder, interfaces.Dependencies{})

	result, err := service.RunOnce(context.Background())

	assert.EqualError(t, err, "write failed")
	assert.Equal(t, runner.ID(), result.ID)
	events := recorder.Events()
	require.Len(t, events, 2)
	assert.Equal(t, 50, events[0].Percent)
	assert.True(t, events[1].Done)
	assert.False(t, service.Status().Running)
}

func TestService_ReportOutsideRun(t *testing.T) {
	service := NewService(func() Runner { return newMockRunner() }, nil, interfaces.Dependencies{})

	assert.Nil(t, service.Status().Event)
	service.Report("Service started", 100, true, "http://viewer")

	event := service.Status().Event
	require.NotNil(t, event)
	assert.Equal(t, "http://viewer", event.Link)
	assert.Nil(t, service.Status().LastRun)
}
