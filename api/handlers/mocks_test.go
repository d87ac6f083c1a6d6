package handlers

import (
	"context"

	"channel-catalog/core/domain"
	"channel-catalog/core/updater"
)

type mockUpdateService struct {
	startFunc func(ctx context.Context) (string, error)
	stopped   bool
	status    updater.Status
}

func (m *mockUpdateService) Start(ctx context.Context) (string, error) {
	if m.startFunc != nil {
		return m.startFunc(ctx)
	}
	return "run-1", nil
}

func (m *mockUpdateService) Stop() bool {
	return m.stopped
}

func (m *mockUpdateService) Status() updater.Status {
	return m.status
}

type mockSnapshotStore struct {
	latestFunc func(ctx context.Context) (*domain.Snapshot, error)
}

func (m *mockSnapshotStore) Save(ctx context.Context, snapshot domain.Snapshot) error {
	return nil
}

func (m *mockSnapshotStore) Latest(ctx context.Context) (*domain.Snapshot, error) {
	return m.latestFunc(ctx)
}
