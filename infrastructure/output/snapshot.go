package output

import (
	"context"
	"encoding/json"
	"fmt"

	"channel-catalog/core/domain"
	"channel-catalog/core/errors"
	"channel-catalog/core/interfaces"
)

// SnapshotKey is where the latest completed run is kept
const SnapshotKey = "catalog:latest"

// CacheSnapshotStore keeps the latest snapshot in a cache without expiry
type CacheSnapshotStore struct {
	cache interfaces.Cache
}

// NewCacheSnapshotStore creates a snapshot store over cache
func NewCacheSnapshotStore(cache interfaces.Cache) *CacheSnapshotStore {
	return &CacheSnapshotStore{cache: cache}
}

// Save replaces the stored snapshot
func (s *CacheSnapshotStore) Save(ctx context.Context, snapshot domain.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return s.cache.Set(ctx, SnapshotKey, data, 0)
}

// Latest returns the stored snapshot or a NotFoundError when none was saved
func (s *CacheSnapshotStore) Latest(ctx context.Context) (*domain.Snapshot, error) {
	data, err := s.cache.Get(ctx, SnapshotKey)
	if errors.IsCacheMiss(err) {
		return nil, &errors.NotFoundError{Resource: "snapshot", ID: SnapshotKey}
	}
	if err != nil {
		return nil, err
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snapshot, nil
}
