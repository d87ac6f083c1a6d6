// Package interfaces holds the contracts core code depends on. Adapters in
// infrastructure/ implement them and are injected through Dependencies.
package interfaces

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry TTL, backed by memory, Redis or SQLite.
// The probe keeps measurements under "probe:<url>" and the snapshot store
// keeps the last completed run under "catalog:latest".
type Cache interface {
	// Get returns errors.ErrCacheMiss when the key is absent or expired
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value; a ttl of 0 keeps it until deleted
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete is a no-op for a missing key
	Delete(ctx context.Context, key string) error
}
