// ABOUTME: Output sink contracts that receive the final catalog of a completed run
// ABOUTME: Each sink is called once per successful run

package interfaces

import (
	"context"

	"channel-catalog/core/domain"
)

// CatalogWriter persists the final catalog in template order
type CatalogWriter interface {
	Write(ctx context.Context, template domain.Template, catalog domain.Catalog) error
}

// PlaylistConverter renders the final catalog as a playlist
type PlaylistConverter interface {
	Convert(ctx context.Context, template domain.Template, catalog domain.Catalog) error
}

// SnapshotStore keeps the latest completed run for viewers
type SnapshotStore interface {
	Save(ctx context.Context, snapshot domain.Snapshot) error
	Latest(ctx context.Context) (*domain.Snapshot, error)
}
