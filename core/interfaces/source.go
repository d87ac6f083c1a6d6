// ABOUTME: Discovery source contract consumed by the source coordinator and gap filler
// ABOUTME: Sources find candidate endpoints for channels; how they do it is their own business

package interfaces

import (
	"context"

	"channel-catalog/core/domain"
)

// DiscoverySource finds candidate endpoints for channels.
//
// Fetch receives the channel names to look for, or nil when the source should
// enumerate everything it can discover. Implementations are expected to absorb
// their own network and parse failures and return an empty result; the
// coordinator still treats a returned error as an empty result. A cancelled
// context must make Fetch return promptly.
type DiscoverySource interface {
	// ID returns the stable identifier of the source, e.g. "subscribe"
	ID() string

	// Fetch runs one discovery pass and reports sub-progress through sink
	Fetch(ctx context.Context, names []string, sink ProgressSink) (domain.SourceResult, error)
}
