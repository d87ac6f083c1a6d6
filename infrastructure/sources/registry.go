// ABOUTME: Builds the ordered discovery source list from configuration
// ABOUTME: Declared order is the order the coordinator runs and folds results in

package sources

import (
	"time"

	"channel-catalog/core/coordinator"
	"channel-catalog/core/domain"
	"channel-catalog/core/interfaces"
	"channel-catalog/pkg/config"
)

// Descriptors returns every built-in source in declared order. Disabled
// sources are still listed so the coordinator can log and skip them.
func Descriptors(cfg config.SourcesConfig, deps interfaces.Dependencies) []coordinator.SourceDescriptor {
	hotel := func(id string, h config.HotelConfig) coordinator.SourceDescriptor {
		return coordinator.SourceDescriptor{
			ID: id,
			Source: NewHotelSource(id, HotelOptions{
				Pages:        h.Pages,
				RowSelector:  h.RowSelector,
				NameSelector: h.NameSelector,
				URLSelector:  h.URLSelector,
				UserAgent:    cfg.UserAgent,
				Timeout:      time.Duration(cfg.Timeout) * time.Second,
			}, deps),
			Enabled:      h.Enabled,
			HotelVariant: true,
		}
	}
	search := func(id string, s config.SearchConfig) coordinator.SourceDescriptor {
		return coordinator.SourceDescriptor{
			ID:            id,
			Source:        NewSearchSource(id, SearchOptionsFrom(s), deps),
			Enabled:       s.Enabled && s.QueryURL != "",
			NeedsNameList: true,
		}
	}

	return []coordinator.SourceDescriptor{
		hotel(domain.SourceHotelFofa, cfg.HotelFofa),
		search(domain.SourceMulticast, cfg.Multicast),
		hotel(domain.SourceHotelTonkiang, cfg.HotelTonkiang),
		{
			ID:      domain.SourceSubscribe,
			Source:  NewSubscribeSource(cfg.Subscribe.URLs, deps),
			Enabled: cfg.Subscribe.Enabled,
		},
		search(domain.SourceOnlineSearch, cfg.OnlineSearch),
		{
			ID:      domain.SourceFeed,
			Source:  NewFeedSource(cfg.Feed.URLs, deps),
			Enabled: cfg.Feed.Enabled,
		},
	}
}

// Fallback returns the gap-fill source, the multicast search, or nil when it
// has no query url
func Fallback(cfg config.SourcesConfig, deps interfaces.Dependencies) interfaces.DiscoverySource {
	if cfg.Multicast.QueryURL == "" {
		return nil
	}
	return NewSearchSource(domain.SourceMulticast, SearchOptionsFrom(cfg.Multicast), deps)
}

// SearchOptionsFrom copies the search settings out of configuration
func SearchOptionsFrom(s config.SearchConfig) SearchOptions {
	return SearchOptions{
		QueryURL:          s.QueryURL,
		ResultSelector:    s.ResultSelector,
		MaxResults:        s.MaxResults,
		RequestsPerSecond: s.RequestsPerSecond,
	}
}
