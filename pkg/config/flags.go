package config

import (
	"context"

	"channel-catalog/pkg/featureflags"
)

// ApplyFlags overrides on/off toggles with any value the manager has set.
// Toggles the manager knows nothing about keep their configured value.
func (c *Config) ApplyFlags(ctx context.Context, manager featureflags.Manager) {
	if manager == nil {
		return
	}

	toggles := map[featureflags.FeatureFlag]*bool{
		featureflags.OpenUpdate:        &c.Update.OpenUpdate,
		featureflags.OpenSort:          &c.Update.OpenSort,
		featureflags.OpenHotel:         &c.Update.OpenHotel,
		featureflags.OpenSubscribe:     &c.Sources.Subscribe.Enabled,
		featureflags.OpenHotelFofa:     &c.Sources.HotelFofa.Enabled,
		featureflags.OpenHotelTonkiang: &c.Sources.HotelTonkiang.Enabled,
		featureflags.OpenMulticast:     &c.Sources.Multicast.Enabled,
		featureflags.OpenOnlineSearch:  &c.Sources.OnlineSearch.Enabled,
		featureflags.OpenFeed:          &c.Sources.Feed.Enabled,
	}

	for flag, target := range toggles {
		if enabled, ok := manager.Lookup(ctx, flag); ok {
			*target = enabled
		}
	}
}
