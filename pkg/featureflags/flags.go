// ABOUTME: Feature flag management for switching pipeline toggles at process start
// ABOUTME: Provides interface-based feature toggling with environment and static backends

package featureflags

import (
	"context"
	"os"
	"strings"
	"sync"
)

// FeatureFlag represents a single feature flag
type FeatureFlag string

// Defined feature flags
const (
	// OpenUpdate runs the update pipeline at startup
	OpenUpdate FeatureFlag = "open_update"

	// OpenSort enables speed ranking
	OpenSort FeatureFlag = "open_sort"

	// OpenHotel is the master switch for both hotel sources
	OpenHotel FeatureFlag = "open_hotel"

	OpenSubscribe     FeatureFlag = "open_subscribe"
	OpenHotelFofa     FeatureFlag = "open_hotel_fofa"
	OpenHotelTonkiang FeatureFlag = "open_hotel_tonkiang"
	OpenMulticast     FeatureFlag = "open_multicast"
	OpenOnlineSearch  FeatureFlag = "open_online_search"
	OpenFeed          FeatureFlag = "open_feed"
)

// All lists every defined flag
var All = []FeatureFlag{
	OpenUpdate,
	OpenSort,
	OpenHotel,
	OpenSubscribe,
	OpenHotelFofa,
	OpenHotelTonkiang,
	OpenMulticast,
	OpenOnlineSearch,
	OpenFeed,
}

// Manager defines the interface for feature flag management
type Manager interface {
	// IsEnabled checks if a feature flag is enabled; unset flags are disabled
	IsEnabled(ctx context.Context, flag FeatureFlag) bool

	// Lookup returns the flag state and whether the flag was set at all
	Lookup(ctx context.Context, flag FeatureFlag) (enabled bool, ok bool)

	// SetEnabled sets a feature flag's state (for testing)
	SetEnabled(flag FeatureFlag, enabled bool)

	// GetAllFlags returns the state of all set flags
	GetAllFlags() map[FeatureFlag]bool
}

// EnvManager implements Manager using environment variables
type EnvManager struct {
	mu        sync.RWMutex
	overrides map[FeatureFlag]bool
	prefix    string
}

// NewEnvManager creates a new environment-based feature flag manager
func NewEnvManager(prefix string) *EnvManager {
	if prefix == "" {
		prefix = "FEATURE_"
	}
	return &EnvManager{
		overrides: make(map[FeatureFlag]bool),
		prefix:    prefix,
	}
}

// IsEnabled checks if a feature flag is enabled
func (m *EnvManager) IsEnabled(ctx context.Context, flag FeatureFlag) bool {
	enabled, _ := m.Lookup(ctx, flag)
	return enabled
}

// Lookup reads an override first, then PREFIX_FLAG. Values other than
// true/1/enabled and false/0/disabled count as unset.
func (m *EnvManager) Lookup(ctx context.Context, flag FeatureFlag) (bool, bool) {
	m.mu.RLock()
	if enabled, ok := m.overrides[flag]; ok {
		m.mu.RUnlock()
		return enabled, true
	}
	m.mu.RUnlock()

	// Check environment variable
	envKey := m.prefix + strings.ToUpper(string(flag))
	value, ok := os.LookupEnv(envKey)
	if !ok {
		return false, false
	}
	return parse(value)
}

func parse(value string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "enabled":
		return true, true
	case "false", "0", "disabled":
		return false, true
	}
	return false, false
}

// SetEnabled sets a feature flag's state (mainly for testing)
func (m *EnvManager) SetEnabled(flag FeatureFlag, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[flag] = enabled
}

// GetAllFlags returns the state of every defined flag that is set
func (m *EnvManager) GetAllFlags() map[FeatureFlag]bool {
	ctx := context.Background()
	flags := make(map[FeatureFlag]bool)
	for _, flag := range All {
		if enabled, ok := m.Lookup(ctx, flag); ok {
			flags[flag] = enabled
		}
	}
	return flags
}

// StaticManager implements Manager with static configuration
type StaticManager struct {
	flags map[FeatureFlag]bool
	mu    sync.RWMutex
}

// NewStaticManager creates a manager with predefined flag states
func NewStaticManager(flags map[FeatureFlag]bool) *StaticManager {
	if flags == nil {
		flags = make(map[FeatureFlag]bool)
	}
	return &StaticManager{
		flags: flags,
	}
}

// IsEnabled checks if a feature flag is enabled
func (m *StaticManager) IsEnabled(ctx context.Context, flag FeatureFlag) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flags[flag]
}

// Lookup returns the flag state and whether it is present in the map
func (m *StaticManager) Lookup(ctx context.Context, flag FeatureFlag) (bool, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	enabled, ok := m.flags[flag]
	return enabled, ok
}

// SetEnabled sets a feature flag's state
func (m *StaticManager) SetEnabled(flag FeatureFlag, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[flag] = enabled
}

// GetAllFlags returns all flag states
func (m *StaticManager) GetAllFlags() map[FeatureFlag]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[FeatureFlag]bool)
	for k, v := range m.flags {
		result[k] = v
	}
	return result
}
