// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Defines the contract for dependencies required by discovery, probing and the pipeline

package interfaces

// Dependencies holds all external dependencies required by the core business logic
type Dependencies struct {
	// Cache stores probe measurements and catalog snapshots; may be nil
	Cache Cache

	// HTTPClient is used by discovery sources and the probe
	HTTPClient HTTPClient

	// Logger provides structured logging; may be nil
	Logger Logger
}

// Log returns the configured logger, or one that discards everything
func (d Dependencies) Log() Logger {
	if d.Logger == nil {
		return nopLogger{}
	}
	return d.Logger
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}
