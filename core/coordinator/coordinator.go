// ABOUTME: Source coordinator runs enabled discovery sources one at a time as cancelable units
// ABOUTME: Collects each source's raw result in declared order for the aggregator

package coordinator

import (
	"context"
	"fmt"

	"channel-catalog/core/domain"
	"channel-catalog/core/errors"
	"channel-catalog/core/interfaces"
	"channel-catalog/core/progress"
)

// SourceDescriptor declares one discovery source and how to call it
type SourceDescriptor struct {
	// ID identifies the source; results are recorded under it
	ID string

	// Source performs the discovery
	Source interfaces.DiscoverySource

	// Enabled is the source's own on/off toggle
	Enabled bool

	// NeedsNameList sources receive the full channel name list
	NeedsNameList bool

	// HotelVariant sources are additionally gated by the hotel master flag
	HotelVariant bool
}

// Settings are the coordinator's configuration values
type Settings struct {
	// OpenHotel is the master flag for every hotel variant source
	OpenHotel bool
}

// Coordinator sequences discovery sources
type Coordinator struct {
	registry *Registry
	settings Settings
	logger   interfaces.Logger
}

// New creates a coordinator that registers its units in registry
func New(registry *Registry, settings Settings, deps interfaces.Dependencies) *Coordinator {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Coordinator{
		registry: registry,
		settings: settings,
		logger:   deps.Log(),
	}
}

// Runnable reports whether a descriptor will be invoked under these settings
func (c *Coordinator) Runnable(d SourceDescriptor) bool {
	if d.Source == nil || !d.Enabled {
		return false
	}
	if d.HotelVariant && !c.settings.OpenHotel {
		return false
	}
	return true
}

// Collect runs every runnable source strictly in declared order, awaiting
// each before starting the next. A source error or panic is logged and
// recorded as an empty result. Cancellation aborts the source that is running
// and returns errors.ErrCancelled.
func (c *Coordinator) Collect(ctx context.Context, descriptors []SourceDescriptor, names []string, sink interfaces.ProgressSink) (domain.SourceResults, error) {
	if sink == nil {
		sink = progress.Nop()
	}

	runnable := 0
	for _, d := range descriptors {
		if c.Runnable(d) {
			runnable++
		}
	}
	tracker := progress.NewTracker(sink)
	tracker.SetUnit("sources")
	tracker.Start("discovery", runnable)

	var results domain.SourceResults
	for _, d := range descriptors {
		if !c.Runnable(d) {
			c.logger.Debug("Skipping discovery source", map[string]interface{}{
				"source": d.ID,
			})
			continue
		}
		if err := ctx.Err(); err != nil {
			return results, errors.Cancelled(err)
		}

		var filter []string
		if d.NeedsNameList {
			filter = names
		}

		result, err := c.runOne(ctx, d, filter, sink)
		if err != nil {
			return results, err
		}
		results.Put(d.ID, result)
		tracker.Step()
	}

	return results, nil
}

type fetchResult struct {
	result domain.SourceResult
	err    error
}

// runOne registers the source as a cancelable unit and waits for it
func (c *Coordinator) runOne(ctx context.Context, d SourceDescriptor, names []string, sink interfaces.ProgressSink) (domain.SourceResult, error) {
	taskCtx, id := c.registry.Register(ctx, d.ID)
	defer c.registry.Done(id)

	c.logger.Info("Running discovery source", map[string]interface{}{
		"source":   d.ID,
		"filtered": names != nil,
		"names":    len(names),
	})

	done := make(chan fetchResult, 1)
	go func() {
		done <- safeFetch(taskCtx, d, names, sink)
	}()

	var out fetchResult
	select {
	case out = <-done:
	case <-taskCtx.Done():
		return nil, errors.Cancelled(taskCtx.Err())
	}

	if out.err != nil {
		if taskCtx.Err() != nil {
			return nil, errors.Cancelled(taskCtx.Err())
		}
		c.logger.Warn("Discovery source failed, treating as empty", map[string]interface{}{
			"source": d.ID,
			"error":  out.err.Error(),
		})
		return domain.SourceResult{}, nil
	}

	c.logger.Info("Discovery source finished", map[string]interface{}{
		"source":     d.ID,
		"channels":   len(out.result),
		"candidates": out.result.Count(),
	})
	return out.result, nil
}

// safeFetch calls the source, turning a panic into a SourceError
func safeFetch(ctx context.Context, d SourceDescriptor, names []string, sink interfaces.ProgressSink) (out fetchResult) {
	defer func() {
		if r := recover(); r != nil {
			out = fetchResult{err: &errors.SourceError{SourceID: d.ID, Err: fmt.Errorf("panic: %v", r)}}
		}
	}()

	result, err := d.Source.Fetch(ctx, names, sink)
	if err != nil {
		return fetchResult{err: &errors.SourceError{SourceID: d.ID, Err: err}}
	}
	if result == nil {
		result = domain.SourceResult{}
	}
	return fetchResult{result: result}
}
