// ABOUTME: Pipeline run drives one end-to-end catalog update from template to output sinks
// ABOUTME: Owns the catalog, the cancelable task registry and the phase ordering

package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"channel-catalog/core/aggregate"
	"channel-catalog/core/coordinator"
	"channel-catalog/core/domain"
	"channel-catalog/core/errors"
	"channel-catalog/core/gapfill"
	"channel-catalog/core/interfaces"
	"channel-catalog/core/progress"
	"channel-catalog/core/ranking"
	"channel-catalog/core/workers"
	"github.com/google/uuid"
)

// Settings are the configuration values a run needs, copied once from config
type Settings struct {
	// OpenSort enables speed ranking of the catalog and of the gap supplement
	OpenSort bool

	// OpenHotel is the master flag for the hotel variant sources
	OpenHotel bool

	// MinResults is the gap threshold; 0 means domain.MinResults
	MinResults int

	// Link is attached to the final done event, usually the viewer address
	Link string

	// Workers bounds the probe pool
	Workers workers.WorkerConfig
}

// Components are the collaborators a run drives
type Components struct {
	Templates interfaces.TemplateLoader
	Sources   []coordinator.SourceDescriptor

	// Fallback is asked for gap channels after ranking; nil disables gap-fill
	Fallback interfaces.DiscoverySource

	// Prober is required when OpenSort is set
	Prober interfaces.Prober

	Writer    interfaces.CatalogWriter
	Converter interfaces.PlaylistConverter

	// Snapshots is optional
	Snapshots interfaces.SnapshotStore
}

// Result is the outcome of a run
type Result struct {
	domain.RunSummary
	Catalog domain.Catalog `json:"catalog"`
}

// Run is a single-use pipeline invocation
type Run struct {
	id         string
	settings   Settings
	components Components
	deps       interfaces.Dependencies
	logger     interfaces.Logger
	registry   *coordinator.Registry
	now        func() time.Time

	mu      sync.RWMutex
	catalog domain.Catalog
	started bool
	stopped bool
	cancel  context.CancelFunc
}

// New creates a run. Call Run once, from any goroutine; Stop and Catalog are
// safe to call concurrently with it.
func New(settings Settings, components Components, deps interfaces.Dependencies) *Run {
	return &Run{
		id:         uuid.NewString(),
		settings:   settings,
		components: components,
		deps:       deps,
		logger:     deps.Log(),
		registry:   coordinator.NewRegistry(),
		now:        time.Now,
		catalog:    domain.NewCatalog(),
	}
}

// ID returns the run identifier
func (r *Run) ID() string {
	return r.id
}

// Catalog returns a copy of the catalog as of the last completed phase
func (r *Run) Catalog() domain.Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalog.Clone()
}

// Stop cancels every in-flight unit of work. Idempotent; a Stop before Run
// makes Run end as cancelled straight away.
func (r *Run) Stop() {
	r.mu.Lock()
	r.stopped = true
	cancel := r.cancel
	r.mu.Unlock()

	r.registry.CancelAll()
	if cancel != nil {
		cancel()
	}
}

// Run executes every phase in order and reports through sink, which may be nil.
// Cancellation is not an error: the result carries RunStatusCancelled and the
// catalog of the last completed phase. Any other failure is returned.
func (r *Run) Run(ctx context.Context, sink interfaces.ProgressSink) (Result, error) {
	if sink == nil {
		sink = progress.Nop()
	}

	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return Result{}, &errors.ValidationError{Field: "run", Message: "pipeline run already started"}
	}
	r.started = true
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	stopped := r.stopped
	r.mu.Unlock()

	defer cancel()
	defer r.registry.CancelAll()
	if stopped {
		cancel()
	}

	result := Result{RunSummary: domain.RunSummary{ID: r.id, StartedAt: r.now()}}
	r.logger.Info("Pipeline run started", map[string]interface{}{
		"run_id": r.id,
	})

	err := r.execute(ctx, sink, &result)
	r.finish(&result)

	switch {
	case err == nil:
		result.Status = domain.RunStatusCompleted
		return result, nil
	case errors.IsCancelled(err):
		result.Status = domain.RunStatusCancelled
		r.logger.Info("Pipeline run cancelled", map[string]interface{}{
			"run_id": r.id,
		})
		sink.Report("Update cancelled", 0, false, "")
		return result, nil
	default:
		result.Status = domain.RunStatusFailed
		r.logger.Error("Pipeline run failed", map[string]interface{}{
			"run_id": r.id,
			"error":  err.Error(),
		})
		return result, err
	}
}

func (r *Run) execute(ctx context.Context, sink interfaces.ProgressSink, result *Result) error {
	if r.components.Templates == nil {
		return &errors.ValidationError{Field: "templates", Message: "no template loader configured"}
	}
	if r.settings.OpenSort && r.components.Prober == nil {
		return &errors.ValidationError{Field: "prober", Message: "ranking enabled without a prober"}
	}
	if err := ctx.Err(); err != nil {
		return errors.Cancelled(err)
	}

	template, err := r.components.Templates.Load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return errors.Cancelled(ctx.Err())
		}
		return errors.WrapError(err, "failed to load channel template")
	}
	r.setCatalog(template.Catalog())

	coord := coordinator.New(r.registry, coordinator.Settings{OpenHotel: r.settings.OpenHotel}, r.deps)
	results, err := coord.Collect(ctx, r.components.Sources, template.Names(), sink)
	if err != nil {
		return err
	}

	catalog := aggregate.FoldIn(template, results)
	r.setCatalog(catalog)
	r.logger.Info("Discovery results folded in", map[string]interface{}{
		"channels":   len(catalog.Keys()),
		"candidates": aggregate.Count(catalog),
	})

	var ranker *ranking.Ranker
	if r.settings.OpenSort {
		ranker = ranking.NewRanker(r.components.Prober, r.deps, r.settings.Workers)
		catalog, err = r.unit(ctx, "rank", func(ctx context.Context) (domain.Catalog, error) {
			return ranker.Rank(ctx, catalog, "speed test", sink)
		})
		if err != nil {
			return err
		}
		r.setCatalog(catalog)
	}

	gaps := gapfill.Detect(catalog, r.settings.MinResults)
	result.Gaps = gaps
	if len(gaps) > 0 && r.components.Fallback != nil {
		r.logger.Info("Not enough endpoints found, running supplementary search", map[string]interface{}{
			"gaps": len(gaps),
		})
		var supplementRanker gapfill.Ranker
		if ranker != nil {
			supplementRanker = ranker
		}
		filler := gapfill.NewFiller(r.components.Fallback, supplementRanker, gapfill.Settings{
			OpenSort:   r.settings.OpenSort,
			MinResults: r.settings.MinResults,
		}, r.deps)
		catalog, err = r.unit(ctx, "gapfill", func(ctx context.Context) (domain.Catalog, error) {
			return filler.Fill(ctx, catalog, gaps, sink)
		})
		if err != nil {
			return err
		}
		r.setCatalog(catalog)
	}

	if err := ctx.Err(); err != nil {
		return errors.Cancelled(err)
	}
	return r.publish(ctx, template, catalog, sink, result)
}

// publish hands the final catalog to each output sink once and emits the done event
func (r *Run) publish(ctx context.Context, template domain.Template, catalog domain.Catalog, sink interfaces.ProgressSink, result *Result) error {
	if r.components.Writer != nil {
		if err := r.components.Writer.Write(ctx, template, catalog); err != nil {
			return errors.WrapError(err, "failed to write catalog")
		}
	}
	if r.components.Converter != nil {
		if err := r.components.Converter.Convert(ctx, template, catalog); err != nil {
			return errors.WrapError(err, "failed to convert playlist")
		}
	}

	r.finish(result)
	result.Status = domain.RunStatusCompleted
	if r.components.Snapshots != nil {
		snapshot := domain.Snapshot{Run: result.RunSummary, Catalog: catalog}
		if err := r.components.Snapshots.Save(ctx, snapshot); err != nil {
			r.logger.Warn("Failed to save catalog snapshot", map[string]interface{}{
				"run_id": r.id,
				"error":  err.Error(),
			})
		}
	}

	r.logger.Info("Pipeline run completed", map[string]interface{}{
		"run_id":     r.id,
		"channels":   result.Channels,
		"candidates": result.Candidates,
		"gaps":       len(result.Gaps),
		"duration":   result.Duration.String(),
	})
	sink.Report(fmt.Sprintf("Update completed, %d channels with %d endpoints", result.Channels, result.Candidates), 100, true, r.settings.Link)
	return nil
}

// unit runs one phase as a cancelable unit in the registry
func (r *Run) unit(ctx context.Context, name string, fn func(ctx context.Context) (domain.Catalog, error)) (domain.Catalog, error) {
	unitCtx, id := r.registry.Register(ctx, name)
	defer r.registry.Done(id)
	return fn(unitCtx)
}

func (r *Run) setCatalog(catalog domain.Catalog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalog = catalog.Clone()
}

func (r *Run) finish(result *Result) {
	result.Catalog = r.Catalog()
	result.FinishedAt = r.now()
	result.Duration = result.FinishedAt.Sub(result.StartedAt)
	result.Channels = len(result.Catalog.Keys())
	result.Candidates = result.Catalog.Count()
}
