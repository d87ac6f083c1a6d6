// ABOUTME: Gap detection and the single supplementary discovery pass for under-served channels
// ABOUTME: The fallback source is asked only for gap names and its findings are merged into the main catalog

package gapfill

import (
	"context"
	"fmt"

	"channel-catalog/core/aggregate"
	"channel-catalog/core/domain"
	"channel-catalog/core/errors"
	"channel-catalog/core/interfaces"
	"channel-catalog/core/progress"
)

// Ranker is the subset of the speed ranker the filler needs
type Ranker interface {
	Rank(ctx context.Context, catalog domain.Catalog, label string, sink interfaces.ProgressSink) (domain.Catalog, error)
}

// Settings configure the gap-fill pass
type Settings struct {
	// OpenSort ranks the supplement before merging it
	OpenSort bool

	// MinResults is the candidate count below which a channel is a gap
	MinResults int
}

// Detect returns every channel with fewer than minResults candidates, sorted
// by category then name. A non-positive minResults falls back to domain.MinResults.
func Detect(catalog domain.Catalog, minResults int) []domain.ChannelKey {
	if minResults <= 0 {
		minResults = domain.MinResults
	}
	gaps := make([]domain.ChannelKey, 0)
	for _, key := range catalog.Keys() {
		candidates, _ := catalog.Get(key)
		if len(candidates) < minResults {
			gaps = append(gaps, key)
		}
	}
	return gaps
}

// Filler runs the supplementary pass
type Filler struct {
	fallback interfaces.DiscoverySource
	ranker   Ranker
	settings Settings
	logger   interfaces.Logger
}

// NewFiller creates a filler around the fallback source. ranker may be nil when
// ranking is disabled.
func NewFiller(fallback interfaces.DiscoverySource, ranker Ranker, settings Settings, deps interfaces.Dependencies) *Filler {
	return &Filler{
		fallback: fallback,
		ranker:   ranker,
		settings: settings,
		logger:   deps.Log(),
	}
}

// Fill asks the fallback source once for the gap channel names and merges
// what it finds into a copy of catalog. Gap channels that receive nothing stay
// short for this run. A failing fallback counts as finding nothing.
// Cancellation returns errors.ErrCancelled and no catalog.
func (f *Filler) Fill(ctx context.Context, catalog domain.Catalog, gaps []domain.ChannelKey, sink interfaces.ProgressSink) (domain.Catalog, error) {
	if len(gaps) == 0 || f.fallback == nil {
		return catalog.Clone(), nil
	}
	if sink == nil {
		sink = progress.Nop()
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Cancelled(err)
	}

	f.logger.Info("Filling under-served channels", map[string]interface{}{
		"gaps":     len(gaps),
		"fallback": f.fallback.ID(),
	})

	result, err := f.fetch(ctx, gapNames(gaps), sink)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Cancelled(ctx.Err())
		}
		f.logger.Warn("Fallback source failed, no supplement", map[string]interface{}{
			"source": f.fallback.ID(),
			"error":  err.Error(),
		})
		return catalog.Clone(), nil
	}

	supplement := Supplement(gaps, result, f.fallback.ID())
	total := supplement.Count()
	f.logger.Info("Fallback source finished", map[string]interface{}{
		"channels":   len(supplement.Keys()),
		"candidates": total,
	})

	if f.settings.OpenSort && f.ranker != nil && total > 0 {
		ranked, err := f.ranker.Rank(ctx, supplement, "supplement", sink)
		if err != nil {
			return nil, err
		}
		supplement = ranked
	}

	return aggregate.Merge(catalog, supplement), nil
}

// Supplement keeps only the gap keys that received at least one candidate
func Supplement(gaps []domain.ChannelKey, result domain.SourceResult, sourceID string) domain.Catalog {
	supplement := domain.NewCatalog()
	for _, key := range gaps {
		candidates := result[key.Name]
		if len(candidates) == 0 {
			continue
		}
		tagged := make([]domain.CandidateURL, len(candidates))
		for i, candidate := range candidates {
			if candidate.SourceID == "" {
				candidate.SourceID = sourceID
			}
			tagged[i] = candidate
		}
		if supplement.AppendUnique(key, tagged...) == 0 {
			delete(supplement[key.Category], key.Name)
			if len(supplement[key.Category]) == 0 {
				delete(supplement, key.Category)
			}
		}
	}
	return supplement
}

type fetchResult struct {
	result domain.SourceResult
	err    error
}

// fetch runs the fallback on its own goroutine so cancellation returns at
// once even when the source ignores ctx
func (f *Filler) fetch(ctx context.Context, names []string, sink interfaces.ProgressSink) (domain.SourceResult, error) {
	done := make(chan fetchResult, 1)
	go func() {
		done <- f.safeFetch(ctx, names, sink)
	}()

	select {
	case out := <-done:
		return out.result, out.err
	case <-ctx.Done():
		return nil, errors.Cancelled(ctx.Err())
	}
}

func (f *Filler) safeFetch(ctx context.Context, names []string, sink interfaces.ProgressSink) (out fetchResult) {
	defer func() {
		if r := recover(); r != nil {
			out = fetchResult{err: &errors.SourceError{SourceID: f.fallback.ID(), Err: fmt.Errorf("panic: %v", r)}}
		}
	}()
	result, err := f.fallback.Fetch(ctx, names, sink)
	return fetchResult{result: result, err: err}
}

// gapNames lists the distinct gap channel names in gap order
func gapNames(gaps []domain.ChannelKey) []string {
	seen := make(map[string]struct{}, len(gaps))
	names := make([]string, 0, len(gaps))
	for _, key := range gaps {
		if _, ok := seen[key.Name]; ok {
			continue
		}
		seen[key.Name] = struct{}{}
		names = append(names, key.Name)
	}
	return names
}
