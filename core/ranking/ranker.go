// ABOUTME: Speed ranker probes every candidate of a catalog and orders channels best-first
// ABOUTME: Probing is the only concurrent phase; the ranker alone writes the resulting catalog

package ranking

import (
	"context"
	"fmt"
	"sort"

	"channel-catalog/core/domain"
	"channel-catalog/core/errors"
	"channel-catalog/core/interfaces"
	"channel-catalog/core/progress"
	"channel-catalog/core/workers"
)

// Ranker measures candidates and reorders each channel by descending quality
type Ranker struct {
	prober interfaces.Prober
	logger interfaces.Logger
	config workers.WorkerConfig
}

// NewRanker creates a ranker that probes through a bounded pool
func NewRanker(prober interfaces.Prober, deps interfaces.Dependencies, config workers.WorkerConfig) *Ranker {
	return &Ranker{
		prober: prober,
		logger: deps.Log(),
		config: config,
	}
}

type slot struct {
	key   domain.ChannelKey
	index int
	url   string
}

// Rank probes every candidate in catalog and returns a new catalog where each
// channel is sorted by descending quality score. Candidates whose probe fails
// are dropped; channel keys are always kept. The input catalog is not modified.
//
// A catalog with no candidates is returned as-is without probing or reporting.
// When ctx is cancelled before every probe returns, Rank returns
// errors.ErrCancelled and no catalog.
func (r *Ranker) Rank(ctx context.Context, catalog domain.Catalog, label string, sink interfaces.ProgressSink) (domain.Catalog, error) {
	if sink == nil {
		sink = progress.Nop()
	}

	slots := flatten(catalog)
	total := len(slots)
	if total == 0 {
		return catalog.Clone(), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Cancelled(err)
	}

	sink.Report(fmt.Sprintf("Speed testing %s, %d endpoints", label, total), 0, false, "")
	tracker := progress.NewTracker(sink)
	tracker.Start(label, total)

	pool := workers.NewProbePool(r.prober, r.config)
	if err := pool.Start(ctx); err != nil {
		return nil, errors.WrapError(err, "failed to start probe pool")
	}
	defer pool.Stop()

	go func() {
		defer pool.Close()
		for i, s := range slots {
			if err := pool.Submit(&workers.ProbeJob{Index: i, URL: s.url}); err != nil {
				return
			}
		}
	}()

	outcomes := make([]*workers.ProbeOutcome, total)
	received := 0
	for received < total {
		select {
		case outcome, ok := <-pool.Results():
			if !ok {
				return nil, errors.Cancelled(ctx.Err())
			}
			outcomes[outcome.Index] = &outcome
			received++
			tracker.Step()
		case <-ctx.Done():
			return nil, errors.Cancelled(ctx.Err())
		}
	}

	return r.assemble(catalog, slots, outcomes), nil
}

// assemble builds the ranked catalog from the probe outcomes
func (r *Ranker) assemble(catalog domain.Catalog, slots []slot, outcomes []*workers.ProbeOutcome) domain.Catalog {
	ranked := domain.NewCatalog()
	for _, key := range catalog.Keys() {
		ranked.Ensure(key.Category, key.Name)
	}

	dropped := make(map[domain.ChannelKey]int)
	for i, s := range slots {
		outcome := outcomes[i]
		if outcome == nil || outcome.Err != nil {
			dropped[s.key]++
			continue
		}
		candidates, _ := catalog.Get(s.key)
		list, _ := ranked.Get(s.key)
		ranked.Set(s.key, append(list, candidates[s.index].WithScore(outcome.Result.Score)))
	}

	for _, key := range ranked.Keys() {
		list, _ := ranked.Get(key)
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Score() > list[j].Score()
		})
	}

	droppedTotal := 0
	for key, n := range dropped {
		droppedTotal += n
		r.logger.Debug("Dropped unreachable candidates", map[string]interface{}{
			"category": key.Category,
			"channel":  key.Name,
			"dropped":  n,
		})
	}
	r.logger.Info("Ranking finished", map[string]interface{}{
		"probed":  len(slots),
		"kept":    len(slots) - droppedTotal,
		"dropped": droppedTotal,
	})

	return ranked
}

// flatten lists every candidate with its position, in deterministic key order
func flatten(catalog domain.Catalog) []slot {
	slots := make([]slot, 0, catalog.Count())
	for _, key := range catalog.Keys() {
		candidates, _ := catalog.Get(key)
		for i, candidate := range candidates {
			slots = append(slots, slot{key: key, index: i, url: candidate.URL})
		}
	}
	return slots
}
