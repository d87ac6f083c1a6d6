package probe

import (
	"context"
	"encoding/json"
	"time"

	coreerrors "channel-catalog/core/errors"
	"channel-catalog/core/interfaces"
)

const keyPrefix = "probe:"

type cachedResult struct {
	URL       string  `json:"url"`
	LatencyMS int64   `json:"latency_ms"`
	Score     float64 `json:"score"`
}

// CachedProber reuses recent successful measurements from a cache
type CachedProber struct {
	inner  interfaces.Prober
	cache  interfaces.Cache
	ttl    time.Duration
	logger interfaces.Logger
}

// NewCachedProber wraps inner. A zero ttl or nil cache disables caching.
func NewCachedProber(inner interfaces.Prober, deps interfaces.Dependencies, ttl time.Duration) *CachedProber {
	return &CachedProber{
		inner:  inner,
		cache:  deps.Cache,
		ttl:    ttl,
		logger: deps.Log(),
	}
}

// Probe returns a cached measurement when present, otherwise probes and stores success
func (p *CachedProber) Probe(ctx context.Context, url string) (interfaces.ProbeResult, error) {
	if p.cache == nil || p.ttl <= 0 {
		return p.inner.Probe(ctx, url)
	}

	key := keyPrefix + url
	if data, err := p.cache.Get(ctx, key); err == nil {
		var cached cachedResult
		if err := json.Unmarshal(data, &cached); err == nil {
			return interfaces.ProbeResult{
				URL:     url,
				Latency: time.Duration(cached.LatencyMS) * time.Millisecond,
				Score:   cached.Score,
			}, nil
		}
		p.logger.Warn("Discarding unreadable probe cache entry", map[string]interface{}{
			"key": key,
		})
	} else if !coreerrors.IsCacheMiss(err) {
		p.logger.Debug("Probe cache lookup failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	result, err := p.inner.Probe(ctx, url)
	if err != nil {
		return result, err
	}

	data, err := json.Marshal(cachedResult{
		URL:       url,
		LatencyMS: result.Latency.Milliseconds(),
		Score:     result.Score,
	})
	if err == nil {
		if err := p.cache.Set(ctx, key, data, p.ttl); err != nil {
			p.logger.Debug("Probe cache store failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}

	return result, nil
}
