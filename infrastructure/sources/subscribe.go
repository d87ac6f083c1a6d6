package sources

import (
	"context"
	"fmt"

	"channel-catalog/core/domain"
	"channel-catalog/core/interfaces"
	"channel-catalog/core/progress"
)

// SubscribeSource downloads published channel lists
type SubscribeSource struct {
	client interfaces.HTTPClient
	urls   []string
	logger interfaces.Logger
}

// NewSubscribeSource creates the subscription source for urls
func NewSubscribeSource(urls []string, deps interfaces.Dependencies) *SubscribeSource {
	return &SubscribeSource{
		client: deps.HTTPClient,
		urls:   urls,
		logger: deps.Log(),
	}
}

// ID implements interfaces.DiscoverySource
func (s *SubscribeSource) ID() string {
	return domain.SourceSubscribe
}

// Fetch downloads every list. A list that cannot be fetched or parsed is skipped.
func (s *SubscribeSource) Fetch(ctx context.Context, _ []string, sink interfaces.ProgressSink) (domain.SourceResult, error) {
	result := domain.SourceResult{}
	tracker := progress.NewTracker(sink)
	tracker.SetUnit("lists")
	tracker.Start("subscribe", len(s.urls))

	for _, listURL := range s.urls {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		list, err := s.fetchList(ctx, listURL)
		if err != nil {
			s.logger.Warn("Skipping subscription list", map[string]interface{}{
				"url":   listURL,
				"error": err.Error(),
			})
		} else {
			merge(result, list)
		}
		tracker.Step()
	}

	s.logger.Info("Subscription lists processed", map[string]interface{}{
		"lists":      len(s.urls),
		"channels":   len(result),
		"candidates": result.Count(),
	})
	return result, nil
}

func (s *SubscribeSource) fetchList(ctx context.Context, listURL string) (domain.SourceResult, error) {
	resp, err := s.client.Get(ctx, listURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body().Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}
	return ParseList(resp.Body(), domain.SourceSubscribe)
}

// merge appends src into dst, keeping the first occurrence of a URL per name
func merge(dst, src domain.SourceResult) {
	for name, candidates := range src {
		seen := make(map[string]struct{}, len(dst[name]))
		for _, c := range dst[name] {
			seen[c.URL] = struct{}{}
		}
		for _, c := range candidates {
			if _, dup := seen[c.URL]; dup {
				continue
			}
			seen[c.URL] = struct{}{}
			dst[name] = append(dst[name], c)
		}
	}
}
