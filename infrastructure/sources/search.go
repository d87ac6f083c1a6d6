// ABOUTME: Search source queries a result page per channel name and extracts stream URLs with goquery
// ABOUTME: Queries are throttled with a token bucket so remote engines are not hammered

package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"channel-catalog/core/domain"
	"channel-catalog/core/interfaces"
	"channel-catalog/core/progress"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// SearchOptions configures one search variant
type SearchOptions struct {
	// QueryURL contains exactly one %s for the escaped channel name
	QueryURL          string
	ResultSelector    string
	MaxResults        int
	RequestsPerSecond float64
}

// SearchSource looks up each requested channel name (multicast, online_search)
type SearchSource struct {
	id      string
	opts    SearchOptions
	client  interfaces.HTTPClient
	limiter *rate.Limiter
	logger  interfaces.Logger
}

// NewSearchSource creates a search source reporting under id
func NewSearchSource(id string, opts SearchOptions, deps interfaces.Dependencies) *SearchSource {
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	return &SearchSource{
		id:      id,
		opts:    opts,
		client:  deps.HTTPClient,
		limiter: rate.NewLimiter(limit, 1),
		logger:  deps.Log(),
	}
}

// ID implements interfaces.DiscoverySource
func (s *SearchSource) ID() string {
	return s.id
}

// Fetch runs one query per distinct name
func (s *SearchSource) Fetch(ctx context.Context, names []string, sink interfaces.ProgressSink) (domain.SourceResult, error) {
	result := domain.SourceResult{}
	names = distinct(names)

	tracker := progress.NewTracker(sink)
	tracker.SetUnit("channels")
	tracker.Start(s.id, len(names))

	for _, name := range names {
		if err := s.limiter.Wait(ctx); err != nil {
			return result, ctxErr(ctx, err)
		}

		links, err := s.search(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			s.logger.Debug("Search query failed", map[string]interface{}{
				"source":  s.id,
				"channel": name,
				"error":   err.Error(),
			})
		}
		for _, link := range links {
			result.Add(name, link, s.id)
		}
		tracker.Step()
	}

	s.logger.Info("Search finished", map[string]interface{}{
		"source":     s.id,
		"queries":    len(names),
		"channels":   len(result),
		"candidates": result.Count(),
	})
	return result, nil
}

func (s *SearchSource) search(ctx context.Context, name string) ([]string, error) {
	resp, err := s.client.Get(ctx, fmt.Sprintf(s.opts.QueryURL, url.QueryEscape(name)))
	if err != nil {
		return nil, err
	}
	defer resp.Body().Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body())
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	links := make([]string, 0)
	doc.Find(s.opts.ResultSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		link := strings.TrimSpace(sel.AttrOr("href", ""))
		if link == "" {
			link = strings.TrimSpace(sel.Text())
		}
		if !IsStreamURL(link) {
			return true
		}
		if _, dup := seen[link]; dup {
			return true
		}
		seen[link] = struct{}{}
		links = append(links, link)
		return s.opts.MaxResults <= 0 || len(links) < s.opts.MaxResults
	})
	return links, nil
}

func distinct(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// ctxErr prefers the context's own error over the limiter's wrapper
func ctxErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
