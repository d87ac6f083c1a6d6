package sources

import (
	"context"
	"fmt"
	"strings"

	"channel-catalog/core/domain"
	"channel-catalog/core/interfaces"
	"channel-catalog/core/progress"
	"github.com/mmcdole/gofeed"
)

// FeedSource reads RSS/Atom/JSON feeds whose items are channels:
// the title names the channel and the first enclosure (or the link) is the stream
type FeedSource struct {
	client interfaces.HTTPClient
	urls   []string
	logger interfaces.Logger
}

// NewFeedSource creates the feed source for urls
func NewFeedSource(urls []string, deps interfaces.Dependencies) *FeedSource {
	return &FeedSource{
		client: deps.HTTPClient,
		urls:   urls,
		logger: deps.Log(),
	}
}

// ID implements interfaces.DiscoverySource
func (s *FeedSource) ID() string {
	return domain.SourceFeed
}

// Fetch parses every feed; unreadable feeds are skipped
func (s *FeedSource) Fetch(ctx context.Context, _ []string, sink interfaces.ProgressSink) (domain.SourceResult, error) {
	result := domain.SourceResult{}
	parser := gofeed.NewParser()

	tracker := progress.NewTracker(sink)
	tracker.SetUnit("feeds")
	tracker.Start("feed", len(s.urls))

	for _, feedURL := range s.urls {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		feed, err := s.fetchFeed(ctx, parser, feedURL)
		if err != nil {
			s.logger.Warn("Skipping feed", map[string]interface{}{
				"url":   feedURL,
				"error": err.Error(),
			})
			tracker.Step()
			continue
		}

		for _, item := range feed.Items {
			if link := itemStream(item); link != "" {
				result.Add(strings.TrimSpace(item.Title), link, domain.SourceFeed)
			}
		}
		tracker.Step()
	}

	return result, nil
}

func (s *FeedSource) fetchFeed(ctx context.Context, parser *gofeed.Parser, feedURL string) (*gofeed.Feed, error) {
	resp, err := s.client.Get(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body().Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}
	return parser.Parse(resp.Body())
}

func itemStream(item *gofeed.Item) string {
	for _, enclosure := range item.Enclosures {
		if enclosure != nil && IsStreamURL(enclosure.URL) {
			return strings.TrimSpace(enclosure.URL)
		}
	}
	if IsStreamURL(item.Link) {
		return strings.TrimSpace(item.Link)
	}
	return ""
}
