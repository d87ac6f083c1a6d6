// ABOUTME: Hotel source crawls published result pages with colly
// ABOUTME: Every matched row yields one channel name and one stream URL

package sources

import (
	"context"
	"strings"
	"sync"
	"time"

	"channel-catalog/core/domain"
	"channel-catalog/core/interfaces"
	"channel-catalog/core/progress"
	"github.com/gocolly/colly"
)

const hotelMaxBodySize = 5 * 1024 * 1024

// HotelOptions configures one hotel variant
type HotelOptions struct {
	Pages        []string
	RowSelector  string
	NameSelector string
	URLSelector  string
	UserAgent    string
	Timeout      time.Duration
}

// HotelSource crawls result pages for one hotel variant (fofa or tonkiang)
type HotelSource struct {
	id     string
	opts   HotelOptions
	logger interfaces.Logger
}

// NewHotelSource creates a hotel source reporting under id
func NewHotelSource(id string, opts HotelOptions, deps interfaces.Dependencies) *HotelSource {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &HotelSource{
		id:     id,
		opts:   opts,
		logger: deps.Log(),
	}
}

// ID implements interfaces.DiscoverySource
func (s *HotelSource) ID() string {
	return s.id
}

// Fetch visits every configured page once
func (s *HotelSource) Fetch(ctx context.Context, _ []string, sink interfaces.ProgressSink) (domain.SourceResult, error) {
	result := domain.SourceResult{}
	var mu sync.Mutex

	c := s.collector(ctx)
	c.OnHTML(s.opts.RowSelector, func(e *colly.HTMLElement) {
		name := strings.TrimSpace(e.ChildText(s.opts.NameSelector))
		link := strings.TrimSpace(e.ChildAttr(s.opts.URLSelector, "href"))
		if link == "" {
			link = strings.TrimSpace(e.ChildText(s.opts.URLSelector))
		} else {
			link = e.Request.AbsoluteURL(link)
		}
		if name == "" || !IsStreamURL(link) {
			return
		}
		mu.Lock()
		result.Add(name, link, s.id)
		mu.Unlock()
	})
	c.OnError(func(r *colly.Response, err error) {
		s.logger.Warn("Hotel page failed", map[string]interface{}{
			"source": s.id,
			"url":    r.Request.URL.String(),
			"status": r.StatusCode,
			"error":  err.Error(),
		})
	})

	tracker := progress.NewTracker(sink)
	tracker.SetUnit("pages")
	tracker.Start(s.id, len(s.opts.Pages))

	for _, page := range s.opts.Pages {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := c.Visit(page); err != nil && ctx.Err() == nil {
			s.logger.Warn("Skipping hotel page", map[string]interface{}{
				"source": s.id,
				"url":    page,
				"error":  err.Error(),
			})
		}
		tracker.Step()
	}
	c.Wait()

	return result, ctx.Err()
}

func (s *HotelSource) collector(ctx context.Context) *colly.Collector {
	options := []func(*colly.Collector){
		colly.MaxBodySize(hotelMaxBodySize),
		colly.Async(false),
		colly.AllowURLRevisit(),
	}
	if s.opts.UserAgent != "" {
		options = append(options, colly.UserAgent(s.opts.UserAgent))
	}
	c := colly.NewCollector(options...)
	c.SetRequestTimeout(s.opts.Timeout)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})
	return c
}
