package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"channel-catalog/core/domain"
	"channel-catalog/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeSource_MergesListsAndSkipsFailures(t *testing.T) {
	server := serve(t, map[string]string{
		"/one.txt": "News,#genre#\nCNN,http://a/cnn\nBBC,http://a/bbc\n",
		"/two.m3u": "#EXTM3U\n#EXTINF:-1,CNN\nhttp://b/cnn\n#EXTINF:-1,CNN\nhttp://a/cnn\n",
	})
	logger := &mockLogger{}
	sink := &recordingSink{}
	source := NewSubscribeSource([]string{
		server.URL + "/one.txt",
		server.URL + "/missing.txt",
		server.URL + "/two.m3u",
	}, testDeps(logger))

	result, err := source.Fetch(context.Background(), nil, sink)

	require.NoError(t, err)
	assert.Equal(t, "subscribe", source.ID())
	require.Len(t, result["CNN"], 2)
	assert.Equal(t, "http://a/cnn", result["CNN"][0].URL)
	assert.Equal(t, "http://b/cnn", result["CNN"][1].URL)
	assert.Len(t, result["BBC"], 1)
	assert.Equal(t, 1, logger.warnCount())
	assert.Equal(t, []int{33, 66, 100}, sink.percents)
	assert.Contains(t, sink.messages[0], "Running subscribe, 2 lists left")
}

func TestSubscribeSource_CancelledContext(t *testing.T) {
	server := serve(t, map[string]string{"/one.txt": "CNN,http://a/cnn\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewSubscribeSource([]string{server.URL + "/one.txt"}, testDeps(nil)).Fetch(ctx, nil, nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result)
}

const hotelPage = `<html><body>
<div class="result"><span class="channel">CNN</span><a class="url" href="http://hotel/cnn.m3u8">play</a></div>
<div class="result"><span class="channel">BBC</span><span class="url">http://hotel/bbc.m3u8</span></div>
<div class="result"><span class="channel">Relative</span><a class="url" href="/local.m3u8">play</a></div>
<div class="result"><span class="channel"></span><a class="url" href="http://hotel/nameless">play</a></div>
</body></html>`

func TestHotelSource_ExtractsRows(t *testing.T) {
	server := serve(t, map[string]string{"/page1": hotelPage})
	sink := &recordingSink{}
	source := NewHotelSource(domain.SourceHotelFofa, HotelOptions{
		Pages:        []string{server.URL + "/page1", server.URL + "/gone"},
		RowSelector:  "div.result",
		NameSelector: ".channel",
		URLSelector:  ".url",
		Timeout:      2 * time.Second,
	}, testDeps(&mockLogger{}))

	result, err := source.Fetch(context.Background(), nil, sink)

	require.NoError(t, err)
	assert.Equal(t, "hotel_fofa", source.ID())
	assert.Equal(t, "http://hotel/cnn.m3u8", result["CNN"][0].URL)
	assert.Equal(t, "hotel_fofa", result["CNN"][0].SourceID)
	assert.Equal(t, "http://hotel/bbc.m3u8", result["BBC"][0].URL)
	assert.Equal(t, server.URL+"/local.m3u8", result["Relative"][0].URL)
	assert.Len(t, result, 3)
	assert.Equal(t, []int{50, 100}, sink.percents)
}

func TestHotelSource_NoPages(t *testing.T) {
	source := NewHotelSource(domain.SourceHotelTonkiang, HotelOptions{RowSelector: "div"}, testDeps(nil))

	result, err := source.Fetch(context.Background(), nil, nil)

	require.NoError(t, err)
	assert.Empty(t, result)
}

func searchServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("q")
		if name == "Broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, `<div class="result"><a class="m3u8" href="http://s1/%[1]s">x</a></div>
<div class="result"><span class="m3u8">http://s2/%[1]s</span></div>
<div class="result"><span class="m3u8">http://s1/%[1]s</span></div>
<div class="result"><span class="m3u8">no url here</span></div>
<div class="result"><span class="m3u8">http://s3/%[1]s</span></div>`, name)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSearchSource_QueriesEachDistinctName(t *testing.T) {
	server := searchServer(t)
	sink := &recordingSink{}
	source := NewSearchSource(domain.SourceMulticast, SearchOptions{
		QueryURL:       server.URL + "/search?q=%s",
		ResultSelector: "div.result .m3u8",
		MaxResults:     2,
	}, testDeps(&mockLogger{}))

	result, err := source.Fetch(context.Background(), []string{"CNN", "Broken", "CNN", "BBC"}, sink)

	require.NoError(t, err)
	assert.Equal(t, []string{"http://s1/CNN", "http://s2/CNN"}, urls(result["CNN"]))
	assert.Equal(t, []string{"http://s1/BBC", "http://s2/BBC"}, urls(result["BBC"]))
	assert.NotContains(t, result, "Broken")
	assert.Len(t, sink.percents, 3)
	assert.Equal(t, 100, sink.percents[2])
}

func TestSearchSource_Unlimited(t *testing.T) {
	server := searchServer(t)
	source := NewSearchSource(domain.SourceOnlineSearch, SearchOptions{
		QueryURL:       server.URL + "/search?q=%s",
		ResultSelector: ".m3u8",
	}, testDeps(nil))

	result, err := source.Fetch(context.Background(), []string{"CNN"}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"http://s1/CNN", "http://s2/CNN", "http://s3/CNN"}, urls(result["CNN"]))
}

func TestSearchSource_EscapesNames(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("q")
	}))
	defer server.Close()
	source := NewSearchSource("search", SearchOptions{QueryURL: server.URL + "/?q=%s", ResultSelector: "a"}, testDeps(nil))

	_, err := source.Fetch(context.Background(), []string{"CCTV-1 & News"}, nil)

	require.NoError(t, err)
	assert.Equal(t, "CCTV-1 & News", got)
}

func TestSearchSource_ThrottleHonoursCancellation(t *testing.T) {
	server := searchServer(t)
	source := NewSearchSource("search", SearchOptions{
		QueryURL:          server.URL + "/search?q=%s",
		ResultSelector:    ".m3u8",
		RequestsPerSecond: 0.01,
	}, testDeps(nil))
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	start := time.Now()
	result, err := source.Fetch(ctx, []string{"A", "B", "C"}, nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, result, "A")
	assert.NotContains(t, result, "B")
	assert.Less(t, time.Since(start), 2*time.Second)
}

const rssFeed = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Streams</title>
<item><title>CNN</title><link>http://page/cnn</link><enclosure url="http://feed/cnn.m3u8" type="application/x-mpegURL" length="0"/></item>
<item><title>BBC</title><link>http://feed/bbc.m3u8</link></item>
<item><title>Nothing</title></item>
</channel></rss>`

func TestFeedSource_ItemsBecomeChannels(t *testing.T) {
	server := serve(t, map[string]string{"/feed.xml": rssFeed, "/bad.xml": "this is not a feed"})
	logger := &mockLogger{}
	source := NewFeedSource([]string{server.URL + "/feed.xml", server.URL + "/bad.xml"}, testDeps(logger))

	result, err := source.Fetch(context.Background(), nil, nil)

	require.NoError(t, err)
	assert.Equal(t, "feed", source.ID())
	assert.Equal(t, "http://feed/cnn.m3u8", result["CNN"][0].URL)
	assert.Equal(t, "http://feed/bbc.m3u8", result["BBC"][0].URL)
	assert.NotContains(t, result, "Nothing")
	assert.Equal(t, 1, logger.warnCount())
}

func TestDescriptors_DeclaredOrderAndFlags(t *testing.T) {
	cfg := config.SourcesConfig{
		Timeout:       5,
		Subscribe:     config.SubscribeConfig{Enabled: true},
		HotelFofa:     config.HotelConfig{Enabled: true},
		HotelTonkiang: config.HotelConfig{Enabled: false},
		Multicast:     config.SearchConfig{Enabled: true, QueryURL: "http://m/?q=%s"},
		OnlineSearch:  config.SearchConfig{Enabled: true},
		Feed:          config.FeedConfig{Enabled: true},
	}

	descriptors := Descriptors(cfg, testDeps(nil))

	ids := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		ids = append(ids, d.ID)
		assert.Equal(t, d.ID, d.Source.ID())
	}
	assert.Equal(t, []string{"hotel_fofa", "multicast", "hotel_tonkiang", "subscribe", "online_search", "feed"}, ids)

	assert.True(t, descriptors[0].HotelVariant)
	assert.True(t, descriptors[2].HotelVariant)
	assert.False(t, descriptors[2].Enabled)
	assert.True(t, descriptors[1].NeedsNameList)
	assert.True(t, descriptors[1].Enabled)
	assert.False(t, descriptors[4].Enabled, "search without a query url cannot run")
	assert.False(t, descriptors[3].NeedsNameList)
}

func TestFallback(t *testing.T) {
	assert.Nil(t, Fallback(config.SourcesConfig{}, testDeps(nil)))

	fallback := Fallback(config.SourcesConfig{Multicast: config.SearchConfig{QueryURL: "http://m/?q=%s"}}, testDeps(nil))
	require.NotNil(t, fallback)
	assert.Equal(t, "multicast", fallback.ID())
}

func urls(candidates []domain.CandidateURL) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.URL)
	}
	return out
}
