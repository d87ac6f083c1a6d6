package probe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	coreerrors "channel-catalog/core/errors"
	"channel-catalog/core/interfaces"
	"channel-catalog/infrastructure/cache/memory"
	"channel-catalog/infrastructure/http/standard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient() interfaces.HTTPClient {
	return standard.NewStandardHTTPClient(standard.Options{Timeout: 2 * time.Second, MaxAttempts: 1})
}

func TestScore(t *testing.T) {
	tests := []struct {
		latency time.Duration
		want    float64
	}{
		{0, 1000},
		{500 * time.Microsecond, 1000},
		{time.Millisecond, 1000},
		{10 * time.Millisecond, 100},
		{2 * time.Second, 0.5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Score(tt.latency), 1e-9, "latency %s", tt.latency)
	}
	assert.Greater(t, Score(20*time.Millisecond), Score(200*time.Millisecond), "faster scores higher")
}

func TestHTTPProber_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("#EXTM3U\n#EXTINF:-1,\nsegment.ts\n"))
	}))
	defer server.Close()

	result, err := NewHTTPProber(newClient(), time.Second, 0).Probe(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Greater(t, result.Score, 0.0)
	assert.Equal(t, Score(result.Latency), result.Score)
}

func TestHTTPProber_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) }},
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) }},
		{"empty body", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := NewHTTPProber(newClient(), time.Second, 0).Probe(context.Background(), server.URL)

			assert.True(t, coreerrors.IsExternalAPI(err), "got %v", err)
		})
	}
}

func TestHTTPProber_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	start := time.Now()
	_, err := NewHTTPProber(newClient(), 50*time.Millisecond, 0).Probe(context.Background(), server.URL)

	assert.Error(t, err)
	assert.Less(t, time.Since(start), 900*time.Millisecond)
}

func TestHTTPProber_ReadsAtMostMaxBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 4096))
		// A live stream never ends; the probe must not wait for it
		<-r.Context().Done()
	}))
	defer server.Close()

	done := make(chan error, 1)
	go func() {
		_, err := NewHTTPProber(newClient(), 2*time.Second, 1024).Probe(context.Background(), server.URL)
		done <- err
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("probe waited for the whole stream")
	}
}

type countingProber struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (p *countingProber) Probe(ctx context.Context, url string) (interfaces.ProbeResult, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if p.err != nil {
		return interfaces.ProbeResult{}, p.err
	}
	return interfaces.ProbeResult{URL: url, Latency: 40 * time.Millisecond, Score: 25}, nil
}

func TestCachedProber_ReusesMeasurements(t *testing.T) {
	inner := &countingProber{}
	cache := memory.NewMemoryCache(time.Hour, time.Minute)
	prober := NewCachedProber(inner, interfaces.Dependencies{Cache: cache}, time.Minute)
	ctx := context.Background()

	first, err := prober.Probe(ctx, "http://host/live.m3u8")
	require.NoError(t, err)
	second, err := prober.Probe(ctx, "http://host/live.m3u8")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first, second)

	stored, err := cache.Get(ctx, "probe:http://host/live.m3u8")
	require.NoError(t, err)
	assert.JSONEq(t, `{"url":"http://host/live.m3u8","latency_ms":40,"score":25}`, string(stored))
}

func TestCachedProber_DoesNotCacheFailures(t *testing.T) {
	inner := &countingProber{err: errors.New("refused")}
	cache := memory.NewMemoryCache(time.Hour, time.Minute)
	prober := NewCachedProber(inner, interfaces.Dependencies{Cache: cache}, time.Minute)

	_, err1 := prober.Probe(context.Background(), "http://dead")
	_, err2 := prober.Probe(context.Background(), "http://dead")

	assert.Error(t, err1)
	assert.Error(t, err2)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedProber_Disabled(t *testing.T) {
	inner := &countingProber{}
	cache := memory.NewMemoryCache(time.Hour, time.Minute)

	for _, prober := range []*CachedProber{
		NewCachedProber(inner, interfaces.Dependencies{Cache: cache}, 0),
		NewCachedProber(inner, interfaces.Dependencies{}, time.Minute),
	} {
		_, _ = prober.Probe(context.Background(), "http://host")
		_, _ = prober.Probe(context.Background(), "http://host")
	}

	assert.Equal(t, 4, inner.calls)
}

func TestCachedProber_IgnoresCorruptEntries(t *testing.T) {
	inner := &countingProber{}
	cache := memory.NewMemoryCache(time.Hour, time.Minute)
	require.NoError(t, cache.Set(context.Background(), "probe:http://host", []byte("not json"), time.Minute))

	result, err := NewCachedProber(inner, interfaces.Dependencies{Cache: cache}, time.Minute).Probe(context.Background(), "http://host")

	require.NoError(t, err)
	assert.Equal(t, 25.0, result.Score)
	assert.Equal(t, 1, inner.calls)
}
