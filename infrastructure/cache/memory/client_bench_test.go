package memory

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func probeKey(i int) string {
	return fmt.Sprintf("probe:http://host-%d.example/live.m3u8", i)
}

func BenchmarkMemoryCache_Get(b *testing.B) {
	cache := NewMemoryCache(time.Hour, 10*time.Minute)
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		_ = cache.Set(ctx, probeKey(i), []byte(`{"score":10}`), time.Hour)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = cache.Get(ctx, probeKey(i%1000))
	}
}

func BenchmarkMemoryCache_ConcurrentGetSet(b *testing.B) {
	cache := NewMemoryCache(time.Hour, 10*time.Minute)
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if i%4 == 0 {
				_ = cache.Set(ctx, probeKey(i%500), []byte(`{"score":10}`), time.Hour)
			} else {
				_, _ = cache.Get(ctx, probeKey(i%500))
			}
			i++
		}
	})
}
