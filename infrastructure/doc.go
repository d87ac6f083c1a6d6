// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package.
//
// The infrastructure package is organized by technical concern:
//
// - cache/memory: In-process cache on patrickmn/go-cache
// - cache/redis: Redis-backed cache for shared probe results and snapshots
// - cache/sqlite: File-backed cache that survives restarts
// - http/standard: net/http client with retries on transient failures
// - logger/logruslog: logrus logger with optional rotating file output
// - template: Channel template file loader
// - sources: Discovery sources (subscription lists, hotel pages, search, feeds)
// - probe: Endpoint speed probe and its cached decorator
// - output: Result file, playlist and snapshot sinks
//
// # Cache Implementations
//
// All caches return errors.ErrCacheMiss for absent or expired keys, and
// treat a zero TTL as "never expires":
//
//	cache := memory.NewMemoryCache(time.Hour, 10*time.Minute)
//	err := cache.Set(ctx, "probe:http://host/live.m3u8", data, 30*time.Minute)
//	data, err := cache.Get(ctx, "probe:http://host/live.m3u8")
//
// # Discovery Sources
//
// Sources absorb their own network and parse failures and return whatever
// they collected. Use sources.Descriptors to get every built-in source in
// the order the coordinator runs them:
//
//	descriptors := sources.Descriptors(cfg.Sources, deps)
//	fallback := sources.Fallback(cfg.Sources, deps)
package infrastructure
