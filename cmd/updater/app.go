package main

import (
	"fmt"
	"io"
	"net"
	"time"

	"channel-catalog/core/interfaces"
	"channel-catalog/core/pipeline"
	"channel-catalog/core/updater"
	"channel-catalog/core/workers"
	"channel-catalog/infrastructure/cache/memory"
	"channel-catalog/infrastructure/cache/redis"
	"channel-catalog/infrastructure/cache/sqlite"
	stdhttp "channel-catalog/infrastructure/http/standard"
	"channel-catalog/infrastructure/output"
	"channel-catalog/infrastructure/probe"
	"channel-catalog/infrastructure/sources"
	"channel-catalog/infrastructure/template"
	"channel-catalog/pkg/config"
)

// app holds the long-lived collaborators shared by every run
type app struct {
	deps      interfaces.Dependencies
	logger    interfaces.Logger
	snapshots interfaces.SnapshotStore
	factory   updater.Factory
	link      string
	closers   []io.Closer
}

func newApp(cfg *config.Config, logger interfaces.Logger) (*app, error) {
	a := &app{logger: logger, link: viewerLink(cfg.Server)}

	cache, err := a.newCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	a.deps = interfaces.Dependencies{
		Cache: cache,
		HTTPClient: stdhttp.NewStandardHTTPClient(stdhttp.Options{
			Timeout:   time.Duration(cfg.Sources.Timeout) * time.Second,
			UserAgent: cfg.Sources.UserAgent,
		}),
		Logger: logger,
	}
	a.snapshots = output.NewCacheSnapshotStore(cache)
	a.factory = a.runFactory(cfg)
	return a, nil
}

func (a *app) newCache(cfg config.CacheConfig) (interfaces.Cache, error) {
	switch cfg.Type {
	case "redis":
		redisCache, err := redis.NewRedisCache(cfg.Redis, "catalog")
		if err != nil {
			a.logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			break
		}
		a.closers = append(a.closers, redisCache)
		a.logger.Info("Using Redis cache", map[string]interface{}{
			"address": cfg.Redis.Address,
		})
		return redisCache, nil
	case "sqlite":
		sqliteCache, err := sqlite.NewSQLiteCache(cfg.SQLite.Path, time.Duration(cfg.Memory.CleanupInterval)*time.Second, a.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite cache: %w", err)
		}
		a.closers = append(a.closers, sqliteCache)
		a.logger.Info("Using SQLite cache", map[string]interface{}{
			"path": cfg.SQLite.Path,
		})
		return sqliteCache, nil
	}

	a.logger.Info("Using memory cache", nil)
	return memory.NewMemoryCache(
		time.Duration(cfg.Memory.DefaultExpiration)*time.Second,
		time.Duration(cfg.Memory.CleanupInterval)*time.Second,
	), nil
}

// runFactory builds a fresh pipeline run per update so configuration
// toggles are read once per run
func (a *app) runFactory(cfg *config.Config) updater.Factory {
	settings := pipeline.Settings{
		OpenSort:   cfg.Update.OpenSort,
		OpenHotel:  cfg.Update.OpenHotel,
		MinResults: cfg.Update.MinResults,
		Link:       a.link,
		Workers: workers.WorkerConfig{
			MaxWorkers: cfg.Probe.Concurrency,
			QueueSize:  cfg.Probe.Concurrency * 10,
		},
	}

	probeTimeout := time.Duration(cfg.Probe.Timeout) * time.Second
	probeClient := stdhttp.NewStandardHTTPClient(stdhttp.Options{
		Timeout:     probeTimeout,
		UserAgent:   cfg.Sources.UserAgent,
		MaxAttempts: 1,
	})
	prober := probe.NewCachedProber(
		probe.NewHTTPProber(probeClient, probeTimeout, cfg.Probe.MaxBytes),
		a.deps,
		time.Duration(cfg.Probe.CacheTTL)*time.Second,
	)

	components := pipeline.Components{
		Templates: template.NewFileLoader(cfg.Update.TemplateFile),
		Sources:   sources.Descriptors(cfg.Sources, a.deps),
		Fallback:  sources.Fallback(cfg.Sources, a.deps),
		Prober:    prober,
		Writer: output.NewResultWriter(output.WriterOptions{
			FinalFile: cfg.Output.FinalFile,
			LogFile:   cfg.Output.LogFile,
			WriteLog:  cfg.Update.OpenSort,
			URLsLimit: cfg.Output.URLsLimit,
		}, a.deps),
		Snapshots: a.snapshots,
	}
	if cfg.Output.M3UFile != "" {
		components.Converter = output.NewM3UConverter(cfg.Output.M3UFile, cfg.Output.URLsLimit, a.deps)
	}

	return func() updater.Runner {
		return pipeline.New(settings, components, a.deps)
	}
}

// Close releases the cache backends
func (a *app) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// viewerLink is the configured public address, or one derived from the first
// non-loopback interface
func viewerLink(cfg config.ServerConfig) string {
	if cfg.PublicURL != "" {
		return cfg.PublicURL
	}
	host := "localhost"
	if addrs, err := net.InterfaceAddrs(); err == nil {
		for _, addr := range addrs {
			if ipNet, ok := addr.(*net.IPNet); ok && !ipNet.IP.IsLoopback() && ipNet.IP.To4() != nil {
				host = ipNet.IP.String()
				break
			}
		}
	}
	return "http://" + net.JoinHostPort(host, cfg.Port)
}
