// ABOUTME: Configuration management backed by viper with YAML file and environment variable support
// ABOUTME: Defines configuration structures for server, cache, logging, update, sources, probe and output

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP viewer configuration
	Server ServerConfig `mapstructure:"server"`

	// Cache contains cache configuration
	Cache CacheConfig `mapstructure:"cache"`

	// Logging contains logger configuration
	Logging LoggingConfig `mapstructure:"logging"`

	// Update contains the pipeline toggles
	Update UpdateConfig `mapstructure:"update"`

	// Sources contains per-source discovery configuration
	Sources SourcesConfig `mapstructure:"sources"`

	// Probe contains speed test configuration
	Probe ProbeConfig `mapstructure:"probe"`

	// Output contains result file locations
	Output OutputConfig `mapstructure:"output"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string `mapstructure:"port"`

	// PublicURL is the viewer address attached to completion events
	PublicURL string `mapstructure:"public_url"`

	// RateLimit is the number of requests allowed per RateWindow seconds; 0 disables limiting
	RateLimit int `mapstructure:"rate_limit"`

	// RateWindow is the rate limit window in seconds
	RateWindow int `mapstructure:"rate_window"`
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (memory/redis/sqlite)
	Type string `mapstructure:"type"`

	// Redis contains Redis-specific configuration
	Redis RedisConfig `mapstructure:"redis"`

	// Memory contains in-memory cache configuration
	Memory MemoryConfig `mapstructure:"memory"`

	// SQLite contains file cache configuration
	SQLite SQLiteConfig `mapstructure:"sqlite"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string `mapstructure:"address"`

	// Password is the Redis authentication password
	Password string `mapstructure:"password"`

	// DB is the Redis database number
	DB int `mapstructure:"db"`
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// DefaultExpiration is the default TTL for cache entries in seconds
	DefaultExpiration int `mapstructure:"default_expiration"`

	// CleanupInterval is how often expired entries are purged, in seconds
	CleanupInterval int `mapstructure:"cleanup_interval"`
}

// SQLiteConfig holds file cache configuration
type SQLiteConfig struct {
	// Path is the database file
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`

	// File enables rotating file output when set
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// UpdateConfig holds the pipeline toggles
type UpdateConfig struct {
	// OpenUpdate runs the pipeline at all; off means serve the last result only
	OpenUpdate bool `mapstructure:"open_update"`

	// OpenSort enables speed ranking
	OpenSort bool `mapstructure:"open_sort"`

	// OpenHotel is the master flag for both hotel sources
	OpenHotel bool `mapstructure:"open_hotel"`

	// MinResults is the gap threshold
	MinResults int `mapstructure:"min_results"`

	// TemplateFile is the channel template
	TemplateFile string `mapstructure:"template_file"`
}

// SourcesConfig holds discovery source configuration
type SourcesConfig struct {
	// Timeout is the per-request timeout in seconds
	Timeout int `mapstructure:"timeout"`

	// UserAgent is sent on every discovery request
	UserAgent string `mapstructure:"user_agent"`

	Subscribe     SubscribeConfig `mapstructure:"subscribe"`
	HotelFofa     HotelConfig     `mapstructure:"hotel_fofa"`
	HotelTonkiang HotelConfig     `mapstructure:"hotel_tonkiang"`
	Multicast     SearchConfig    `mapstructure:"multicast"`
	OnlineSearch  SearchConfig    `mapstructure:"online_search"`
	Feed          FeedConfig      `mapstructure:"feed"`
}

// SubscribeConfig configures the subscription list source
type SubscribeConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	URLs    []string `mapstructure:"urls"`
}

// HotelConfig configures a crawled result page source
type HotelConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Pages   []string `mapstructure:"pages"`

	// RowSelector matches one result row; NameSelector and URLSelector are relative to it
	RowSelector  string `mapstructure:"row_selector"`
	NameSelector string `mapstructure:"name_selector"`
	URLSelector  string `mapstructure:"url_selector"`
}

// SearchConfig configures a per-name search source
type SearchConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// QueryURL contains one %s which receives the escaped channel name
	QueryURL string `mapstructure:"query_url"`

	// ResultSelector matches elements carrying a stream URL in their text or href
	ResultSelector string `mapstructure:"result_selector"`

	// MaxResults caps candidates per name; 0 means unlimited
	MaxResults int `mapstructure:"max_results"`

	// RequestsPerSecond throttles queries; 0 means unthrottled
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

// FeedConfig configures the published stream feed source
type FeedConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	URLs    []string `mapstructure:"urls"`
}

// ProbeConfig holds speed test configuration
type ProbeConfig struct {
	// Concurrency bounds simultaneous probes
	Concurrency int `mapstructure:"concurrency"`

	// Timeout is the per-probe timeout in seconds
	Timeout int `mapstructure:"timeout"`

	// MaxBytes is how much of the response body is read
	MaxBytes int64 `mapstructure:"max_bytes"`

	// CacheTTL keeps successful measurements for this many seconds; 0 disables
	CacheTTL int `mapstructure:"cache_ttl"`
}

// OutputConfig holds result file locations
type OutputConfig struct {
	FinalFile string `mapstructure:"final_file"`
	LogFile   string `mapstructure:"log_file"`
	M3UFile   string `mapstructure:"m3u_file"`

	// URLsLimit caps endpoints written per channel
	URLsLimit int `mapstructure:"urls_limit"`
}

// defaults are applied before the file and environment; every key is listed so
// environment overrides reach Unmarshal
var defaults = map[string]interface{}{
	"server.port":        "8000",
	"server.public_url":  "",
	"server.rate_limit":  100,
	"server.rate_window": 60,

	"cache.type":                      "memory",
	"cache.redis.address":             "localhost:6379",
	"cache.redis.password":            "",
	"cache.redis.db":                  0,
	"cache.memory.default_expiration": 3600,
	"cache.memory.cleanup_interval":   600,
	"cache.sqlite.path":               "output/cache.db",

	"logging.level":        "info",
	"logging.format":       "text",
	"logging.file":         "",
	"logging.max_size_mb":  100,
	"logging.max_backups":  3,
	"logging.max_age_days": 28,
	"logging.compress":     true,

	"update.open_update":   true,
	"update.open_sort":     true,
	"update.open_hotel":    true,
	"update.min_results":   3,
	"update.template_file": "config/demo.txt",

	"sources.timeout":    10,
	"sources.user_agent": "channel-catalog/1.0",

	"sources.subscribe.enabled": true,
	"sources.subscribe.urls":    []string{},

	"sources.hotel_fofa.enabled":       true,
	"sources.hotel_fofa.pages":         []string{},
	"sources.hotel_fofa.row_selector":  "div.result",
	"sources.hotel_fofa.name_selector": ".channel",
	"sources.hotel_fofa.url_selector":  ".url",

	"sources.hotel_tonkiang.enabled":       false,
	"sources.hotel_tonkiang.pages":         []string{},
	"sources.hotel_tonkiang.row_selector":  "div.result",
	"sources.hotel_tonkiang.name_selector": ".channel",
	"sources.hotel_tonkiang.url_selector":  ".m3u8",

	"sources.multicast.enabled":             true,
	"sources.multicast.query_url":           "",
	"sources.multicast.result_selector":     "div.result .m3u8",
	"sources.multicast.max_results":         10,
	"sources.multicast.requests_per_second": 2.0,

	"sources.online_search.enabled":             false,
	"sources.online_search.query_url":           "",
	"sources.online_search.result_selector":     "div.result .m3u8",
	"sources.online_search.max_results":         10,
	"sources.online_search.requests_per_second": 1.0,

	"sources.feed.enabled": false,
	"sources.feed.urls":    []string{},

	"probe.concurrency": 10,
	"probe.timeout":     5,
	"probe.max_bytes":   64 * 1024,
	"probe.cache_ttl":   1800,

	"output.final_file": "output/result.txt",
	"output.log_file":   "output/result.log",
	"output.m3u_file":   "output/result.m3u",
	"output.urls_limit": 10,
}

// Load reads configuration from built-in defaults, an optional YAML file at
// path and environment variables such as UPDATE_OPEN_SORT or
// SOURCES_SUBSCRIBE_URLS=a,b. An empty path looks for config/config.yaml and
// config.yaml; a missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("config")
		v.AddConfigPath(".")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	cfg.normalize()

	return cfg, nil
}

// normalize trims list entries that came from comma separated env values
func (c *Config) normalize() {
	c.Sources.Subscribe.URLs = cleanList(c.Sources.Subscribe.URLs)
	c.Sources.Feed.URLs = cleanList(c.Sources.Feed.URLs)
	c.Sources.HotelFofa.Pages = cleanList(c.Sources.HotelFofa.Pages)
	c.Sources.HotelTonkiang.Pages = cleanList(c.Sources.HotelTonkiang.Pages)
	c.Cache.Type = strings.ToLower(strings.TrimSpace(c.Cache.Type))
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	switch c.Cache.Type {
	case "memory", "redis", "sqlite":
	default:
		return errors.New("cache type must be 'memory', 'redis' or 'sqlite'")
	}

	if c.Cache.Type == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	if c.Cache.Type == "sqlite" && c.Cache.SQLite.Path == "" {
		return errors.New("sqlite path cannot be empty when using sqlite cache")
	}

	if c.Update.MinResults < 1 {
		return errors.New("min results must be at least 1")
	}

	if c.Update.TemplateFile == "" {
		return errors.New("template file cannot be empty")
	}

	if c.Probe.Concurrency < 1 {
		return errors.New("probe concurrency must be at least 1")
	}

	if c.Probe.Timeout < 1 {
		return errors.New("probe timeout must be at least 1 second")
	}

	if c.Output.FinalFile == "" {
		return errors.New("final file cannot be empty")
	}

	if c.Output.URLsLimit < 1 {
		return errors.New("urls limit must be at least 1")
	}

	for name, search := range map[string]SearchConfig{"multicast": c.Sources.Multicast, "online_search": c.Sources.OnlineSearch} {
		if search.Enabled && search.QueryURL != "" && strings.Count(search.QueryURL, "%s") != 1 {
			return fmt.Errorf("%s query url must contain exactly one %%s", name)
		}
	}

	return nil
}
