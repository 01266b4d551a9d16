// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	DB          DBConfig          `mapstructure:"db"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Fetch       FetchConfig       `mapstructure:"fetch"`
	Crawl       CrawlConfig       `mapstructure:"crawl"`
	Adzuna      AdzunaConfig      `mapstructure:"adzuna"`
	Aggregators AggregatorsConfig `mapstructure:"aggregators"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig controls access to the relational database.
type DBConfig struct {
	DSN      string `mapstructure:"dsn"`
	MaxConns int    `mapstructure:"max_conns"`
	MinConns int    `mapstructure:"min_conns"`
}

// RedisConfig enables the fetched-page cache when a URL is set.
type RedisConfig struct {
	URL        string `mapstructure:"url"`
	TTLMinutes int    `mapstructure:"ttl_minutes"`
}

// FetchConfig governs the two-tier fetcher.
type FetchConfig struct {
	UserAgent       string `mapstructure:"user_agent"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
	MinHTMLBytes    int    `mapstructure:"min_html_bytes"`
	HeadlessEnabled bool   `mapstructure:"headless_enabled"`
	NavTimeoutSec   int    `mapstructure:"nav_timeout_seconds"`
}

// CrawlConfig governs the orchestrator and per-host politeness.
type CrawlConfig struct {
	IntervalHours int     `mapstructure:"interval_hours"`
	HostQPS       float64 `mapstructure:"host_qps"`
	HostBurst     int     `mapstructure:"host_burst"`
}

// AdzunaConfig holds the paid search API credentials. Empty credentials
// degrade the connector to a warned no-op.
type AdzunaConfig struct {
	AppID          string `mapstructure:"app_id"`
	AppKey         string `mapstructure:"app_key"`
	What           string `mapstructure:"what"`
	ResultsPerPage int    `mapstructure:"results_per_page"`
}

// AggregatorsConfig toggles the free connectors.
type AggregatorsConfig struct {
	RemotiveEnabled bool `mapstructure:"remotive_enabled"`
	TramposEnabled  bool `mapstructure:"trampos_enabled"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INGESTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Every key needs an entry, even when the default is empty: AutomaticEnv
	// only feeds Unmarshal for keys viper already knows about.
	v.SetDefault("server.port", 8080)
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_conns", 8)
	v.SetDefault("db.min_conns", 1)
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.ttl_minutes", 30)
	v.SetDefault("fetch.user_agent", "")
	v.SetDefault("fetch.timeout_seconds", 15)
	v.SetDefault("fetch.min_html_bytes", 1024)
	v.SetDefault("fetch.headless_enabled", true)
	v.SetDefault("fetch.nav_timeout_seconds", 45)
	v.SetDefault("crawl.interval_hours", 24)
	v.SetDefault("crawl.host_qps", 1)
	v.SetDefault("crawl.host_burst", 2)
	v.SetDefault("adzuna.app_id", "")
	v.SetDefault("adzuna.app_key", "")
	v.SetDefault("adzuna.what", "")
	v.SetDefault("adzuna.results_per_page", 50)
	v.SetDefault("aggregators.remotive_enabled", true)
	v.SetDefault("aggregators.trampos_enabled", true)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be > 0")
	}
	if c.Fetch.MinHTMLBytes <= 0 {
		return fmt.Errorf("fetch.min_html_bytes must be > 0")
	}
	if c.Crawl.IntervalHours <= 0 {
		return fmt.Errorf("crawl.interval_hours must be > 0")
	}
	if c.Crawl.HostQPS <= 0 {
		return fmt.Errorf("crawl.host_qps must be > 0")
	}
	return nil
}

// FetchTimeout converts the configured timeout into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// CrawlInterval converts the configured crawl cadence into a duration.
func (c Config) CrawlInterval() time.Duration {
	return time.Duration(c.Crawl.IntervalHours) * time.Hour
}

// RedisTTL converts the page-cache TTL into a duration.
func (c Config) RedisTTL() time.Duration {
	return time.Duration(c.Redis.TTLMinutes) * time.Minute
}
