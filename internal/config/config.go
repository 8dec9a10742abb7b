package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the CLI configuration loaded from flags, environment variables and .env files.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	LogLevel string `mapstructure:"log_level"`

	AppID              string `mapstructure:"app_id"`
	Service            string `mapstructure:"service"`
	APIVersion         string `mapstructure:"api_version"`
	BaseURL            string `mapstructure:"base_url"`
	CacheOK            bool   `mapstructure:"cache_ok"`
	UseProxy           bool   `mapstructure:"use_proxy"`
	FullRender         bool   `mapstructure:"full_render"`
	MaxCacheAge        int    `mapstructure:"max_cache_age"`
	AcceptLang         string `mapstructure:"accept_lang"`
	HTMLElements       string `mapstructure:"html_elements"`
	HTTPTimeoutSeconds int64  `mapstructure:"http_timeout_seconds"`

	StorageType           string        `mapstructure:"storage_type"`
	BBoltPath             string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds     int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds int64         `mapstructure:"storage_cleanup_interval_seconds"`
	PublishersFile        string        `mapstructure:"publishers_file"`
	MetricsFile           string        `mapstructure:"metrics_file"`
	HTTPTimeout           time.Duration `mapstructure:"-"`
	StorageTTL            time.Duration `mapstructure:"-"`
	StorageCleanup        time.Duration `mapstructure:"-"`
}

const envPrefix = "OGIO"

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"app-id":        "app_id",
	"service":       "service",
	"api-version":   "api_version",
	"base-url":      "base_url",
	"cache-ok":      "cache_ok",
	"use-proxy":     "use_proxy",
	"full-render":   "full_render",
	"max-cache-age": "max_cache_age",
	"accept-lang":   "accept_lang",
	"html-elements": "html_elements",
	"log-level":     "log_level",
	"storage-type":  "storage_type",
	"bbolt-path":    "bbolt_path",
	"publishers":    "publishers_file",
	"metrics-file":  "metrics_file",
}

// RegisterFlags declares the flags Load knows how to bind.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("app-id", "", "OpenGraph.io app id")
	fs.String("service", "site", "service mode: site, extract or scrape")
	fs.String("api-version", "1.1", "API version path segment")
	fs.String("base-url", "https://opengraph.io", "API base URL")
	fs.Bool("cache-ok", true, "allow cached answers")
	fs.Bool("use-proxy", false, "fetch the target through the service proxy")
	fs.Bool("full-render", false, "render JavaScript before extraction")
	fs.Int("max-cache-age", 0, "max cached answer age in seconds (0 = service default)")
	fs.String("accept-lang", "", "Accept-Language used upstream")
	fs.String("html-elements", "", "comma separated tags for the extract service")
	fs.String("log-level", "info", "debug, info, warn or error")
	fs.String("storage-type", "none", "lookup archive: none or bbolt")
	fs.String("bbolt-path", "./data/lookups.db", "bbolt archive path")
	fs.String("publishers", "", "publishers YAML/JSON file")
	fs.String("metrics-file", "", "write Prometheus textfile metrics here")
}

// Load reads configuration from .env, environment variables and the given flags.
// Flags win over environment variables, which win over defaults. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "ogio")
	v.SetDefault("log_level", "info")
	v.SetDefault("app_id", "")
	v.SetDefault("service", "site")
	v.SetDefault("api_version", "1.1")
	v.SetDefault("base_url", "https://opengraph.io")
	v.SetDefault("cache_ok", true)
	v.SetDefault("use_proxy", false)
	v.SetDefault("full_render", false)
	v.SetDefault("max_cache_age", 0)
	v.SetDefault("accept_lang", "")
	v.SetDefault("html_elements", "")
	v.SetDefault("http_timeout_seconds", 30)
	v.SetDefault("storage_type", "none")
	v.SetDefault("bbolt_path", "./data/lookups.db")
	v.SetDefault("storage_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))
	v.SetDefault("publishers_file", "")
	v.SetDefault("metrics_file", "")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if fs != nil {
		for flagName, key := range flagKeys {
			if f := fs.Lookup(flagName); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", flagName, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Service = strings.ToLower(strings.TrimSpace(cfg.Service))
	cfg.StorageType = strings.ToLower(strings.TrimSpace(cfg.StorageType))

	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanup = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}
