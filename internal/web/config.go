package web

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/serdal-zonemap/internal/config"
	import_pkg "github.com/serdal-zonemap/internal/import"
)

// Config represents the web server configuration
type Config struct {
	Server   ServerConfig     `json:"server"`
	Data     import_pkg.Paths `json:"data"`
	Cache    CacheConfig      `json:"cache"`
	Database DatabaseConfig   `json:"database"`
	Features FeatureConfig    `json:"features"`
	Logging  LoggingConfig    `json:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port           int      `json:"port"`
	Host           string   `json:"host"`
	AllowedOrigins []string `json:"allowed_origins"`
	StaticDir      string   `json:"static_dir"`
}

// CacheConfig contains Redis render-cache settings; an empty address disables caching
type CacheConfig struct {
	Addr       string `json:"addr"`
	Password   string `json:"password"`
	DB         int    `json:"db"`
	TTLSeconds int    `json:"ttl_seconds"`
}

// TTL returns the cache entry lifetime
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// DatabaseConfig selects Postgres as the recommendation source when enabled
type DatabaseConfig struct {
	Enabled bool `json:"enabled"`
}

// FeatureConfig contains feature toggles
type FeatureConfig struct {
	ExportEnabled  bool `json:"export_enabled"`
	SearchEnabled  bool `json:"search_enabled"`
	MetricsEnabled bool `json:"metrics_enabled"`
}

// LoggingConfig selects the log format and level
type LoggingConfig struct {
	Env   string `json:"env"`
	Level string `json:"level"`
}

// LoadConfig loads configuration from a JSON file on top of the defaults
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      8080,
			Host:      "0.0.0.0",
			StaticDir: "internal/web/static",
		},
		Data: import_pkg.Paths{
			Boundaries:      "data/dubai.geojson",
			NameProperty:    import_pkg.DefaultNameProperty,
			Recommendations: "data/batch_tagged_output.csv",
			Patterns:        "data/pattern_buckets.csv",
			Aliases:         "data/zone_aliases.csv",
		},
		Cache: CacheConfig{
			TTLSeconds: 900,
		},
		Features: FeatureConfig{
			ExportEnabled:  true,
			SearchEnabled:  true,
			MetricsEnabled: true,
		},
		Logging: LoggingConfig{
			Env:   "prod",
			Level: "info",
		},
	}
}

// ApplyEnv overrides configuration values with environment variables
func (c *Config) ApplyEnv() {
	c.Server.Host = config.GetEnv("WEB_HOST", c.Server.Host)
	c.Server.Port = config.GetEnvInt("WEB_PORT", c.Server.Port)
	c.Server.StaticDir = config.GetEnv("WEB_STATIC_DIR", c.Server.StaticDir)
	if origins := config.GetEnv("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		c.Server.AllowedOrigins = strings.Split(origins, ",")
	}

	c.Data.Boundaries = config.GetEnv("ZONES_GEOJSON", c.Data.Boundaries)
	c.Data.NameProperty = config.GetEnv("ZONES_NAME_PROPERTY", c.Data.NameProperty)
	c.Data.Recommendations = config.GetEnv("RECOMMENDATIONS_CSV", c.Data.Recommendations)
	c.Data.Patterns = config.GetEnv("PATTERN_BUCKETS_CSV", c.Data.Patterns)
	c.Data.Aliases = config.GetEnv("ZONE_ALIASES_CSV", c.Data.Aliases)

	c.Cache.Addr = config.GetEnv("REDIS_ADDR", c.Cache.Addr)
	c.Cache.Password = config.GetEnv("REDIS_PASSWORD", c.Cache.Password)
	c.Cache.DB = config.GetEnvInt("REDIS_DB", c.Cache.DB)
	c.Cache.TTLSeconds = config.GetEnvInt("CACHE_TTL_SECONDS", c.Cache.TTLSeconds)

	c.Database.Enabled = config.GetEnv("RECOMMENDATIONS_SOURCE", "") == "postgres" || c.Database.Enabled

	c.Features.ExportEnabled = config.GetEnvBool("ENABLE_EXPORT", c.Features.ExportEnabled)
	c.Features.SearchEnabled = config.GetEnvBool("ENABLE_SEARCH", c.Features.SearchEnabled)
	c.Features.MetricsEnabled = config.GetEnvBool("ENABLE_METRICS", c.Features.MetricsEnabled)

	c.Logging.Env = config.GetEnv("APP_ENV", c.Logging.Env)
	c.Logging.Level = config.GetEnv("LOG_LEVEL", c.Logging.Level)
}
