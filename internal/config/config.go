// Package config manages environment variables.
//
// It reads variables from the process environment (and from a `.env` file
// when present), loads them into structured Go types and validates that
// required values are present so they can be reused across the application
// runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (query, cache, jobs, events, observability).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it gets loaded into the
	// process env before any of the code below reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the CONSULTAS_ prefix. After the prefix is
	removed the key is lowercased and every "__" becomes a "." so that nested
	struct fields can be addressed:

	  CONSULTAS_SERVER__PORT           -> server.port        -> Config.Server.Port
	  CONSULTAS_DATABASE__SSL_MODE     -> database.ssl_mode  -> Config.Database.SSLMode
	  CONSULTAS_OBSERVABILITY__LOGGING__LEVEL -> observability.logging.level
*/

// EnvPrefix is the prefix every configuration variable must carry.
const EnvPrefix = "CONSULTAS_"

// ServiceName identifies this service in logs, traces and cache keys.
const ServiceName = "consultas-api"

// Config is the root configuration object for the application.
//
// Query, Cache, Jobs, Events and Observability are pointers because they are optional.
// When they are not provided, defaults are injected in LoadConfig.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Query         *QueryConfig         `koanf:"query"`
	Cache         *CacheConfig         `koanf:"cache"`
	Jobs          *JobsConfig          `koanf:"jobs"`
	Events        *EventsConfig        `koanf:"events"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// PublicURL is the externally visible base URL used to build the absolute
	// links of the consultas catalog. Empty means "derive from the request".
	PublicURL string `koanf:"public_url" validate:"omitempty,url"`

	// RateLimit is the number of requests per second allowed per client IP.
	// Zero disables the limiter.
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`
	RateBurst int     `koanf:"rate_burst" validate:"gte=0"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`

	// AutoMigrate runs the embedded migrations before `serve` starts listening.
	AutoMigrate bool `koanf:"auto_migrate"`
}

// RedisConfig contains Redis connection details.
// Address is typically "host:port".
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// QueryConfig bounds every facade query.
type QueryConfig struct {
	// Timeout is applied to each storage round-trip. Parsed from strings like "5s".
	Timeout time.Duration `koanf:"timeout" validate:"min=100ms"`
}

// CacheConfig controls the Redis read-through cache in front of the facade.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl" validate:"min=1s"`
	Prefix  string        `koanf:"prefix" validate:"required"`
}

// JobsConfig controls the asynq worker that warms the cache.
type JobsConfig struct {
	Enabled     bool `koanf:"enabled"`
	Concurrency int  `koanf:"concurrency" validate:"min=1"`
}

// EventsConfig controls the Kafka publisher for order events.
// An empty Brokers list disables publishing.
type EventsConfig struct {
	Brokers []string `koanf:"brokers" validate:"dive,hostname_port"`
	Topic   string   `koanf:"topic" validate:"required"`
}

// Enabled reports whether any broker is configured.
func (c *EventsConfig) Enabled() bool {
	return c != nil && len(c.Brokers) > 0
}

// DefaultQueryConfig returns the default per-query bounds.
func DefaultQueryConfig() *QueryConfig {
	return &QueryConfig{Timeout: 5 * time.Second}
}

// DefaultCacheConfig returns the default cache settings.
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Enabled: true,
		TTL:     time.Minute,
		Prefix:  "consultas",
	}
}

// DefaultJobsConfig returns the default worker settings.
func DefaultJobsConfig() *JobsConfig {
	return &JobsConfig{
		Enabled:     true,
		Concurrency: 2,
	}
}

// DefaultEventsConfig returns the default (disabled) publisher settings.
func DefaultEventsConfig() *EventsConfig {
	return &EventsConfig{Topic: "pedidos.registrados"}
}

// envKey turns CONSULTAS_DATABASE__SSL_MODE into database.ssl_mode.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// splitList splits a comma separated value, dropping blank items so that
// an empty variable yields an empty list.
func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// LoadConfig loads configuration from environment variables, unmarshals it into
// Config structs, validates it, applies defaults, and returns the resulting config.
//
// Behavior summary:
//   - Loads env vars with prefix CONSULTAS_
//   - Converts env keys into koanf keys using "." nesting
//   - Unmarshals into Config
//   - Starts optional blocks from their defaults
//   - Validates required config blocks/fields (validator tags + custom rules)
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	// Comma separated lists (CORS origins, health checks, brokers) are split
	// here so they unmarshal into []string.
	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		mapped := envKey(key)
		if strings.HasSuffix(mapped, "cors_allowed_origins") || strings.HasSuffix(mapped, "checks") ||
			strings.HasSuffix(mapped, "brokers") {
			return mapped, splitList(value)
		}
		return mapped, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	// Optional blocks start from their defaults; env values decode on top of
	// them, so setting a single CONSULTAS_CACHE__TTL keeps the default prefix.
	mainConfig := &Config{
		Query:         DefaultQueryConfig(),
		Cache:         DefaultCacheConfig(),
		Jobs:          DefaultJobsConfig(),
		Events:        DefaultEventsConfig(),
		Observability: DefaultObservabilityConfig(),
	}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	// Service name and environment are always derived, never configured.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
