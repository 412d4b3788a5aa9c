// Package config loads service configuration from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
)

// Identity modes.
const (
	IdentityHeader  = "header"
	IdentitySession = "session"
)

// Server configures the HTTP listener.
type Server struct {
	Addr         string        `yaml:"addr"`
	TLSCert      string        `yaml:"tlsCert"`
	TLSKey       string        `yaml:"tlsKey"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

// Store selects and configures the favorites backend.
type Store struct {
	Driver      string `yaml:"driver"`
	DatabaseURL string `yaml:"databaseURL"`
	Migrate     bool   `yaml:"migrate"`
	RedisAddr   string `yaml:"redisAddr"`
	RedisPrefix string `yaml:"redisPrefix"`
	SQLitePath  string `yaml:"sqlitePath"`
}

// Price configures the pricing API client.
type Price struct {
	BaseURL          string        `yaml:"baseURL"`
	APIKey           string        `yaml:"apiKey"`
	MaxResponseBytes int64         `yaml:"maxResponseBytes"`
	Timeout          time.Duration `yaml:"timeout"`
	CacheTTL         time.Duration `yaml:"cacheTTL"`
	CacheMaxItems    int           `yaml:"cacheMaxItems"`
	RatePerSecond    float64       `yaml:"ratePerSecond"`
	Burst            int           `yaml:"burst"`
}

// Identity configures how the caller identity is obtained.
type Identity struct {
	Mode          string `yaml:"mode"`
	Header        string `yaml:"header"`
	SessionCookie string `yaml:"sessionCookie"`
	SessionPrefix string `yaml:"sessionPrefix"`
	RedisAddr     string `yaml:"redisAddr"`
}

// Telemetry configures OpenTelemetry export.
type Telemetry struct {
	ServiceName     string  `yaml:"serviceName"`
	TraceHost       string  `yaml:"traceHost"`
	MetricsEndpoint string  `yaml:"metricsEndpoint"`
	Probability     float64 `yaml:"probability"`
}

// Log configures the logger.
type Log struct {
	Level string `yaml:"level"`
}

// Config is the full service configuration.
type Config struct {
	Server    Server    `yaml:"server"`
	Store     Store     `yaml:"store"`
	Price     Price     `yaml:"price"`
	Identity  Identity  `yaml:"identity"`
	Telemetry Telemetry `yaml:"telemetry"`
	Log       Log       `yaml:"log"`
}

// Default returns a configuration that runs with no external services.
func Default() Config {
	return Config{
		Server: Server{Addr: ":8443", ReadTimeout: 10 * time.Second, WriteTimeout: 30 * time.Second},
		Store:  Store{Driver: DriverMemory, Migrate: true, RedisPrefix: "favorites:", SQLitePath: "favorites.db"},
		Price: Price{
			BaseURL:          "https://api.coingecko.com/api/v3",
			MaxResponseBytes: 5_000,
			Timeout:          10 * time.Second,
			CacheTTL:         30 * time.Second,
			CacheMaxItems:    1_000,
			RatePerSecond:    0.5,
			Burst:            5,
		},
		Identity:  Identity{Mode: IdentityHeader, Header: "X-Caller-Identity", SessionCookie: "session_id", SessionPrefix: "session:"},
		Telemetry: Telemetry{ServiceName: "nftfavorites", Probability: 1.0},
		Log:       Log{Level: "info"},
	}
}

// Load reads YAML config from path. An empty path falls back to config.yaml
// when present, then to defaults. Environment variables override the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate reports inconsistent settings.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("store.databaseURL required for postgres driver")
		}
	case DriverRedis:
		if c.Store.RedisAddr == "" {
			return errors.New("store.redisAddr required for redis driver")
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return errors.New("store.sqlitePath required for sqlite driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	switch c.Identity.Mode {
	case IdentityHeader:
	case IdentitySession:
		if c.Identity.RedisAddr == "" && c.Store.RedisAddr == "" {
			return errors.New("identity.redisAddr required for session mode")
		}
	default:
		return fmt.Errorf("unknown identity mode %q", c.Identity.Mode)
	}
	if (c.Server.TLSCert == "") != (c.Server.TLSKey == "") {
		return errors.New("server.tlsCert and server.tlsKey must be set together")
	}
	if c.Telemetry.Probability < 0 || c.Telemetry.Probability > 1 {
		return fmt.Errorf("telemetry.probability %v outside [0,1]", c.Telemetry.Probability)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	str := map[string]*string{
		"ADDR":                  &cfg.Server.Addr,
		"TLS_CERT":              &cfg.Server.TLSCert,
		"TLS_KEY":               &cfg.Server.TLSKey,
		"STORE_DRIVER":          &cfg.Store.Driver,
		"DATABASE_URL":          &cfg.Store.DatabaseURL,
		"REDIS_ADDR":            &cfg.Store.RedisAddr,
		"SQLITE_PATH":           &cfg.Store.SQLitePath,
		"PRICE_BASE_URL":        &cfg.Price.BaseURL,
		"PRICE_API_KEY":         &cfg.Price.APIKey,
		"IDENTITY_MODE":         &cfg.Identity.Mode,
		"IDENTITY_HEADER":       &cfg.Identity.Header,
		"SESSION_REDIS_ADDR":    &cfg.Identity.RedisAddr,
		"OTEL_HOST":             &cfg.Telemetry.TraceHost,
		"OTEL_METRICS_ENDPOINT": &cfg.Telemetry.MetricsEndpoint,
		"LOG_LEVEL":             &cfg.Log.Level,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	if v := os.Getenv("STORE_MIGRATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("STORE_MIGRATE: %w", err)
		}
		cfg.Store.Migrate = b
	}
	if v := os.Getenv("PRICE_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PRICE_CACHE_TTL: %w", err)
		}
		cfg.Price.CacheTTL = d
	}
	if v := os.Getenv("PRICE_RATE_PER_SECOND"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("PRICE_RATE_PER_SECOND: %w", err)
		}
		cfg.Price.RatePerSecond = f
	}
	return nil
}
