// Package config loads the allocation engine configuration from defaults, an
// optional TOML file, a .env file and ALLOC_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the top-level configuration.
type Config struct {
	LogLevel  string `toml:"log_level" env:"LOG_LEVEL"`
	LogFormat string `toml:"log_format" env:"LOG_FORMAT"`

	Server ServerConfig `toml:"server" envPrefix:"SERVER_"`
	Store  StoreConfig  `toml:"store" envPrefix:"STORE_"`
	Redis  RedisConfig  `toml:"redis" envPrefix:"REDIS_"`
	Engine EngineConfig `toml:"engine" envPrefix:"ENGINE_"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port            int      `toml:"port" env:"PORT"`
	OperatorKey     string   `toml:"operator_key" env:"OPERATOR_KEY"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// Addr returns the listen address for the server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// StoreConfig selects and tunes the allocation store.
type StoreConfig struct {
	// Backend is "memory" or "postgres".
	Backend       string   `toml:"backend" env:"BACKEND"`
	PostgresDSN   string   `toml:"postgres_dsn" env:"POSTGRES_DSN"`
	MaxConns      int32    `toml:"max_conns" env:"MAX_CONNS"`
	MinConns      int32    `toml:"min_conns" env:"MIN_CONNS"`
	RunMigrations bool     `toml:"run_migrations" env:"RUN_MIGRATIONS"`
	LockTimeout   Duration `toml:"lock_timeout" env:"LOCK_TIMEOUT"`
}

// RedisConfig configures the optional Redis event publisher.
type RedisConfig struct {
	Enabled       bool   `toml:"enabled" env:"ENABLED"`
	Addr          string `toml:"addr" env:"ADDR"`
	Password      string `toml:"password" env:"PASSWORD"`
	DB            int    `toml:"db" env:"DB"`
	ChannelPrefix string `toml:"channel_prefix" env:"CHANNEL_PREFIX"`
}

// EngineConfig tunes session timing, admission and the sweep loop.
type EngineConfig struct {
	AuctionDuration   Duration `toml:"auction_duration" env:"AUCTION_DURATION"`
	RaffleDuration    Duration `toml:"raffle_duration" env:"RAFFLE_DURATION"`
	BranchCap         int      `toml:"branch_cap" env:"BRANCH_CAP"`
	MaxTotalExtension Duration `toml:"max_total_extension" env:"MAX_TOTAL_EXTENSION"`
	AdmissionRetries  int      `toml:"admission_retries" env:"ADMISSION_RETRIES"`
	RetryBackoff      Duration `toml:"retry_backoff" env:"RETRY_BACKOFF"`
	SweepInterval     Duration `toml:"sweep_interval" env:"SWEEP_INTERVAL"`
	NotifyQueueSize   int      `toml:"notify_queue_size" env:"NOTIFY_QUEUE_SIZE"`
}

// Duration wraps time.Duration so TOML and env values like "30s" or "72h"
// decode directly.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with working values for a local
// in-memory deployment.
func Defaults() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "json",
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: Duration{10 * time.Second},
		},
		Store: StoreConfig{
			Backend:       "memory",
			MaxConns:      10,
			MinConns:      2,
			RunMigrations: true,
			LockTimeout:   Duration{2 * time.Second},
		},
		Redis: RedisConfig{
			Addr:          "localhost:6379",
			ChannelPrefix: "allocation",
		},
		Engine: EngineConfig{
			AuctionDuration:   Duration{72 * time.Hour},
			RaffleDuration:    Duration{72 * time.Hour},
			BranchCap:         2,
			MaxTotalExtension: Duration{7 * 24 * time.Hour},
			AdmissionRetries:  3,
			RetryBackoff:      Duration{25 * time.Millisecond},
			SweepInterval:     Duration{30 * time.Second},
			NotifyQueueSize:   1024,
		},
	}
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
	"fatal": true,
}

// Validate checks the configuration for missing or out-of-range values and
// reports every problem at once.
func (c Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("log_level %q is not one of trace, debug, info, warn, error, fatal", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("log_format %q must be json or text", c.LogFormat))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.ShutdownTimeout.Duration <= 0 {
		errs = append(errs, "server.shutdown_timeout must be positive")
	}

	switch c.Store.Backend {
	case "memory":
	case "postgres":
		if c.Store.PostgresDSN == "" {
			errs = append(errs, "store.postgres_dsn is required for the postgres backend")
		}
		if c.Store.MaxConns <= 0 {
			errs = append(errs, "store.max_conns must be positive")
		}
		if c.Store.MinConns < 0 || c.Store.MinConns > c.Store.MaxConns {
			errs = append(errs, "store.min_conns must be between 0 and store.max_conns")
		}
	default:
		errs = append(errs, fmt.Sprintf("store.backend %q must be memory or postgres", c.Store.Backend))
	}
	if c.Store.LockTimeout.Duration <= 0 {
		errs = append(errs, "store.lock_timeout must be positive")
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, "redis.addr is required when redis is enabled")
	}

	e := c.Engine
	if e.AuctionDuration.Duration <= 0 {
		errs = append(errs, "engine.auction_duration must be positive")
	}
	if e.RaffleDuration.Duration <= 0 {
		errs = append(errs, "engine.raffle_duration must be positive")
	}
	if e.BranchCap < 1 {
		errs = append(errs, "engine.branch_cap must be at least 1")
	}
	if e.MaxTotalExtension.Duration < 0 {
		errs = append(errs, "engine.max_total_extension must not be negative")
	}
	if e.AdmissionRetries < 0 {
		errs = append(errs, "engine.admission_retries must not be negative")
	}
	if e.RetryBackoff.Duration < 0 {
		errs = append(errs, "engine.retry_backoff must not be negative")
	}
	if e.SweepInterval.Duration <= 0 {
		errs = append(errs, "engine.sweep_interval must be positive")
	}
	if e.NotifyQueueSize < 1 {
		errs = append(errs, "engine.notify_queue_size must be at least 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
