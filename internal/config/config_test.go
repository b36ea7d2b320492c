package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeTOML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "allocation.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults_AreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "memory", cfg.Store.Backend)
	require.Equal(t, 2, cfg.Engine.BranchCap)
	require.Equal(t, 72*time.Hour, cfg.Engine.AuctionDuration.Duration)
	require.Equal(t, ":8080", cfg.Server.Addr())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeTOML(t, `
log_level = "debug"

[server]
port = 9090
operator_key = "from-file"

[engine]
auction_duration = "48h"
branch_cap = 3
sweep_interval = "5s"
`)
	t.Setenv("ALLOC_SERVER_OPERATOR_KEY", "from-env")
	t.Setenv("ALLOC_ENGINE_RETRY_BACKOFF", "100ms")
	t.Setenv("ALLOC_STORE_BACKEND", "postgres")
	t.Setenv("ALLOC_STORE_POSTGRES_DSN", "postgres://localhost/alloc")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "from-env", cfg.Server.OperatorKey)
	require.Equal(t, 48*time.Hour, cfg.Engine.AuctionDuration.Duration)
	require.Equal(t, 3, cfg.Engine.BranchCap)
	require.Equal(t, 5*time.Second, cfg.Engine.SweepInterval.Duration)
	require.Equal(t, 100*time.Millisecond, cfg.Engine.RetryBackoff.Duration)
	require.Equal(t, "postgres", cfg.Store.Backend)
	require.Equal(t, "postgres://localhost/alloc", cfg.Store.PostgresDSN)

	// untouched values keep their defaults
	require.Equal(t, 72*time.Hour, cfg.Engine.RaffleDuration.Duration)
	require.Equal(t, int32(10), cfg.Store.MaxConns)
}

func TestLoad_PathFromEnvironment(t *testing.T) {
	path := writeTOML(t, "[redis]\nenabled = true\naddr = \"cache:6379\"\n")
	t.Setenv(ConfigFileEnv, path)

	cfg, err := Load("")
	require.NoError(t, err)
	require.True(t, cfg.Redis.Enabled)
	require.Equal(t, "cache:6379", cfg.Redis.Addr)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing_file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		require.Error(t, err)
	})

	t.Run("bad_duration_in_file", func(t *testing.T) {
		path := writeTOML(t, "[engine]\nsweep_interval = \"soon\"\n")
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("bad_env_value", func(t *testing.T) {
		t.Setenv("ALLOC_ENGINE_BRANCH_CAP", "two")
		_, err := Load("")
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"bad_log_level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"bad_log_format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"port_out_of_range", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"unknown_backend", func(c *Config) { c.Store.Backend = "mongo" }, "store.backend"},
		{"postgres_without_dsn", func(c *Config) { c.Store.Backend = "postgres" }, "store.postgres_dsn"},
		{"redis_without_addr", func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }, "redis.addr"},
		{"zero_branch_cap", func(c *Config) { c.Engine.BranchCap = 0 }, "engine.branch_cap"},
		{"zero_sweep_interval", func(c *Config) { c.Engine.SweepInterval = Duration{} }, "engine.sweep_interval"},
		{"negative_retries", func(c *Config) { c.Engine.AdmissionRetries = -1 }, "engine.admission_retries"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestDuration_Text(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte(" 90s ")))
	require.Equal(t, 90*time.Second, d.Duration)

	out, err := d.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "1m30s", string(out))

	require.Error(t, d.UnmarshalText([]byte("ninety")))
}
