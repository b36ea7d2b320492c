package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	// EnvPrefix prefixes every environment override, e.g. ALLOC_SERVER_PORT.
	EnvPrefix = "ALLOC_"

	// ConfigFileEnv names the TOML file to load when Load is called with an
	// empty path.
	ConfigFileEnv = "ALLOC_CONFIG_FILE"
)

// Load builds the configuration: defaults, then the TOML file at path (or
// ALLOC_CONFIG_FILE when path is empty), then ALLOC_* environment variables,
// optionally seeded from a .env file. The result is not validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv(ConfigFileEnv)
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	return &cfg, nil
}
