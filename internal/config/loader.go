package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if SGM_CONFIG is set
//  3. env (prefix SGM_), with a .env file loaded first if present
func Load(_ context.Context) (*Config, error) {
	// A .env in the working directory feeds the env provider below.
	_ = godotenv.Load()

	k := koanf.New(".")

	if path := os.Getenv("SGM_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: SGM_ADDR, SGM_MONGODB_URI, SGM_DAYS_BACK, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("SGM_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "sgm_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.StoreBackend != StoreMongo && c.StoreBackend != StoreMemory:
		return fmt.Errorf("%w: unknown store backend %q", ErrInvalidConfig, c.StoreBackend)
	case c.StoreBackend == StoreMongo && c.MongoURI == "":
		return fmt.Errorf("%w: mongodb_uri required for the mongo backend", ErrInvalidConfig)
	case c.DaysBack <= 0:
		return fmt.Errorf("%w: days_back must be positive", ErrInvalidConfig)
	case c.FetchLimit <= 0:
		return fmt.Errorf("%w: fetch_limit must be positive", ErrInvalidConfig)
	case c.MaxListLimit <= 0:
		return fmt.Errorf("%w: max_list_limit must be positive", ErrInvalidConfig)
	case c.RunInterval < 0:
		return fmt.Errorf("%w: run_interval must not be negative", ErrInvalidConfig)
	}
	return nil
}
