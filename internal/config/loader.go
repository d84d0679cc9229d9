package config

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if ARBITER_CONFIG is set
//  3. env (prefix ARBITER_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("ARBITER_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: ARBITER_ADDR, ARBITER_STORE_CAPACITY, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("ARBITER_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "arbiter_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.StoreCapacity < 0 {
		return nil, errors.New("store_capacity must not be negative")
	}
	return &cfg, nil
}
