// Copyright (c) 2025 Daniel Nugroho
// Licensed under the MIT License

// Package config loads tool configuration from an optional YAML file and
// SHAPECAD_ environment variables, layered over built-in defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/dnugroho/shapecad/pkg/crs"
	"github.com/dnugroho/shapecad/pkg/dxf"
	"github.com/dnugroho/shapecad/pkg/geometry"
)

const envPrefix = "SHAPECAD_"

// Config holds the defaults applied when a conversion request leaves an
// option unset.
type Config struct {
	Datum       string  `koanf:"datum"`
	Zone        int     `koanf:"zone"`
	FeatureType string  `koanf:"feature_type"`
	Drawing     Drawing `koanf:"drawing"`
	Log         Log     `koanf:"log"`
}

// Drawing holds output drawing defaults.
type Drawing struct {
	Version string `koanf:"version"`
	Binary  bool   `koanf:"binary"`
}

// Log holds logging defaults.
type Log struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Datum:       "GDA2020",
		Zone:        55,
		FeatureType: "Points",
		Drawing: Drawing{
			Version: "R2018",
			Binary:  false,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration with three layers, highest precedence last:
// built-in defaults, the YAML file at path (skipped when path is empty or
// the file does not exist), then SHAPECAD_ environment variables such as
// SHAPECAD_DATUM or SHAPECAD_LOG_LEVEL.
func Load(path string) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return cfg, fmt.Errorf("loading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	// Env keys map underscores to nesting except for field-internal
	// underscores, which are resolved against the known key set.
	envLookup := map[string]string{
		"feature_type":    "feature_type",
		"drawing_version": "drawing.version",
		"drawing_binary":  "drawing.binary",
		"log_level":       "log.level",
		"log_format":      "log.format",
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			if koanfKey, ok := envLookup[key]; ok {
				return koanfKey, value
			}
			return strings.ReplaceAll(key, "_", "."), value
		},
	}), nil); err != nil {
		return cfg, fmt.Errorf("loading env vars: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that every configured value is usable as a conversion
// default.
func (c Config) Validate() error {
	if _, err := crs.ParseDatum(c.Datum); err != nil {
		return fmt.Errorf("config: datum: %w", err)
	}
	if c.Zone != 0 && (c.Zone < crs.MinZone || c.Zone > crs.MaxZone) {
		return fmt.Errorf("config: zone %d outside %d-%d", c.Zone, crs.MinZone, crs.MaxZone)
	}
	if _, err := geometry.ParseCategory(c.FeatureType); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := dxf.ParseVersion(c.Drawing.Version); err != nil {
		return fmt.Errorf("config: drawing version: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: log format %q, want text or json", c.Log.Format)
	}
	return nil
}
