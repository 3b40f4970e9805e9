// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix scopes which environment variables the loader reads.
const envPrefix = "WAYFINDER_"

// Load builds the configuration from three layers, lowest precedence first:
// built-in defaults, an optional YAML file, environment variables.
//
// Environment variables map section and key with underscores:
// WAYFINDER_SERVER_PORT -> server.port, WAYFINDER_LOGGING_LEVEL ->
// logging.level, WAYFINDER_WEATHER_BASE_URL -> weather.base_url.
func Load() (*Config, error) {
	return load(FindConfigFile())
}

// LoadFile is Load with an explicit config file path. Empty path skips the
// file layer.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}
	return cfg, nil
}

// Watch invokes onChange whenever the config file changes on disk. Changes
// do not apply to the running process; callers typically log a restart hint.
func Watch(path string, onChange func()) error {
	return file.Provider(path).Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		onChange()
	})
}

// FindConfigFile returns the explicit path from WAYFINDER_CONFIG or the first
// default path that exists. Empty when no config file is present.
func FindConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sections are the top-level koanf keys environment variables map onto.
var sections = []string{"server", "storage", "logging", "learner", "weather", "ingest"}

// envTransform converts WAYFINDER_SECTION_SOME_KEY to section.some_key.
// The first underscore-delimited token selects the section; the rest joins
// back into the key, so multi-word keys keep their underscores.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	for _, section := range sections {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	// unknown section: ignore by returning an unused key
	return ""
}
