// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

// Package config loads layered application configuration: built-in defaults,
// an optional YAML file, then environment variables, each layer overriding
// the previous. Loading validates every section before the config is used.
package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/wayfinder/internal/ingest"
	"github.com/tomtom215/wayfinder/internal/learner"
	"github.com/tomtom215/wayfinder/internal/weather"
)

// ConfigPathEnvVar names the environment variable that points at an explicit
// config file.
const ConfigPathEnvVar = "WAYFINDER_CONFIG"

// DefaultConfigPaths are searched in order when no explicit path is set.
var DefaultConfigPaths = []string{
	"wayfinder.yaml",
	"config/wayfinder.yaml",
	"/etc/wayfinder/config.yaml",
}

// ServerConfig controls the HTTP surface.
type ServerConfig struct {
	// Host is the listen address.
	// Default: 0.0.0.0
	Host string `json:"host" koanf:"host"`

	// Port is the listen port.
	// Default: 8080
	Port int `json:"port" koanf:"port"`

	// ReadTimeout bounds request reads.
	// Default: 10s
	ReadTimeout time.Duration `json:"read_timeout" koanf:"read_timeout"`

	// WriteTimeout bounds response writes.
	// Default: 30s
	WriteTimeout time.Duration `json:"write_timeout" koanf:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 15s
	ShutdownTimeout time.Duration `json:"shutdown_timeout" koanf:"shutdown_timeout"`

	// RateLimit is the per-IP request budget per minute. 0 disables limiting.
	// Default: 300
	RateLimit int `json:"rate_limit" koanf:"rate_limit"`

	// CORSOrigins lists allowed origins. Empty allows none.
	CORSOrigins []string `json:"cors_origins" koanf:"cors_origins"`
}

// StorageConfig controls profile persistence.
type StorageConfig struct {
	// Path is the BadgerDB directory. Empty selects the in-memory store.
	// Default: ./data
	Path string `json:"path" koanf:"path"`

	// SnapshotPath, when set, is imported at startup if the store is empty.
	SnapshotPath string `json:"snapshot_path" koanf:"snapshot_path"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is the minimum level (trace, debug, info, warn, error).
	// Default: info
	Level string `json:"level" koanf:"level"`

	// Format selects "json" or "console" output.
	// Default: json
	Format string `json:"format" koanf:"format"`
}

// Config is the complete application configuration.
type Config struct {
	Server  ServerConfig   `json:"server" koanf:"server"`
	Storage StorageConfig  `json:"storage" koanf:"storage"`
	Logging LoggingConfig  `json:"logging" koanf:"logging"`
	Learner learner.Config `json:"learner" koanf:"learner"`
	Weather weather.Config `json:"weather" koanf:"weather"`
	Ingest  ingest.Config  `json:"ingest" koanf:"ingest"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			RateLimit:       300,
		},
		Storage: StorageConfig{
			Path: "./data",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Learner: learner.DefaultConfig(),
		Weather: weather.DefaultConfig(),
		Ingest:  ingest.DefaultConfig(),
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative, got %d", c.Server.RateLimit)
	}
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of trace, debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q is not one of json, console", c.Logging.Format)
	}
	if err := c.Learner.Validate(); err != nil {
		return fmt.Errorf("learner: %w", err)
	}
	if err := c.Weather.Validate(); err != nil {
		return fmt.Errorf("weather: %w", err)
	}
	if err := c.Ingest.Validate(); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	return nil
}
