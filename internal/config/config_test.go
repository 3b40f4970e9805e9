// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
		{"negative rate limit", func(c *Config) { c.Server.RateLimit = -1 }},
		{"bad learning rate", func(c *Config) { c.Learner.LearningRate = 2 }},
		{"bad weather ttl", func(c *Config) { c.Weather.CacheTTL = 0 }},
		{"bad batch size", func(c *Config) { c.Ingest.BatchSize = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wayfinder.yaml")
	yaml := `
server:
  port: 9090
logging:
  level: debug
  format: console
learner:
  learning_rate: 0.02
ingest:
  batch_size: 8
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Learner.LearningRate != 0.02 {
		t.Errorf("learning rate = %v, want 0.02", cfg.Learner.LearningRate)
	}
	if cfg.Ingest.BatchSize != 8 {
		t.Errorf("batch size = %d, want 8", cfg.Ingest.BatchSize)
	}
	// untouched settings keep defaults
	if cfg.Ingest.FlushInterval != 30*time.Second {
		t.Errorf("flush interval = %v, want default 30s", cfg.Ingest.FlushInterval)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wayfinder.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	t.Setenv("WAYFINDER_SERVER_PORT", "7070")
	t.Setenv("WAYFINDER_LOGGING_LEVEL", "warn")
	t.Setenv("WAYFINDER_WEATHER_BASE_URL", "http://weather.local")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want env override 7070", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("level = %q, want warn", cfg.Logging.Level)
	}
	if cfg.Weather.BaseURL != "http://weather.local" {
		t.Errorf("weather base url = %q", cfg.Weather.BaseURL)
	}
}

func TestLoadInvalidFileValueFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wayfinder.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 99999\n"), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected validation failure for out-of-range port")
	}
}

func TestWatchDetectsChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wayfinder.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	changed := make(chan struct{}, 1)
	if err := Watch(path, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	// give the watcher time to arm before the write
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("server:\n  port: 9091\n"), 0o600); err != nil {
		t.Fatalf("rewriting config file: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("change not observed")
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"WAYFINDER_SERVER_PORT", "server.port"},
		{"WAYFINDER_SERVER_READ_TIMEOUT", "server.read_timeout"},
		{"WAYFINDER_WEATHER_BASE_URL", "weather.base_url"},
		{"WAYFINDER_LEARNER_LEARNING_RATE", "learner.learning_rate"},
		{"WAYFINDER_UNKNOWN_THING", ""},
	}
	for _, tt := range tests {
		if got := envTransform(tt.in); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
