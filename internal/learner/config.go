// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package learner

import (
	"fmt"
	"time"
)

// Config controls the learning engine. Use DefaultConfig and override
// selectively; the zero value does not validate.
type Config struct {
	// LearningRate scales each reinforcement step.
	// Default: 0.01
	LearningRate float64 `json:"learning_rate" koanf:"learning_rate"`

	// WeightSeed seeds the RNG that initializes non-prior weights.
	// Fixed seed keeps weight initialization reproducible across restarts.
	// Default: 42
	WeightSeed int64 `json:"weight_seed" koanf:"weight_seed"`

	// SimilarityThreshold is the minimum cosine similarity for peer users.
	// Default: 0.7
	SimilarityThreshold float64 `json:"similarity_threshold" koanf:"similarity_threshold"`

	// MaxPeers caps the peer list returned by the similarity index.
	// Default: 10
	MaxPeers int `json:"max_peers" koanf:"max_peers"`

	// EnjoymentThreshold is the minimum predicted enjoyment for an activity
	// recommendation to be kept.
	// Default: 0.6
	EnjoymentThreshold float64 `json:"enjoyment_threshold" koanf:"enjoyment_threshold"`

	// MaxActivities caps the ranked activity list.
	// Default: 10
	MaxActivities int `json:"max_activities" koanf:"max_activities"`

	// WeatherWeight is the weather share of the destination score blend.
	// The profile-driven score carries the remaining share.
	// Default: 0.3
	WeatherWeight float64 `json:"weather_weight" koanf:"weather_weight"`

	// WeatherTimeout bounds each weather lookup during recommendation.
	// Default: 2s
	WeatherTimeout time.Duration `json:"weather_timeout" koanf:"weather_timeout"`

	// ReferenceBudget scales the budget feature and anchors the default
	// recommendation for unknown users.
	// Default: 10000
	ReferenceBudget float64 `json:"reference_budget" koanf:"reference_budget"`

	// StabilityWindow is how many recent behavior events feed the
	// preference-stability feature.
	// Default: 50
	StabilityWindow int `json:"stability_window" koanf:"stability_window"`
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		LearningRate:        0.01,
		WeightSeed:          42,
		SimilarityThreshold: 0.7,
		MaxPeers:            10,
		EnjoymentThreshold:  0.6,
		MaxActivities:       10,
		WeatherWeight:       0.3,
		WeatherTimeout:      2 * time.Second,
		ReferenceBudget:     10000,
		StabilityWindow:     50,
	}
}

// Validate checks configuration bounds.
func (c Config) Validate() error {
	if c.LearningRate <= 0 || c.LearningRate > 1 {
		return fmt.Errorf("learning_rate must be in (0,1], got %v", c.LearningRate)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold >= 1 {
		return fmt.Errorf("similarity_threshold must be in [0,1), got %v", c.SimilarityThreshold)
	}
	if c.MaxPeers <= 0 {
		return fmt.Errorf("max_peers must be positive, got %d", c.MaxPeers)
	}
	if c.EnjoymentThreshold < 0 || c.EnjoymentThreshold >= 1 {
		return fmt.Errorf("enjoyment_threshold must be in [0,1), got %v", c.EnjoymentThreshold)
	}
	if c.MaxActivities <= 0 {
		return fmt.Errorf("max_activities must be positive, got %d", c.MaxActivities)
	}
	if c.WeatherWeight < 0 || c.WeatherWeight > 1 {
		return fmt.Errorf("weather_weight must be in [0,1], got %v", c.WeatherWeight)
	}
	if c.WeatherTimeout <= 0 {
		return fmt.Errorf("weather_timeout must be positive, got %v", c.WeatherTimeout)
	}
	if c.ReferenceBudget <= 0 {
		return fmt.Errorf("reference_budget must be positive, got %v", c.ReferenceBudget)
	}
	if c.StabilityWindow <= 0 {
		return fmt.Errorf("stability_window must be positive, got %d", c.StabilityWindow)
	}
	return nil
}
