// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package learner

import (
	"math"
	"math/rand"
	"sync"
)

// importancePriors seed the first five weights. Remaining weights start at
// small values drawn from the seeded RNG.
var importancePriors = [...]float64{
	FeatureBudget:            0.20,
	FeatureSeasonality:       0.15,
	FeatureWeatherPreference: 0.10,
	FeatureActivityIntensity: 0.12,
	FeatureCulturalImmersion: 0.08,
}

// WeightModel is the shared linear model. One instance serves the whole
// process; every training call across all users mutates the same vector.
// The vector never escapes: callers interact through Score, Update, Reinforce
// and Snapshot only.
type WeightModel struct {
	mu           sync.RWMutex
	weights      []float64
	learningRate float64
}

// NewWeightModel initializes the model with seeded priors for the first five
// features and small RNG-drawn values for the rest. A fixed seed keeps
// initialization reproducible.
func NewWeightModel(cfg Config) *WeightModel {
	rng := rand.New(rand.NewSource(cfg.WeightSeed)) //nolint:gosec // reproducible init, not crypto
	w := make([]float64, FeatureCount)
	for i := range w {
		if i < len(importancePriors) && importancePriors[i] != 0 {
			w[i] = importancePriors[i]
		} else {
			w[i] = rng.Float64() * 0.05
		}
	}
	return &WeightModel{
		weights:      w,
		learningRate: cfg.LearningRate,
	}
}

// RestoreWeights replaces the current vector, used when loading persisted
// state at startup. Vectors of the wrong length are ignored so a schema
// change falls back to fresh initialization.
func (m *WeightModel) RestoreWeights(w []float64) {
	if len(w) != FeatureCount {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy(m.weights, w)
}

// Score returns the dot product of the feature vector with the current
// weights, clamped to [0,1].
func (m *WeightModel) Score(features []float64) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var dot float64
	n := len(features)
	if n > len(m.weights) {
		n = len(m.weights)
	}
	for i := 0; i < n; i++ {
		dot += m.weights[i] * features[i]
	}
	return clamp01(dot)
}

// Update applies one reinforcement step per trip against the given feature
// vector, then renormalizes so absolute weights sum to 1. The signal maps
// satisfaction 1..5 onto -1..1; a 3 is neutral and moves nothing.
func (m *WeightModel) Update(features []float64, trips []CompletedTrip) {
	if len(trips) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range trips {
		signal := (float64(t.Satisfaction) - 3) / 2
		m.step(features, signal)
	}
	m.renormalizeLocked()
}

// Reinforce applies a single step with an explicit signal in [-1,1], then
// renormalizes. Negative recommendation feedback routes through here.
func (m *WeightModel) Reinforce(features []float64, signal float64) {
	if signal == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.step(features, signal)
	m.renormalizeLocked()
}

func (m *WeightModel) step(features []float64, signal float64) {
	n := len(features)
	if n > len(m.weights) {
		n = len(m.weights)
	}
	for i := 0; i < n; i++ {
		m.weights[i] += m.learningRate * signal * features[i]
	}
}

// renormalizeLocked divides every weight by the sum of absolute weights.
// No-op when the sum is zero. Caller must hold mu.
func (m *WeightModel) renormalizeLocked() {
	var sum float64
	for _, w := range m.weights {
		sum += math.Abs(w)
	}
	if sum == 0 {
		return
	}
	for i := range m.weights {
		m.weights[i] /= sum
	}
}

// Snapshot returns a copy of the current weight vector.
func (m *WeightModel) Snapshot() []float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]float64, len(m.weights))
	copy(out, m.weights)
	return out
}
