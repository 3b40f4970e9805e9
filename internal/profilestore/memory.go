// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package profilestore

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/wayfinder/internal/learner"
)

// MemoryStore is an in-memory learner.ProfileStore for tests and ephemeral
// deployments. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*learner.UserProfile
	weights  []float64
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]*learner.UserProfile)}
}

// Get returns a copy of the stored profile or learner.ErrProfileNotFound.
func (s *MemoryStore) Get(_ context.Context, userID string) (*learner.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, learner.ErrProfileNotFound
	}
	return p.Clone(), nil
}

// Upsert stores a copy of the profile.
func (s *MemoryStore) Upsert(_ context.Context, p *learner.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p.Clone()
	return nil
}

// List returns copies of all stored profiles, ordered by user id.
func (s *MemoryStore) List(_ context.Context) ([]*learner.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*learner.UserProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// SaveWeights stores a copy of the weight vector.
func (s *MemoryStore) SaveWeights(_ context.Context, weights []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weights = append([]float64(nil), weights...)
	return nil
}

// LoadWeights returns a copy of the stored weight vector or nil.
func (s *MemoryStore) LoadWeights(_ context.Context) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.weights == nil {
		return nil, nil
	}
	return append([]float64(nil), s.weights...), nil
}
