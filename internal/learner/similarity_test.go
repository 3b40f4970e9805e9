// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package learner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
)

// fakeLister serves a fixed profile slice.
type fakeLister struct {
	profiles []*UserProfile
	err      error
}

func (f *fakeLister) List(_ context.Context) ([]*UserProfile, error) {
	return f.profiles, f.err
}

func vectorWith(values ...float64) []float64 {
	v := make([]float64, FeatureCount)
	copy(v, values)
	return v
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical vectors", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"zero vectors", []float64{0, 0}, []float64{0, 0}, 0},
		{"one zero vector", []float64{1, 1}, []float64{0, 0}, 0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"length mismatch", []float64{1}, []float64{1, 0}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.IsNaN(got) {
				t.Fatalf("similarity is NaN")
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("similarity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindSimilarMutualPeers(t *testing.T) {
	shared := vectorWith(0.3, 0.5, 0.2, 0.7)
	p1 := &UserProfile{UserID: "u1", LearningVector: shared}
	p2 := &UserProfile{UserID: "u2", LearningVector: append([]float64(nil), shared...)}
	lister := &fakeLister{profiles: []*UserProfile{p1, p2}}
	idx := NewSimilarityIndex(lister, DefaultConfig())

	peersOf1, err := idx.FindSimilar(context.Background(), p1)
	if err != nil {
		t.Fatalf("FindSimilar: %v", err)
	}
	if len(peersOf1) != 1 || peersOf1[0].UserID != "u2" {
		t.Fatalf("peers of u1 = %v, want [u2]", peersOf1)
	}

	peersOf2, err := idx.FindSimilar(context.Background(), p2)
	if err != nil {
		t.Fatalf("FindSimilar: %v", err)
	}
	if len(peersOf2) != 1 || peersOf2[0].UserID != "u1" {
		t.Fatalf("peers of u2 = %v, want [u1]", peersOf2)
	}
}

func TestFindSimilarThreshold(t *testing.T) {
	query := &UserProfile{UserID: "q", LearningVector: vectorWith(1, 0)}
	dissimilar := &UserProfile{UserID: "d", LearningVector: vectorWith(0, 1)}
	lister := &fakeLister{profiles: []*UserProfile{query, dissimilar}}
	idx := NewSimilarityIndex(lister, DefaultConfig())

	peers, err := idx.FindSimilar(context.Background(), query)
	if err != nil {
		t.Fatalf("FindSimilar: %v", err)
	}
	if len(peers) != 0 {
		t.Errorf("expected no peers below threshold, got %d", len(peers))
	}
}

func TestFindSimilarCapsPeerCount(t *testing.T) {
	query := &UserProfile{UserID: "q", LearningVector: vectorWith(1, 1, 1)}
	profiles := []*UserProfile{query}
	for i := 0; i < 15; i++ {
		profiles = append(profiles, &UserProfile{
			UserID:         fmt.Sprintf("p%d", i),
			LearningVector: vectorWith(1, 1, 1),
		})
	}
	idx := NewSimilarityIndex(&fakeLister{profiles: profiles}, DefaultConfig())

	peers, err := idx.FindSimilar(context.Background(), query)
	if err != nil {
		t.Fatalf("FindSimilar: %v", err)
	}
	if len(peers) != 10 {
		t.Errorf("peer count = %d, want 10", len(peers))
	}
}

func TestFindSimilarPropagatesStoreError(t *testing.T) {
	wantErr := errors.New("store down")
	idx := NewSimilarityIndex(&fakeLister{err: wantErr}, DefaultConfig())

	_, err := idx.FindSimilar(context.Background(), &UserProfile{UserID: "q"})
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want %v", err, wantErr)
	}
}
