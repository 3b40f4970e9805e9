// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package learner

import (
	"context"
	"math"
	"sort"
)

// ProfileLister is the slice of the profile store the similarity index needs.
type ProfileLister interface {
	List(ctx context.Context) ([]*UserProfile, error)
}

// SimilarityIndex finds peer users by cosine similarity of learning vectors.
// It scans the store on every call; with the small user counts this engine
// targets a brute-force pass beats maintaining an ANN structure.
type SimilarityIndex struct {
	store     ProfileLister
	threshold float64
	maxPeers  int
}

// NewSimilarityIndex builds an index over the given store.
func NewSimilarityIndex(store ProfileLister, cfg Config) *SimilarityIndex {
	return &SimilarityIndex{
		store:     store,
		threshold: cfg.SimilarityThreshold,
		maxPeers:  cfg.MaxPeers,
	}
}

// scoredPeer pairs a profile with its similarity to the query profile.
type scoredPeer struct {
	profile    *UserProfile
	similarity float64
}

// FindSimilar returns up to maxPeers profiles whose learning vectors exceed
// the similarity threshold, most similar first. The query profile itself is
// excluded.
func (idx *SimilarityIndex) FindSimilar(ctx context.Context, p *UserProfile) ([]*UserProfile, error) {
	all, err := idx.store.List(ctx)
	if err != nil {
		return nil, err
	}

	peers := make([]scoredPeer, 0, len(all))
	for _, other := range all {
		if other.UserID == p.UserID {
			continue
		}
		sim := CosineSimilarity(p.LearningVector, other.LearningVector)
		if sim > idx.threshold {
			peers = append(peers, scoredPeer{profile: other, similarity: sim})
		}
	}

	sort.SliceStable(peers, func(i, j int) bool {
		return peers[i].similarity > peers[j].similarity
	})
	if len(peers) > idx.maxPeers {
		peers = peers[:idx.maxPeers]
	}

	out := make([]*UserProfile, len(peers))
	for i, sp := range peers {
		out[i] = sp.profile
	}
	return out, nil
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Zero-norm inputs and mismatched lengths return 0, never NaN.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
