// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

// Package learner implements the travel recommendation learning engine.
//
// The engine maintains one profile per user (preferences, behavior history,
// trip history, a fixed-length feature vector) plus a single shared linear
// weight vector updated by reinforcement from trip satisfaction. Ranked
// recommendations are composed from the weight model, peer users found by
// cosine similarity, a destination catalog, and a best-effort weather lookup.
//
// # Components
//
//   - Extractor: profile -> fixed-length feature vector
//   - WeightModel: shared linear weights, online reinforcement updates
//   - SimilarityIndex: cosine-similarity peer lookup for collaborative filtering
//   - Composer: destination/activity/budget/timing recommendation assembly
//   - Service: Train / Recommend / ProcessFeedback entry points
//
// # Thread Safety
//
// The weight vector and the profile store are the only shared mutable state.
// Train acquires the weight model's exclusive lock for the duration of its
// update; Recommend reads a point-in-time weight snapshot and may observe a
// slightly stale vector. All exported types are safe for concurrent use.
package learner
