// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package profilestore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wayfinder/internal/learner"
)

// Snapshot is the versioned wholesale export envelope. It carries every
// profile plus the shared weight vector so a fresh store can be seeded from a
// single blob.
type Snapshot struct {
	Version    int                    `json:"version"`
	ExportedAt time.Time              `json:"exported_at"`
	Weights    []float64              `json:"weights,omitempty"`
	Profiles   []*learner.UserProfile `json:"profiles"`
}

// Export writes a snapshot of the store to w.
func Export(ctx context.Context, store learner.ProfileStore, w io.Writer) error {
	profiles, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("export: listing profiles: %w", err)
	}
	weights, err := store.LoadWeights(ctx)
	if err != nil {
		return fmt.Errorf("export: loading weights: %w", err)
	}

	snap := Snapshot{
		Version:    SchemaVersion,
		ExportedAt: time.Now().UTC(),
		Weights:    weights,
		Profiles:   profiles,
	}
	if err := json.NewEncoder(w).Encode(&snap); err != nil {
		return fmt.Errorf("export: encoding snapshot: %w", err)
	}
	return nil
}

// Import reads a snapshot from r and upserts its contents into the store.
// Existing profiles with matching ids are overwritten.
func Import(ctx context.Context, store learner.ProfileStore, r io.Reader) error {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("import: decoding snapshot: %w", err)
	}
	if snap.Version > SchemaVersion {
		return fmt.Errorf("import: %w: snapshot %d, supported %d", ErrSchemaVersion, snap.Version, SchemaVersion)
	}

	for _, p := range snap.Profiles {
		if p.UserID == "" {
			return fmt.Errorf("import: profile with empty user id")
		}
		if len(p.LearningVector) != learner.FeatureCount {
			// older vectors are rebuilt on the next training call
			p.LearningVector = make([]float64, learner.FeatureCount)
		}
		if err := store.Upsert(ctx, p); err != nil {
			return fmt.Errorf("import: upserting profile %q: %w", p.UserID, err)
		}
	}
	if snap.Weights != nil {
		if err := store.SaveWeights(ctx, snap.Weights); err != nil {
			return fmt.Errorf("import: saving weights: %w", err)
		}
	}
	return nil
}
