// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package learner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wayfinder/internal/metrics"
)

// ProfileStore is the persistence boundary the service depends on.
// Implementations must return ErrProfileNotFound from Get when no profile
// exists and must hand out copies callers may freely mutate.
type ProfileStore interface {
	// Get returns the profile for userID or ErrProfileNotFound.
	Get(ctx context.Context, userID string) (*UserProfile, error)

	// Upsert stores the profile, overwriting any previous version.
	Upsert(ctx context.Context, p *UserProfile) error

	// List returns all stored profiles.
	List(ctx context.Context) ([]*UserProfile, error)

	// SaveWeights persists the shared weight vector alongside the profiles.
	SaveWeights(ctx context.Context, weights []float64) error

	// LoadWeights returns the persisted weight vector, or nil when absent.
	LoadWeights(ctx context.Context) ([]float64, error)
}

// Service is the engine facade: Train, Recommend, ProcessFeedback.
type Service struct {
	store     ProfileStore
	extractor *Extractor
	model     *WeightModel
	composer  *Composer
	log       zerolog.Logger

	// trainMu serializes training calls. Each call mutates one profile plus
	// the shared weight vector; recommendations never take this lock and may
	// read a slightly stale weight snapshot.
	trainMu sync.Mutex

	// now is swappable for tests.
	now func() time.Time
}

// NewService wires the engine. Persisted weights, when present and of the
// current length, override the model's seeded initialization.
func NewService(ctx context.Context, store ProfileStore, extractor *Extractor, model *WeightModel, composer *Composer, log zerolog.Logger) (*Service, error) {
	s := &Service{
		store:     store,
		extractor: extractor,
		model:     model,
		composer:  composer,
		log:       log.With().Str("component", "learner").Logger(),
		now:       time.Now,
	}

	weights, err := store.LoadWeights(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading persisted weights: %w", err)
	}
	if weights != nil {
		model.RestoreWeights(weights)
		s.log.Info().Int("length", len(weights)).Msg("restored persisted weight vector")
	}
	return s, nil
}

// defaultProfile builds the lazily-created profile for an unseen user.
func defaultProfile(userID string, now time.Time) *UserProfile {
	return &UserProfile{
		UserID: userID,
		Preferences: Preferences{
			Budget:           BudgetRange{Min: 1000, Max: 3000},
			TravelStyles:     []string{"comfort"},
			Interests:        []string{"culture", "food"},
			GroupSizes:       []int{2},
			Seasons:          []string{"spring", "fall"},
			ActivityLevels:   []string{"moderate"},
			CulturalOpenness: 0.7,
			AdventureSeeking: 0.5,
			LuxuryPreference: 0.5,
		},
		LearningVector:  make([]float64, FeatureCount),
		LastUpdated:     now,
		ConfidenceScore: baseConfidence,
	}
}

// Train is the sole mutation entry point. It creates the profile on first
// contact, appends the new history, derives implicit preference adjustments,
// recomputes the feature vector and confidence, updates the shared weight
// model from the trips, and persists everything.
func (s *Service) Train(ctx context.Context, userID string, behaviors []UserBehavior, trips []CompletedTrip) (*UserProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("train: user id is required")
	}

	s.trainMu.Lock()
	defer s.trainMu.Unlock()

	start := s.now()
	p, err := s.store.Get(ctx, userID)
	switch {
	case err == nil:
	case errors.Is(err, ErrProfileNotFound):
		p = defaultProfile(userID, start)
		s.log.Debug().Str("user_id", userID).Msg("created default profile")
	default:
		return nil, fmt.Errorf("train: loading profile %q: %w", userID, err)
	}

	p.BehaviorHistory = append(p.BehaviorHistory, behaviors...)
	p.TripHistory = append(p.TripHistory, trips...)

	adjustPreferences(p, behaviors)
	p.LearningVector = s.extractor.Extract(p)
	s.model.Update(p.LearningVector, trips)
	p.ConfidenceScore = ConfidenceScore(p, start)
	p.LastUpdated = start

	if err := s.store.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("train: persisting profile %q: %w", userID, err)
	}
	if err := s.store.SaveWeights(ctx, s.model.Snapshot()); err != nil {
		return nil, fmt.Errorf("train: persisting weights: %w", err)
	}

	metrics.TrainTotal.Inc()
	metrics.TrainDuration.Observe(time.Since(start).Seconds())
	s.log.Debug().
		Str("user_id", userID).
		Int("behaviors", len(behaviors)).
		Int("trips", len(trips)).
		Float64("confidence", p.ConfidenceScore).
		Msg("profile trained")

	return p, nil
}

// Recommend composes a fresh PredictionResult. Unknown users receive the
// fixed default result instead of an error.
func (s *Service) Recommend(ctx context.Context, userID string, q Query) (*PredictionResult, error) {
	if q.DurationDays < 0 {
		return nil, fmt.Errorf("recommend: duration must not be negative")
	}

	start := s.now()
	defer func() {
		metrics.RecommendDuration.Observe(time.Since(start).Seconds())
	}()

	p, err := s.store.Get(ctx, userID)
	switch {
	case errors.Is(err, ErrProfileNotFound):
		s.log.Debug().Str("user_id", userID).Msg("no profile, serving default result")
		return DefaultResult(start), nil
	case err != nil:
		return nil, fmt.Errorf("recommend: loading profile %q: %w", userID, err)
	}

	return s.composer.Compose(ctx, p, q), nil
}

// ProcessFeedback converts explicit recommendation feedback into a synthetic
// behavior event and trains on it. Ratings below 3 additionally apply a
// negative reinforcement step against the features that drove the
// recommendation.
func (s *Service) ProcessFeedback(ctx context.Context, userID string, fb Feedback) error {
	if fb.Rating < 1 || fb.Rating > 5 {
		return fmt.Errorf("feedback for %q: %w", userID, ErrInvalidRating)
	}

	action := ActionReject
	if fb.Action == FeedbackAccepted {
		action = ActionBook
	}
	behavior := UserBehavior{
		Timestamp:  s.now(),
		Action:     action,
		TargetType: TargetDestination,
		TargetID:   fb.RecommendationID,
		Feedback: &BehaviorFeedback{
			Rating:   fb.Rating,
			Comments: fb.Comments,
		},
	}

	p, err := s.Train(ctx, userID, []UserBehavior{behavior}, nil)
	if err != nil {
		return fmt.Errorf("feedback for %q: %w", userID, err)
	}

	if fb.Rating < 3 {
		signal := (float64(fb.Rating) - 3) / 2
		s.model.Reinforce(p.LearningVector, signal)
		if err := s.store.SaveWeights(ctx, s.model.Snapshot()); err != nil {
			return fmt.Errorf("feedback for %q: persisting weights: %w", userID, err)
		}
		s.log.Debug().Str("user_id", userID).Int("rating", fb.Rating).Msg("applied negative reinforcement")
	}
	return nil
}

// Profile exposes a read-only copy of a stored profile.
func (s *Service) Profile(ctx context.Context, userID string) (*UserProfile, error) {
	return s.store.Get(ctx, userID)
}
