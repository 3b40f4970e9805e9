// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package learner

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// mockStore is an in-memory ProfileStore for tests.
type mockStore struct {
	profiles   map[string]*UserProfile
	weights    []float64
	upsertErr  error
	getErr     error
	weightsErr error
}

func newMockStore() *mockStore {
	return &mockStore{profiles: make(map[string]*UserProfile)}
}

func (m *mockStore) Get(_ context.Context, userID string) (*UserProfile, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p.Clone(), nil
}

func (m *mockStore) Upsert(_ context.Context, p *UserProfile) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.profiles[p.UserID] = p.Clone()
	return nil
}

func (m *mockStore) List(_ context.Context) ([]*UserProfile, error) {
	out := make([]*UserProfile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (m *mockStore) SaveWeights(_ context.Context, w []float64) error {
	if m.weightsErr != nil {
		return m.weightsErr
	}
	m.weights = append([]float64(nil), w...)
	return nil
}

func (m *mockStore) LoadWeights(_ context.Context) ([]float64, error) {
	if m.weightsErr != nil {
		return nil, m.weightsErr
	}
	return m.weights, nil
}

func newTestService(t *testing.T, store ProfileStore) *Service {
	t.Helper()
	cfg := DefaultConfig()
	model := NewWeightModel(cfg)
	idx := NewSimilarityIndex(store, cfg)
	composer := NewComposer(model, idx, &fakeCatalog{destinations: testDestinations()}, nil, cfg, zerolog.Nop())
	svc, err := NewService(context.Background(), store, NewExtractor(cfg), model, composer, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestTrainCreatesDefaultProfile(t *testing.T) {
	svc := newTestService(t, newMockStore())

	p, err := svc.Train(context.Background(), "u1", nil, nil)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	if p.ConfidenceScore != 0.3 {
		t.Errorf("confidence = %v, want 0.3", p.ConfidenceScore)
	}
	if len(p.LearningVector) != FeatureCount {
		t.Errorf("vector length = %d, want %d", len(p.LearningVector), FeatureCount)
	}
	prefs := p.Preferences
	if prefs.Budget.Min != 1000 || prefs.Budget.Max != 3000 {
		t.Errorf("default budget = %+v, want [1000,3000]", prefs.Budget)
	}
	if len(prefs.TravelStyles) != 1 || prefs.TravelStyles[0] != "comfort" {
		t.Errorf("default styles = %v, want [comfort]", prefs.TravelStyles)
	}
	if len(prefs.Interests) != 2 || prefs.Interests[0] != "culture" || prefs.Interests[1] != "food" {
		t.Errorf("default interests = %v, want [culture food]", prefs.Interests)
	}
	if prefs.CulturalOpenness != 0.7 || prefs.AdventureSeeking != 0.5 || prefs.LuxuryPreference != 0.5 {
		t.Errorf("default traits off: %+v", prefs)
	}
}

func TestTrainEmptyCallRefreshesTimestampOnly(t *testing.T) {
	svc := newTestService(t, newMockStore())
	ctx := context.Background()

	first, err := svc.Train(ctx, "u1", nil, nil)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	svc.now = func() time.Time { return first.LastUpdated.Add(time.Minute) }
	second, err := svc.Train(ctx, "u1", nil, nil)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	for i := range first.LearningVector {
		if first.LearningVector[i] != second.LearningVector[i] {
			t.Errorf("feature %d changed on empty train: %v -> %v",
				i, first.LearningVector[i], second.LearningVector[i])
		}
	}
	if !second.LastUpdated.After(first.LastUpdated) {
		t.Errorf("lastUpdated not refreshed: %v -> %v", first.LastUpdated, second.LastUpdated)
	}
}

func TestTrainEmptyCallIdempotentAfterBooking(t *testing.T) {
	svc := newTestService(t, newMockStore())
	ctx := context.Background()

	booked, err := svc.Train(ctx, "u1", []UserBehavior{{
		Timestamp:  time.Now(),
		Action:     ActionBook,
		TargetType: TargetDestination,
		TargetID:   "Kyoto",
		Context:    BehaviorContext{BookingAmount: 9000},
	}}, nil)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	after, err := svc.Train(ctx, "u1", nil, nil)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	if after.Preferences.Budget != booked.Preferences.Budget {
		t.Errorf("budget drifted on empty train: %+v -> %+v",
			booked.Preferences.Budget, after.Preferences.Budget)
	}
	for i := range booked.LearningVector {
		if booked.LearningVector[i] != after.LearningVector[i] {
			t.Errorf("feature %d changed on empty train: %v -> %v",
				i, booked.LearningVector[i], after.LearningVector[i])
		}
	}
}

func TestTrainAppendsHistoryAndLearns(t *testing.T) {
	store := newMockStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	behaviors := []UserBehavior{
		{Timestamp: time.Now(), Action: ActionLike, TargetType: TargetActivity, TargetID: "Kyoto Food Market Tour"},
	}
	trips := []CompletedTrip{
		{Destination: "Kyoto", Satisfaction: 5, TravelStyle: "comfort", Budget: 2500},
	}

	p, err := svc.Train(ctx, "u1", behaviors, trips)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	if len(p.BehaviorHistory) != 1 || len(p.TripHistory) != 1 {
		t.Fatalf("history lengths = %d/%d, want 1/1", len(p.BehaviorHistory), len(p.TripHistory))
	}
	if !containsString(p.Preferences.Interests, "food") {
		t.Errorf("interests = %v, want food inferred", p.Preferences.Interests)
	}
	if store.weights == nil {
		t.Error("weights not persisted after train")
	}
	if stored, ok := store.profiles["u1"]; !ok || len(stored.BehaviorHistory) != 1 {
		t.Error("profile not persisted after train")
	}
}

func TestTrainConfidenceCaps(t *testing.T) {
	svc := newTestService(t, newMockStore())
	ctx := context.Background()

	now := time.Now()
	behaviors := make([]UserBehavior, 120)
	for i := range behaviors {
		behaviors[i] = UserBehavior{Timestamp: now.Add(-time.Hour), Action: ActionView}
	}
	trips := make([]CompletedTrip, 12)
	for i := range trips {
		trips[i] = CompletedTrip{Satisfaction: 4}
	}

	p, err := svc.Train(ctx, "u1", behaviors, trips)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if p.ConfidenceScore != 1.0 {
		t.Errorf("confidence = %v, want 1.0", p.ConfidenceScore)
	}
}

func TestTrainRequiresUserID(t *testing.T) {
	svc := newTestService(t, newMockStore())
	if _, err := svc.Train(context.Background(), "", nil, nil); err == nil {
		t.Fatal("expected error for empty user id")
	}
}

func TestTrainSurfacesPersistenceError(t *testing.T) {
	store := newMockStore()
	store.upsertErr = errors.New("disk full")
	svc := newTestService(t, store)

	if _, err := svc.Train(context.Background(), "u1", nil, nil); !errors.Is(err, store.upsertErr) {
		t.Fatalf("error = %v, want wrapped disk full", err)
	}
}

func TestRecommendUnknownUserServesDefault(t *testing.T) {
	svc := newTestService(t, newMockStore())

	r, err := svc.Recommend(context.Background(), "ghost", Query{})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if r.PersonalizationLevel != 0.3 {
		t.Errorf("personalization = %v, want 0.3", r.PersonalizationLevel)
	}
	if len(r.DestinationScores) != 0 {
		t.Errorf("destination scores = %v, want empty", r.DestinationScores)
	}
}

func TestRecommendKnownUser(t *testing.T) {
	svc := newTestService(t, newMockStore())
	ctx := context.Background()

	if _, err := svc.Train(ctx, "u1", nil, nil); err != nil {
		t.Fatalf("Train: %v", err)
	}
	r, err := svc.Recommend(ctx, "u1", Query{Budget: 2500})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(r.DestinationScores) == 0 {
		t.Error("expected destination scores for trained user")
	}
	if r.Budget.TargetBudget != 2500 {
		t.Errorf("target budget = %v, want 2500", r.Budget.TargetBudget)
	}
}

func TestRecommendRejectsNegativeDuration(t *testing.T) {
	svc := newTestService(t, newMockStore())
	if _, err := svc.Recommend(context.Background(), "u1", Query{DurationDays: -1}); err == nil {
		t.Fatal("expected error for negative duration")
	}
}

func TestProcessFeedback(t *testing.T) {
	t.Run("accepted synthesizes book event", func(t *testing.T) {
		store := newMockStore()
		svc := newTestService(t, store)

		err := svc.ProcessFeedback(context.Background(), "u1", Feedback{
			RecommendationID: "rec-1", Rating: 5, Action: FeedbackAccepted,
		})
		if err != nil {
			t.Fatalf("ProcessFeedback: %v", err)
		}
		p := store.profiles["u1"]
		if p == nil || len(p.BehaviorHistory) != 1 {
			t.Fatalf("expected one synthesized behavior, got %+v", p)
		}
		b := p.BehaviorHistory[0]
		if b.Action != ActionBook || b.Feedback == nil || b.Feedback.Rating != 5 {
			t.Errorf("synthesized behavior = %+v, want book with rating 5", b)
		}
	})

	t.Run("rejected synthesizes reject event", func(t *testing.T) {
		store := newMockStore()
		svc := newTestService(t, store)

		err := svc.ProcessFeedback(context.Background(), "u1", Feedback{
			RecommendationID: "rec-1", Rating: 3, Action: FeedbackRejected,
		})
		if err != nil {
			t.Fatalf("ProcessFeedback: %v", err)
		}
		if got := store.profiles["u1"].BehaviorHistory[0].Action; got != ActionReject {
			t.Errorf("action = %v, want reject", got)
		}
	})

	t.Run("low rating applies negative reinforcement", func(t *testing.T) {
		store := newMockStore()
		svc := newTestService(t, store)
		before := svc.model.Snapshot()

		err := svc.ProcessFeedback(context.Background(), "u1", Feedback{
			RecommendationID: "rec-1", Rating: 1, Action: FeedbackRejected,
		})
		if err != nil {
			t.Fatalf("ProcessFeedback: %v", err)
		}
		after := svc.model.Snapshot()
		moved := false
		for i := range before {
			if before[i] != after[i] {
				moved = true
				break
			}
		}
		if !moved {
			t.Error("weights unchanged after low-rating feedback")
		}
	})

	t.Run("unseen user gets a profile created", func(t *testing.T) {
		store := newMockStore()
		svc := newTestService(t, store)

		err := svc.ProcessFeedback(context.Background(), "stranger", Feedback{
			RecommendationID: "rec-1", Rating: 4, Action: FeedbackAccepted,
		})
		if err != nil {
			t.Fatalf("ProcessFeedback for unseen user: %v", err)
		}
		if store.profiles["stranger"] == nil {
			t.Fatal("no profile created for unseen user")
		}
	})

	t.Run("invalid rating rejected", func(t *testing.T) {
		svc := newTestService(t, newMockStore())
		err := svc.ProcessFeedback(context.Background(), "u1", Feedback{Rating: 0})
		if !errors.Is(err, ErrInvalidRating) {
			t.Errorf("error = %v, want ErrInvalidRating", err)
		}
	})
}

func TestNewServiceRestoresWeights(t *testing.T) {
	store := newMockStore()
	persisted := make([]float64, FeatureCount)
	persisted[0] = 0.9
	store.weights = persisted

	svc := newTestService(t, store)
	if got := svc.model.Snapshot()[0]; got != 0.9 {
		t.Errorf("restored weight[0] = %v, want 0.9", got)
	}
}
