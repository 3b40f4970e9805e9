// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package learner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeCatalog serves a fixed destination list.
type fakeCatalog struct {
	destinations []Destination
}

func (f *fakeCatalog) Destinations() []Destination {
	return f.destinations
}

// fakeWeather returns a fixed score or a fixed error.
type fakeWeather struct {
	score float64
	err   error
	calls int
}

func (f *fakeWeather) CompatibilityScore(_ context.Context, _ string, _ float64) (float64, error) {
	f.calls++
	return f.score, f.err
}

func testDestinations() []Destination {
	return []Destination{
		{Name: "Kyoto", BestSeasons: []string{"spring", "fall"}, Tags: []string{"culture", "food", "history"}, TypicalBudget: BudgetRange{Min: 1500, Max: 3500}},
		{Name: "Lisbon", BestSeasons: []string{"spring", "summer"}, Tags: []string{"food", "beaches"}, TypicalBudget: BudgetRange{Min: 1000, Max: 2500}},
		{Name: "Reykjavik", BestSeasons: []string{"summer"}, Tags: []string{"nature", "adventure"}, TypicalBudget: BudgetRange{Min: 2500, Max: 5000}},
		{Name: "Bangkok", BestSeasons: []string{"winter"}, Tags: []string{"food", "nightlife"}, TypicalBudget: BudgetRange{Min: 800, Max: 2000}},
		{Name: "Queenstown", BestSeasons: []string{"summer", "winter"}, Tags: []string{"adventure", "mountains"}, TypicalBudget: BudgetRange{Min: 2000, Max: 4500}},
	}
}

func testProfile() *UserProfile {
	cfg := DefaultConfig()
	p := &UserProfile{
		UserID: "u1",
		Preferences: Preferences{
			Budget:           BudgetRange{Min: 1000, Max: 3000},
			TravelStyles:     []string{"comfort"},
			Interests:        []string{"culture", "food"},
			Seasons:          []string{"spring", "fall"},
			GroupSizes:       []int{2},
			ActivityLevels:   []string{"moderate"},
			CulturalOpenness: 0.7,
			AdventureSeeking: 0.5,
			LuxuryPreference: 0.5,
		},
		ConfidenceScore: 0.5,
	}
	p.LearningVector = NewExtractor(cfg).Extract(p)
	return p
}

func newTestComposer(lister ProfileLister, weather WeatherScorer) *Composer {
	cfg := DefaultConfig()
	model := NewWeightModel(cfg)
	idx := NewSimilarityIndex(lister, cfg)
	return NewComposer(model, idx, &fakeCatalog{destinations: testDestinations()}, weather, cfg, zerolog.Nop())
}

func TestDefaultResult(t *testing.T) {
	now := time.Now()
	r := DefaultResult(now)

	if len(r.DestinationScores) != 0 {
		t.Errorf("destination scores = %v, want empty", r.DestinationScores)
	}
	if r.PersonalizationLevel != 0.3 {
		t.Errorf("personalization = %v, want 0.3", r.PersonalizationLevel)
	}
	if r.Confidence.Low != 0.2 || r.Confidence.High != 0.4 {
		t.Errorf("confidence interval = %+v, want [0.2,0.4]", r.Confidence)
	}
	if r.Budget.TargetBudget != 2000 {
		t.Errorf("target budget = %v, want 2000", r.Budget.TargetBudget)
	}
	a := r.Budget.Allocation
	want := BudgetAllocation{Accommodation: 700, Food: 500, Activities: 400, Transportation: 300, Shopping: 60, Emergency: 40}
	if a != want {
		t.Errorf("allocation = %+v, want %+v", a, want)
	}
}

func TestComposeScoresEveryDestination(t *testing.T) {
	p := testProfile()
	c := newTestComposer(&fakeLister{profiles: []*UserProfile{p}}, &fakeWeather{score: 0.8})

	r := c.Compose(context.Background(), p, Query{})

	if len(r.DestinationScores) != len(testDestinations()) {
		t.Fatalf("scored %d destinations, want %d", len(r.DestinationScores), len(testDestinations()))
	}
	for name, s := range r.DestinationScores {
		if s < 0 || s > 1 {
			t.Errorf("score for %s out of range: %v", name, s)
		}
	}
	if r.PersonalizationLevel != p.ConfidenceScore {
		t.Errorf("personalization = %v, want %v", r.PersonalizationLevel, p.ConfidenceScore)
	}
	if r.Confidence.Low != 0.4 || r.Confidence.High != 0.6 {
		t.Errorf("confidence interval = %+v, want [0.4,0.6]", r.Confidence)
	}
}

func TestComposeWeatherFailureIsSoft(t *testing.T) {
	p := testProfile()
	failing := &fakeWeather{err: errors.New("upstream down")}
	c := newTestComposer(&fakeLister{profiles: []*UserProfile{p}}, failing)

	r := c.Compose(context.Background(), p, Query{})

	if failing.calls == 0 {
		t.Fatal("weather scorer never consulted")
	}
	if len(r.DestinationScores) != len(testDestinations()) {
		t.Errorf("weather failure dropped destinations: got %d", len(r.DestinationScores))
	}
}

func TestComposeWeatherBlend(t *testing.T) {
	p := testProfile()

	plain := newTestComposer(&fakeLister{profiles: []*UserProfile{p}}, nil)
	sunny := newTestComposer(&fakeLister{profiles: []*UserProfile{p}}, &fakeWeather{score: 1})

	base := plain.Compose(context.Background(), p, Query{}).DestinationScores["Kyoto"]
	blended := sunny.Compose(context.Background(), p, Query{}).DestinationScores["Kyoto"]

	want := 0.7*base + 0.3*1
	if diff := blended - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("blended score = %v, want %v", blended, want)
	}
}

func TestComposeActivitiesFromPeers(t *testing.T) {
	p := testProfile()
	peer := testProfile()
	peer.UserID = "peer"
	for i := 0; i < 3; i++ {
		peer.BehaviorHistory = append(peer.BehaviorHistory,
			UserBehavior{Action: ActionLike, TargetType: TargetActivity, TargetID: "Tea Ceremony"},
			UserBehavior{Action: ActionBook, TargetType: TargetActivity, TargetID: "Tea Ceremony",
				Feedback: &BehaviorFeedback{Rating: 5}},
		)
	}

	c := newTestComposer(&fakeLister{profiles: []*UserProfile{p, peer}}, nil)
	r := c.Compose(context.Background(), p, Query{})

	if len(r.Activities) != 1 {
		t.Fatalf("activities = %+v, want exactly one", r.Activities)
	}
	got := r.Activities[0]
	if got.Name != "Tea Ceremony" {
		t.Errorf("activity = %q, want Tea Ceremony", got.Name)
	}
	if got.PredictedEnjoyment <= 0.6 {
		t.Errorf("enjoyment = %v, want > 0.6", got.PredictedEnjoyment)
	}
	if got.Stats.AverageRating != 5 {
		t.Errorf("average rating = %v, want 5", got.Stats.AverageRating)
	}
	if got.Stats.CompletionRate != 1 {
		t.Errorf("completion rate = %v, want 1", got.Stats.CompletionRate)
	}
	if got.Stats.PeerCount != 1 {
		t.Errorf("peer count = %d, want 1", got.Stats.PeerCount)
	}
}

func TestComposeNoPeersNoActivities(t *testing.T) {
	p := testProfile()
	c := newTestComposer(&fakeLister{profiles: []*UserProfile{p}}, nil)

	r := c.Compose(context.Background(), p, Query{})
	if len(r.Activities) != 0 {
		t.Errorf("activities = %+v, want empty without peers", r.Activities)
	}
}

func TestOptimizeBudget(t *testing.T) {
	p := testProfile()
	c := newTestComposer(&fakeLister{profiles: []*UserProfile{p}}, nil)

	t.Run("query budget wins", func(t *testing.T) {
		opt := c.optimizeBudget(p, Query{Budget: 5000})
		if opt.TargetBudget != 5000 {
			t.Errorf("target = %v, want 5000", opt.TargetBudget)
		}
	})

	t.Run("profile midpoint fallback", func(t *testing.T) {
		opt := c.optimizeBudget(p, Query{})
		if opt.TargetBudget != 2000 {
			t.Errorf("target = %v, want 2000", opt.TargetBudget)
		}
		a := opt.Allocation
		if a.Accommodation != 700 || a.Food != 500 || a.Activities != 400 ||
			a.Transportation != 300 || a.Shopping != 60 || a.Emergency != 40 {
			t.Errorf("reference allocation off: %+v", a)
		}
	})

	t.Run("allocation sums to target", func(t *testing.T) {
		biased := testProfile()
		for i := 0; i < 4; i++ {
			biased.BehaviorHistory = append(biased.BehaviorHistory, UserBehavior{
				Action:     ActionBook,
				TargetType: TargetAccommodation,
				Context:    BehaviorContext{BookingAmount: 1000},
			})
		}
		opt := c.optimizeBudget(biased, Query{Budget: 3000})
		a := opt.Allocation
		sum := a.Accommodation + a.Food + a.Activities + a.Transportation + a.Shopping + a.Emergency
		if diff := sum - 3000; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("allocation sum = %v, want 3000", sum)
		}
		if a.Accommodation <= 3000*shareAccommodation {
			t.Errorf("accommodation = %v, want biased above reference", a.Accommodation)
		}
	})
}

func TestTimingAndAlternatives(t *testing.T) {
	p := testProfile()
	c := newTestComposer(&fakeLister{profiles: []*UserProfile{p}}, nil)

	r := c.Compose(context.Background(), p, Query{})

	if len(r.Timing) == 0 {
		t.Error("expected timing hints for top destinations")
	}
	for _, hint := range r.Timing {
		if len(hint.BestSeasons) == 0 {
			t.Errorf("timing hint for %s has no seasons", hint.Destination)
		}
	}

	// five catalog destinations: ranks four and five become alternatives
	if len(r.Alternatives) != 2 {
		t.Errorf("alternatives = %v, want two entries", r.Alternatives)
	}
}
