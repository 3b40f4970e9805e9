// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package learner

import (
	"time"
)

// FeatureCount is the fixed length of every learning vector and of the shared
// weight vector. Changing it invalidates persisted profiles; the profile
// store's schema version must be bumped alongside it.
const FeatureCount = 15

// Feature indices into learning and weight vectors.
// The first five positions carry seeded importance priors in the weight model.
const (
	FeatureBudget int = iota
	FeatureSeasonality
	FeatureWeatherPreference
	FeatureActivityIntensity
	FeatureCulturalImmersion
	FeatureLuxuryLevel
	FeatureGroupDynamics
	FeatureSpontaneity
	FeaturePhotoOpportunities
	FeatureCulinaryExploration
	FeatureClickThroughRate
	FeatureBookingConversion
	FeatureAverageSessionTime
	FeaturePreferenceStability
	FeatureSeasonalVariation
)

// BehaviorAction classifies a recorded user interaction.
type BehaviorAction string

// Behavior actions.
const (
	ActionView   BehaviorAction = "view"
	ActionLike   BehaviorAction = "like"
	ActionSave   BehaviorAction = "save"
	ActionBook   BehaviorAction = "book"
	ActionReject BehaviorAction = "reject"
	ActionRate   BehaviorAction = "rate"
)

// Valid reports whether the action is one of the known behavior actions.
func (a BehaviorAction) Valid() bool {
	switch a {
	case ActionView, ActionLike, ActionSave, ActionBook, ActionReject, ActionRate:
		return true
	default:
		return false
	}
}

// TargetType classifies what a behavior event acted on.
type TargetType string

// Behavior target types.
const (
	TargetDestination   TargetType = "destination"
	TargetActivity      TargetType = "activity"
	TargetAccommodation TargetType = "accommodation"
	TargetRestaurant    TargetType = "restaurant"
)

// Valid reports whether the target type is known.
func (t TargetType) Valid() bool {
	switch t {
	case TargetDestination, TargetActivity, TargetAccommodation, TargetRestaurant:
		return true
	default:
		return false
	}
}

// BehaviorContext carries free-form context captured with a behavior event.
type BehaviorContext struct {
	// SessionDuration is the UI session length when the event fired.
	SessionDuration time.Duration `json:"session_duration,omitempty"`

	// Device is the client device class (web, mobile, tablet).
	Device string `json:"device,omitempty"`

	// TimeOfDay is a coarse bucket (morning, afternoon, evening, night).
	TimeOfDay string `json:"time_of_day,omitempty"`

	// SearchQuery is the search text active when the event fired, if any.
	SearchQuery string `json:"search_query,omitempty"`

	// Filters are the active search filters, if any.
	Filters map[string]string `json:"filters,omitempty"`

	// BookingAmount is the monetary amount attached to a book event.
	// Zero when not applicable.
	BookingAmount float64 `json:"booking_amount,omitempty"`
}

// BehaviorFeedback carries optional explicit feedback attached to an event.
type BehaviorFeedback struct {
	// Rating is a 1-5 rating; zero means no rating was given.
	Rating int `json:"rating,omitempty"`

	// Tags are free-form labels attached by the user.
	Tags []string `json:"tags,omitempty"`

	// Comments is free-form feedback text.
	Comments string `json:"comments,omitempty"`
}

// UserBehavior is a single immutable interaction event. Events are created at
// the ingestion boundary and owned by the profile they are appended to.
type UserBehavior struct {
	// Timestamp is when the interaction occurred.
	Timestamp time.Time `json:"timestamp"`

	// Action is the interaction kind (view, like, save, book, reject, rate).
	Action BehaviorAction `json:"action"`

	// TargetType is what kind of entity was acted on.
	TargetType TargetType `json:"target_type"`

	// TargetID identifies the entity, typically its display name or slug.
	TargetID string `json:"target_id"`

	// Context is free-form context captured with the event.
	Context BehaviorContext `json:"context"`

	// Feedback is optional explicit feedback.
	Feedback *BehaviorFeedback `json:"feedback,omitempty"`
}

// CompletedTrip is an immutable record of a finished trip.
type CompletedTrip struct {
	// Destination is the trip destination name.
	Destination string `json:"destination"`

	// DurationDays is the trip length in days.
	DurationDays int `json:"duration_days"`

	// Budget is the total spent on the trip.
	Budget float64 `json:"budget"`

	// TravelStyle is the style the trip was taken in (budget, comfort, luxury...).
	TravelStyle string `json:"travel_style"`

	// Activities lists the activities undertaken.
	Activities []string `json:"activities,omitempty"`

	// Satisfaction is the outcome rating, 1-5.
	Satisfaction int `json:"satisfaction"`

	// WouldRecommend indicates whether the user would recommend the trip.
	WouldRecommend bool `json:"would_recommend"`

	// BookedAt is when the trip was booked. Optional richness signal used for
	// the spontaneity feature; zero when unknown.
	BookedAt time.Time `json:"booked_at,omitempty"`

	// StartedAt is when the trip started. Optional; zero when unknown.
	StartedAt time.Time `json:"started_at,omitempty"`

	// Season is the travel season (spring, summer, fall, winter). Optional.
	Season string `json:"season,omitempty"`

	// PhotoCount is the number of photos taken. Optional richness signal.
	PhotoCount int `json:"photo_count,omitempty"`

	// JournalEntries is the number of journal entries written. Optional.
	JournalEntries int `json:"journal_entries,omitempty"`

	// WeatherExperienced lists weather conditions encountered. Optional.
	WeatherExperienced []string `json:"weather_experienced,omitempty"`

	// Highlights lists user-picked trip highlights. Optional.
	Highlights []string `json:"highlights,omitempty"`
}

// BudgetRange is an inclusive preferred spending range. Min <= Max always.
type BudgetRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Midpoint returns the center of the range.
func (r BudgetRange) Midpoint() float64 {
	return (r.Min + r.Max) / 2
}

// Preferences holds a user's declared travel preferences.
type Preferences struct {
	// Budget is the preferred spending range.
	Budget BudgetRange `json:"budget"`

	// TravelStyles is an ordered preference list (first = most preferred).
	TravelStyles []string `json:"travel_styles,omitempty"`

	// Interests are interest categories (culture, food, nature...).
	Interests []string `json:"interests,omitempty"`

	// Accommodations are preferred accommodation types.
	Accommodations []string `json:"accommodations,omitempty"`

	// Transports are preferred transport modes.
	Transports []string `json:"transports,omitempty"`

	// GroupSizes are typical travel party sizes.
	GroupSizes []int `json:"group_sizes,omitempty"`

	// Seasons are preferred travel seasons (spring, summer, fall, winter).
	Seasons []string `json:"seasons,omitempty"`

	// Cuisines are preferred cuisine types.
	Cuisines []string `json:"cuisines,omitempty"`

	// ActivityLevels are declared activity levels (low, moderate, high, extreme).
	ActivityLevels []string `json:"activity_levels,omitempty"`

	// CulturalOpenness is a trait scalar in [0,1].
	CulturalOpenness float64 `json:"cultural_openness"`

	// AdventureSeeking is a trait scalar in [0,1].
	AdventureSeeking float64 `json:"adventure_seeking"`

	// LuxuryPreference is a trait scalar in [0,1].
	LuxuryPreference float64 `json:"luxury_preference"`
}

// UserProfile is the per-user learning state. Histories are append-only;
// insertion order is chronological.
type UserProfile struct {
	// UserID is the opaque unique user identifier.
	UserID string `json:"user_id"`

	// Preferences are declared plus implicitly adjusted preferences.
	Preferences Preferences `json:"preferences"`

	// BehaviorHistory is the append-only interaction event sequence.
	BehaviorHistory []UserBehavior `json:"behavior_history,omitempty"`

	// TripHistory is the append-only completed trip sequence.
	TripHistory []CompletedTrip `json:"trip_history,omitempty"`

	// LearningVector is the current feature vector, length FeatureCount.
	LearningVector []float64 `json:"learning_vector"`

	// LastUpdated is stamped on every mutation.
	LastUpdated time.Time `json:"last_updated"`

	// ConfidenceScore estimates personalization quality, in [0,1].
	// Recomputed from history on every training call, never patched.
	ConfidenceScore float64 `json:"confidence_score"`
}

// Clone returns a deep copy of the profile. The store hands out clones so
// callers cannot mutate stored state.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Preferences.TravelStyles = append([]string(nil), p.Preferences.TravelStyles...)
	cp.Preferences.Interests = append([]string(nil), p.Preferences.Interests...)
	cp.Preferences.Accommodations = append([]string(nil), p.Preferences.Accommodations...)
	cp.Preferences.Transports = append([]string(nil), p.Preferences.Transports...)
	cp.Preferences.GroupSizes = append([]int(nil), p.Preferences.GroupSizes...)
	cp.Preferences.Seasons = append([]string(nil), p.Preferences.Seasons...)
	cp.Preferences.Cuisines = append([]string(nil), p.Preferences.Cuisines...)
	cp.Preferences.ActivityLevels = append([]string(nil), p.Preferences.ActivityLevels...)
	cp.BehaviorHistory = append([]UserBehavior(nil), p.BehaviorHistory...)
	cp.TripHistory = append([]CompletedTrip(nil), p.TripHistory...)
	cp.LearningVector = append([]float64(nil), p.LearningVector...)
	return &cp
}

// Query narrows a recommendation request. All fields are optional.
type Query struct {
	// Budget overrides the profile's preferred budget midpoint when positive.
	Budget float64 `json:"budget,omitempty"`

	// Interests filter and boost matching destinations.
	Interests []string `json:"interests,omitempty"`

	// TravelStyle overrides the profile's top preferred style.
	TravelStyle string `json:"travel_style,omitempty"`

	// DurationDays is the intended trip length.
	DurationDays int `json:"duration_days,omitempty"`
}

// ActivityStats aggregates peer behavior toward an activity.
type ActivityStats struct {
	// AverageRating is the mean peer rating, 0 when unrated.
	AverageRating float64 `json:"average_rating"`

	// CompletionRate is the fraction of peers who booked after liking/saving.
	CompletionRate float64 `json:"completion_rate"`

	// RepeatRate is the fraction of peers with more than one positive event.
	RepeatRate float64 `json:"repeat_rate"`

	// PeerCount is the number of peers the stats were aggregated from.
	PeerCount int `json:"peer_count"`
}

// ActivityRecommendation is one ranked activity suggestion.
type ActivityRecommendation struct {
	// Name is the activity name as recorded in peer behavior.
	Name string `json:"name"`

	// PredictedEnjoyment is the estimated enjoyment for the requesting user,
	// in [0,1]. Only candidates above the enjoyment threshold are returned.
	PredictedEnjoyment float64 `json:"predicted_enjoyment"`

	// Stats summarizes peer behavior toward the activity.
	Stats ActivityStats `json:"stats"`
}

// BudgetAllocation splits a target budget across spending categories.
type BudgetAllocation struct {
	Accommodation  float64 `json:"accommodation"`
	Food           float64 `json:"food"`
	Activities     float64 `json:"activities"`
	Transportation float64 `json:"transportation"`
	Shopping       float64 `json:"shopping"`
	Emergency      float64 `json:"emergency"`
}

// BudgetOptimization is the budget planning section of a prediction.
type BudgetOptimization struct {
	// TargetBudget is the budget the allocation was computed for.
	TargetBudget float64 `json:"target_budget"`

	// Allocation is the per-category split.
	Allocation BudgetAllocation `json:"allocation"`

	// SavingSuggestions are short cost-reduction hints.
	SavingSuggestions []string `json:"saving_suggestions,omitempty"`

	// SplurgeSuggestions are short worth-the-money hints.
	SplurgeSuggestions []string `json:"splurge_suggestions,omitempty"`
}

// TimingRecommendation suggests when to visit a destination.
type TimingRecommendation struct {
	// Destination is the destination the timing applies to.
	Destination string `json:"destination"`

	// BestSeasons are the recommended travel seasons, most suitable first.
	BestSeasons []string `json:"best_seasons"`

	// Reason is a short human-readable explanation.
	Reason string `json:"reason,omitempty"`
}

// ConfidenceInterval is a closed interval within [0,1].
type ConfidenceInterval struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// PredictionResult is a complete recommendation response. It is derived state:
// recomputed fresh on every request and never persisted.
type PredictionResult struct {
	// DestinationScores maps candidate destination names to scores in [0,1].
	DestinationScores map[string]float64 `json:"destination_scores"`

	// Activities is the ranked activity list, highest enjoyment first.
	Activities []ActivityRecommendation `json:"activities"`

	// Budget is the budget optimization section.
	Budget BudgetOptimization `json:"budget"`

	// Timing holds per-destination timing hints. May be empty.
	Timing []TimingRecommendation `json:"timing,omitempty"`

	// Alternatives suggests destinations just below the top ranks. May be empty.
	Alternatives []string `json:"alternatives,omitempty"`

	// PersonalizationLevel mirrors the requesting profile's confidence score.
	PersonalizationLevel float64 `json:"personalization_level"`

	// Confidence is the self-reported confidence interval.
	Confidence ConfidenceInterval `json:"confidence"`

	// GeneratedAt is when the result was composed.
	GeneratedAt time.Time `json:"generated_at"`
}

// FeedbackAction tells the feedback loop how the user responded.
type FeedbackAction string

// Feedback actions.
const (
	FeedbackAccepted FeedbackAction = "accepted"
	FeedbackRejected FeedbackAction = "rejected"
)

// Feedback is explicit feedback on a previously served recommendation.
type Feedback struct {
	// RecommendationID identifies the recommendation being rated.
	RecommendationID string `json:"recommendation_id"`

	// Rating is a 1-5 rating of the recommendation.
	Rating int `json:"rating"`

	// Comments is optional free-form text.
	Comments string `json:"comments,omitempty"`

	// Action is whether the user accepted or rejected the recommendation.
	Action FeedbackAction `json:"action"`
}

// clamp01 bounds v to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
