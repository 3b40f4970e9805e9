// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package learner

import (
	"math"
	"strings"
	"time"
)

// Extractor converts a profile into a fixed-length feature vector.
// Extraction is deterministic and never fails; missing data resolves to the
// documented per-feature default.
type Extractor struct {
	referenceBudget float64
	stabilityWindow int
}

// NewExtractor builds an Extractor from config.
func NewExtractor(cfg Config) *Extractor {
	return &Extractor{
		referenceBudget: cfg.ReferenceBudget,
		stabilityWindow: cfg.StabilityWindow,
	}
}

// seasonScores is the fixed per-season score table for the seasonality feature.
var seasonScores = map[string]float64{
	"spring": 0.25,
	"summer": 0.5,
	"fall":   0.75,
	"autumn": 0.75,
	"winter": 1.0,
}

// activityLevelScores is the fixed per-level score table for activity intensity.
var activityLevelScores = map[string]float64{
	"low":      0.2,
	"moderate": 0.5,
	"high":     0.8,
	"extreme":  1.0,
}

// sunnyConditions are weather substrings counted as sunny-like for the
// weather-preference feature.
var sunnyConditions = []string{"sunny", "clear", "warm", "mild"}

// Extract computes the feature vector for a profile. The result always has
// length FeatureCount and every component lies in [0,1].
func (e *Extractor) Extract(p *UserProfile) []float64 {
	v := make([]float64, FeatureCount)

	v[FeatureBudget] = e.budgetFactor(p)
	v[FeatureSeasonality] = seasonality(p.Preferences.Seasons)
	v[FeatureWeatherPreference] = weatherPreference(p.TripHistory)
	v[FeatureActivityIntensity] = activityIntensity(p.Preferences.ActivityLevels)
	v[FeatureCulturalImmersion] = traitOrDefault(p.Preferences.CulturalOpenness)
	v[FeatureLuxuryLevel] = traitOrDefault(p.Preferences.LuxuryPreference)
	v[FeatureGroupDynamics] = groupDynamics(p.Preferences.GroupSizes)
	v[FeatureSpontaneity] = spontaneity(p.TripHistory)
	v[FeaturePhotoOpportunities] = photoOpportunities(p.TripHistory)
	v[FeatureCulinaryExploration] = clamp01(float64(len(p.Preferences.Cuisines)) / 10)
	v[FeatureClickThroughRate] = clickThroughRate(p.BehaviorHistory)
	v[FeatureBookingConversion] = bookingConversion(p.BehaviorHistory)
	v[FeatureAverageSessionTime] = averageSessionTime(p.BehaviorHistory)
	v[FeaturePreferenceStability] = preferenceStability(p.BehaviorHistory, e.stabilityWindow)
	v[FeatureSeasonalVariation] = seasonalVariation(p.TripHistory)

	return v
}

func (e *Extractor) budgetFactor(p *UserProfile) float64 {
	mid := p.Preferences.Budget.Midpoint()
	if mid <= 0 || e.referenceBudget <= 0 {
		return 0
	}
	return clamp01(mid / e.referenceBudget)
}

func seasonality(seasons []string) float64 {
	if len(seasons) == 0 {
		return 0.5
	}
	var sum float64
	var n int
	for _, s := range seasons {
		if score, ok := seasonScores[strings.ToLower(s)]; ok {
			sum += score
			n++
		}
	}
	if n == 0 {
		return 0.5
	}
	return sum / float64(n)
}

// weatherPreference is the fraction of sunny-like conditions across trips
// rated 4 or better. Default 0.7 without evidence.
func weatherPreference(trips []CompletedTrip) float64 {
	var sunny, total int
	for _, t := range trips {
		if t.Satisfaction < 4 {
			continue
		}
		for _, cond := range t.WeatherExperienced {
			total++
			lc := strings.ToLower(cond)
			for _, s := range sunnyConditions {
				if strings.Contains(lc, s) {
					sunny++
					break
				}
			}
		}
	}
	if total == 0 {
		return 0.7
	}
	return float64(sunny) / float64(total)
}

func activityIntensity(levels []string) float64 {
	if len(levels) == 0 {
		return 0.5
	}
	var sum float64
	var n int
	for _, l := range levels {
		if score, ok := activityLevelScores[strings.ToLower(l)]; ok {
			sum += score
			n++
		}
	}
	if n == 0 {
		return 0.5
	}
	return sum / float64(n)
}

func traitOrDefault(t float64) float64 {
	if t <= 0 {
		return 0.5
	}
	return clamp01(t)
}

func groupDynamics(sizes []int) float64 {
	maxSize := 0
	for _, s := range sizes {
		if s > maxSize {
			maxSize = s
		}
	}
	if maxSize == 0 {
		return 0.2
	}
	return clamp01(float64(maxSize) / 10)
}

// spontaneity derives from booking lead time: short leads between booking and
// departure read as spontaneous travel. Trips without both timestamps are
// skipped; with no evidence the feature defaults to 0.5.
func spontaneity(trips []CompletedTrip) float64 {
	var totalDays float64
	var n int
	for _, t := range trips {
		if t.BookedAt.IsZero() || t.StartedAt.IsZero() || t.StartedAt.Before(t.BookedAt) {
			continue
		}
		totalDays += t.StartedAt.Sub(t.BookedAt).Hours() / 24
		n++
	}
	if n == 0 {
		return 0.5
	}
	meanLead := totalDays / float64(n)
	return 1 - clamp01(meanLead/90)
}

func photoOpportunities(trips []CompletedTrip) float64 {
	if len(trips) == 0 {
		return 0.5
	}
	var total int
	for _, t := range trips {
		total += t.PhotoCount
	}
	mean := float64(total) / float64(len(trips))
	return clamp01(mean / 100)
}

func clickThroughRate(events []UserBehavior) float64 {
	var views, engaged int
	for _, b := range events {
		switch b.Action {
		case ActionView:
			views++
		case ActionLike, ActionSave, ActionBook:
			engaged++
		}
	}
	if views == 0 {
		return 0.1
	}
	return clamp01(float64(engaged) / float64(views))
}

func bookingConversion(events []UserBehavior) float64 {
	var books, intents int
	for _, b := range events {
		switch b.Action {
		case ActionBook:
			books++
		case ActionLike, ActionSave:
			intents++
		}
	}
	if intents == 0 {
		return 0.05
	}
	return clamp01(float64(books) / float64(intents))
}

func averageSessionTime(events []UserBehavior) float64 {
	var total time.Duration
	var n int
	for _, b := range events {
		if b.Context.SessionDuration > 0 {
			total += b.Context.SessionDuration
			n++
		}
	}
	if n == 0 {
		return 0.5
	}
	hours := (total / time.Duration(n)).Hours()
	return clamp01(hours)
}

// preferenceStability blends rating consistency with choice consistency over
// the most recent window of events. Rating consistency is 1 minus the rating
// standard deviation normalized by the widest possible spread; choice
// consistency is the share of the dominant target type. Fewer than 10 events
// defaults to 0.5.
func preferenceStability(events []UserBehavior, window int) float64 {
	if len(events) < 10 {
		return 0.5
	}
	if window > 0 && len(events) > window {
		events = events[len(events)-window:]
	}

	var ratings []float64
	targetCounts := make(map[TargetType]int)
	for _, b := range events {
		if b.Feedback != nil && b.Feedback.Rating >= 1 && b.Feedback.Rating <= 5 {
			ratings = append(ratings, float64(b.Feedback.Rating))
		}
		targetCounts[b.TargetType]++
	}

	ratingConsistency := 0.5
	if len(ratings) >= 2 {
		var sum float64
		for _, r := range ratings {
			sum += r
		}
		mean := sum / float64(len(ratings))
		var variance float64
		for _, r := range ratings {
			variance += (r - mean) * (r - mean)
		}
		stddev := math.Sqrt(variance / float64(len(ratings)))
		// max possible stddev on a 1-5 scale is 2
		ratingConsistency = 1 - clamp01(stddev/2)
	}

	dominant := 0
	for _, c := range targetCounts {
		if c > dominant {
			dominant = c
		}
	}
	choiceConsistency := float64(dominant) / float64(len(events))

	return clamp01(0.5*ratingConsistency + 0.5*choiceConsistency)
}

func seasonalVariation(trips []CompletedTrip) float64 {
	if len(trips) < 2 {
		return 0.5
	}
	seasons := make(map[string]struct{})
	for _, t := range trips {
		if t.Season != "" {
			seasons[strings.ToLower(t.Season)] = struct{}{}
		}
	}
	if len(seasons) == 0 {
		return 0.5
	}
	return clamp01(float64(len(seasons)) / 4)
}
