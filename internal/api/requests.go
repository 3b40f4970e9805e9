// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/wayfinder/internal/learner"
	"github.com/tomtom215/wayfinder/internal/validation"
)

// TrainRequest is the payload for explicit training calls.
type TrainRequest struct {
	// Behaviors are interaction events to learn from.
	Behaviors []learner.UserBehavior `json:"behaviors" validate:"max=500"`

	// Trips are completed trips to learn from.
	Trips []learner.CompletedTrip `json:"trips" validate:"max=100"`
}

// Validate checks semantic constraints struct tags cannot express.
func (t *TrainRequest) Validate() error {
	for i, b := range t.Behaviors {
		if !b.Action.Valid() {
			return fmt.Errorf("behaviors[%d]: unknown action %q", i, b.Action)
		}
		if !b.TargetType.Valid() {
			return fmt.Errorf("behaviors[%d]: unknown target_type %q", i, b.TargetType)
		}
	}
	for i, trip := range t.Trips {
		if trip.Satisfaction < 1 || trip.Satisfaction > 5 {
			return fmt.Errorf("trips[%d]: satisfaction must be between 1 and 5, got %d", i, trip.Satisfaction)
		}
		if err := validation.ValidateVar(trip.Season, "omitempty,season"); err != nil {
			return fmt.Errorf("trips[%d]: season %q is not a season name", i, trip.Season)
		}
	}
	return nil
}

// FeedbackRequest is the payload for recommendation feedback.
type FeedbackRequest struct {
	// RecommendationID identifies the recommendation being rated.
	RecommendationID string `json:"recommendation_id" validate:"required,max=128"`

	// Rating is a 1-5 rating.
	Rating int `json:"rating" validate:"required,gte=1,lte=5"`

	// Comments is optional free-form text.
	Comments string `json:"comments" validate:"omitempty,max=2000"`

	// Action is "accepted" or "rejected".
	Action string `json:"action" validate:"required,oneof=accepted rejected"`
}

// Feedback converts the request to the learner's form.
func (f *FeedbackRequest) Feedback() learner.Feedback {
	return learner.Feedback{
		RecommendationID: f.RecommendationID,
		Rating:           f.Rating,
		Comments:         f.Comments,
		Action:           learner.FeedbackAction(f.Action),
	}
}

// parseQuery reads recommendation parameters from the URL query string.
//
//	?budget=2500&interests=food,culture&travel_style=comfort&duration_days=7
func parseQuery(values url.Values) (learner.Query, error) {
	var q learner.Query

	if raw := values.Get("budget"); raw != "" {
		budget, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, fmt.Errorf("budget %q is not a number", raw)
		}
		if budget < 0 {
			return q, fmt.Errorf("budget must not be negative, got %v", budget)
		}
		q.Budget = budget
	}

	if raw := values.Get("interests"); raw != "" {
		for _, interest := range strings.Split(raw, ",") {
			if interest = strings.TrimSpace(interest); interest != "" {
				q.Interests = append(q.Interests, interest)
			}
		}
	}

	q.TravelStyle = strings.TrimSpace(values.Get("travel_style"))

	if raw := values.Get("duration_days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("duration_days %q is not an integer", raw)
		}
		if days < 0 {
			return q, fmt.Errorf("duration_days must not be negative, got %d", days)
		}
		q.DurationDays = days
	}

	return q, nil
}
