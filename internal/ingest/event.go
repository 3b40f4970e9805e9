// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package ingest

import (
	"fmt"
	"time"

	"github.com/tomtom215/wayfinder/internal/learner"
)

// Topic is the Pub/Sub topic raw behavior events travel on.
const Topic = "behavior.events"

// Event is one raw UI interaction as submitted at the API boundary.
type Event struct {
	// UserID identifies the acting user.
	UserID string `json:"user_id" validate:"required"`

	// Timestamp is when the interaction happened. Zero means receive time.
	Timestamp time.Time `json:"timestamp,omitempty"`

	// Action is the interaction kind.
	Action learner.BehaviorAction `json:"action" validate:"required"`

	// TargetType is what kind of entity was acted on.
	TargetType learner.TargetType `json:"target_type" validate:"required"`

	// TargetID identifies the entity.
	TargetID string `json:"target_id" validate:"required"`

	// Context is optional free-form event context.
	Context learner.BehaviorContext `json:"context,omitempty"`

	// Feedback is optional explicit feedback.
	Feedback *learner.BehaviorFeedback `json:"feedback,omitempty"`
}

// Validate checks the event beyond struct tags.
func (e *Event) Validate() error {
	if e.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if !e.Action.Valid() {
		return fmt.Errorf("unknown action %q", e.Action)
	}
	if !e.TargetType.Valid() {
		return fmt.Errorf("unknown target_type %q", e.TargetType)
	}
	if e.TargetID == "" {
		return fmt.Errorf("target_id is required")
	}
	if e.Feedback != nil && e.Feedback.Rating != 0 && (e.Feedback.Rating < 1 || e.Feedback.Rating > 5) {
		return fmt.Errorf("rating must be between 1 and 5, got %d", e.Feedback.Rating)
	}
	return nil
}

// Behavior converts the event to the learner's record form, stamping the
// receive time when the client omitted one.
func (e *Event) Behavior(receivedAt time.Time) learner.UserBehavior {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = receivedAt
	}
	return learner.UserBehavior{
		Timestamp:  ts,
		Action:     e.Action,
		TargetType: e.TargetType,
		TargetID:   e.TargetID,
		Context:    e.Context,
		Feedback:   e.Feedback,
	}
}
