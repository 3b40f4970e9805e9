// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/wayfinder/internal/ingest"
	"github.com/tomtom215/wayfinder/internal/learner"
	"github.com/tomtom215/wayfinder/internal/validation"
)

// maxBodyBytes bounds request payloads.
const maxBodyBytes = 1 << 20

// Service is the slice of the learning engine the handlers drive.
type Service interface {
	Train(ctx context.Context, userID string, behaviors []learner.UserBehavior, trips []learner.CompletedTrip) (*learner.UserProfile, error)
	Recommend(ctx context.Context, userID string, q learner.Query) (*learner.PredictionResult, error)
	ProcessFeedback(ctx context.Context, userID string, fb learner.Feedback) error
	Profile(ctx context.Context, userID string) (*learner.UserProfile, error)
}

// Publisher enqueues raw behavior events for batched training.
type Publisher interface {
	Publish(ctx context.Context, e ingest.Event) error
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	svc     Service
	pub     Publisher
	log     zerolog.Logger
	version string
	started time.Time
}

// NewHandlers builds the handler set.
func NewHandlers(svc Service, pub Publisher, version string, log zerolog.Logger) *Handlers {
	return &Handlers{
		svc:     svc,
		pub:     pub,
		log:     log.With().Str("component", "api").Logger(),
		version: version,
		started: time.Now(),
	}
}

// PublishEvent accepts one raw behavior event and queues it for batched
// training. POST /api/v1/events
func (h *Handlers) PublishEvent(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)

	var e ingest.Event
	if !decodeBody(rw, r, &e) {
		return
	}
	if err := e.Validate(); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if err := h.pub.Publish(r.Context(), e); err != nil {
		rw.InternalError(err)
		return
	}

	rw.Accepted(map[string]string{"status": "queued"})
}

// Train runs one explicit training pass for a user and returns the updated
// profile. POST /api/v1/users/{userID}/train
func (h *Handlers) Train(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	userID := chi.URLParam(r, "userID")

	var req TrainRequest
	if !decodeBody(rw, r, &req) {
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError(verr.Error(), verr.Fields())
		return
	}
	if err := req.Validate(); err != nil {
		rw.BadRequest(err.Error())
		return
	}

	profile, err := h.svc.Train(r.Context(), userID, req.Behaviors, req.Trips)
	if err != nil {
		rw.InternalError(err)
		return
	}
	rw.Success(profile)
}

// Recommendations serves a freshly composed recommendation set.
// GET /api/v1/users/{userID}/recommendations
func (h *Handlers) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	userID := chi.URLParam(r, "userID")

	q, err := parseQuery(r.URL.Query())
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	result, err := h.svc.Recommend(r.Context(), userID, q)
	if err != nil {
		rw.InternalError(err)
		return
	}
	rw.Success(result)
}

// Feedback records explicit feedback on a served recommendation.
// POST /api/v1/users/{userID}/feedback
func (h *Handlers) Feedback(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	userID := chi.URLParam(r, "userID")

	var req FeedbackRequest
	if !decodeBody(rw, r, &req) {
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError(verr.Error(), verr.Fields())
		return
	}

	// ProcessFeedback creates a profile for an unseen user, so a not-found
	// outcome cannot happen here.
	if err := h.svc.ProcessFeedback(r.Context(), userID, req.Feedback()); err != nil {
		if errors.Is(err, learner.ErrInvalidRating) {
			rw.BadRequest(err.Error())
		} else {
			rw.InternalError(err)
		}
		return
	}
	rw.Success(map[string]string{"status": "recorded"})
}

// Profile returns a user's learning profile.
// GET /api/v1/users/{userID}/profile
func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	userID := chi.URLParam(r, "userID")

	profile, err := h.svc.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, learner.ErrProfileNotFound) {
			rw.NotFound("profile not found")
			return
		}
		rw.InternalError(err)
		return
	}
	rw.Success(profile)
}

// Status reports service identity and uptime. GET /api/v1/status
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	respond(w, r).Success(map[string]interface{}{
		"service":        "wayfinder",
		"version":        h.version,
		"started_at":     h.started.UTC(),
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	})
}

// Health is the liveness probe. GET /healthz
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
}

// decodeBody reads a bounded JSON body into dst, answering 400 on failure.
func decodeBody(rw *responder, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer body.Close() //nolint:errcheck

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		rw.BadRequest("invalid JSON body: " + err.Error())
		return false
	}
	return true
}
