// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

// Package api exposes the learner over HTTP: event ingestion, training,
// recommendations, feedback and profile inspection, plus health and metrics
// endpoints. All endpoints share one response envelope.
package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wayfinder/internal/logging"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	// Success indicates whether the request was handled.
	Success bool `json:"success"`

	// Data carries the payload. Null on error.
	Data interface{} `json:"data,omitempty"`

	// Error carries error details. Null on success.
	Error *Error `json:"error,omitempty"`

	// Meta carries response metadata.
	Meta *Meta `json:"meta,omitempty"`
}

// Error is the error half of the envelope.
type Error struct {
	// Code is a machine-readable error code.
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Details carries optional structured details.
	Details interface{} `json:"details,omitempty"`

	// RequestID traces the failing request.
	RequestID string `json:"request_id,omitempty"`
}

// Meta is response metadata.
type Meta struct {
	// RequestID traces the request.
	RequestID string `json:"request_id,omitempty"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`

	// DurationMs is the handling time in milliseconds.
	DurationMs int64 `json:"duration_ms"`
}

// Error codes.
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// responder writes envelope responses for one request.
type responder struct {
	w     http.ResponseWriter
	r     *http.Request
	start time.Time
}

func respond(w http.ResponseWriter, r *http.Request) *responder {
	return &responder{w: w, r: r, start: time.Now()}
}

// Success writes a 200 with data.
func (rw *responder) Success(data interface{}) {
	rw.write(http.StatusOK, Response{Success: true, Data: data, Meta: rw.meta()})
}

// Accepted writes a 202 for requests queued rather than handled inline.
func (rw *responder) Accepted(data interface{}) {
	rw.write(http.StatusAccepted, Response{Success: true, Data: data, Meta: rw.meta()})
}

// Error writes an error envelope with the given status.
func (rw *responder) Error(status int, code, message string) {
	rw.ErrorWithDetails(status, code, message, nil)
}

// ErrorWithDetails writes an error envelope carrying structured details.
func (rw *responder) ErrorWithDetails(status int, code, message string, details interface{}) {
	meta := rw.meta()
	rw.write(status, Response{
		Success: false,
		Error: &Error{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: meta.RequestID,
		},
		Meta: meta,
	})
}

// BadRequest writes a 400.
func (rw *responder) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeBadRequest, message)
}

// ValidationError writes a 400 with per-field details.
func (rw *responder) ValidationError(message string, details interface{}) {
	rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed, message, details)
}

// NotFound writes a 404.
func (rw *responder) NotFound(message string) {
	rw.Error(http.StatusNotFound, ErrCodeNotFound, message)
}

// InternalError writes a 500. The underlying error is logged, not exposed.
func (rw *responder) InternalError(err error) {
	logging.FromContext(rw.r.Context()).Error().Err(err).
		Str("path", rw.r.URL.Path).
		Msg("request failed")
	rw.Error(http.StatusInternalServerError, ErrCodeInternalError, "internal error")
}

func (rw *responder) meta() *Meta {
	return &Meta{
		RequestID:  logging.RequestID(rw.r.Context()),
		Timestamp:  time.Now(),
		DurationMs: time.Since(rw.start).Milliseconds(),
	}
}

func (rw *responder) write(status int, resp Response) {
	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.WriteHeader(status)
	if err := json.NewEncoder(rw.w).Encode(resp); err != nil {
		logging.Logger().Error().Err(err).Msg("encoding response")
	}
}
