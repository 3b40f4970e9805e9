// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig controls the cross-cutting middleware.
type RouterConfig struct {
	// CORSOrigins lists allowed cross-origin callers. Empty allows none.
	CORSOrigins []string

	// RateLimit is the per-IP request budget per minute. 0 disables limiting.
	RateLimit int
}

// NewRouter assembles the HTTP routing table.
func NewRouter(h *Handlers, cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(securityHeaders)
	if len(cfg.CORSOrigins) > 0 {
		r.Use(corsMiddleware(cfg.CORSOrigins))
	}

	r.Get("/healthz", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(metricsMiddleware)
		r.Use(rateLimitMiddleware(cfg.RateLimit))

		r.Get("/status", h.Status)
		r.Post("/events", h.PublishEvent)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Post("/train", h.Train)
			r.Get("/recommendations", h.Recommendations)
			r.Post("/feedback", h.Feedback)
			r.Get("/profile", h.Profile)
		})
	})

	return r
}
