// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

// Package weather looks up weather snapshots for destinations and scores
// their compatibility with a user's weather preference.
//
// Lookups go through a TTL cache keyed by place name, a rate limiter and a
// circuit breaker. Upstream failures and unknown places never surface as
// errors from Current: the client falls back to a deterministic synthetic
// snapshot derived from a hash of the place name, so recommendation scoring
// always has something to blend.
package weather
