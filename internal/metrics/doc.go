// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

// Package metrics exposes Prometheus instrumentation for the learning engine:
// training throughput and latency, recommendation latency, weather lookup
// outcomes and cache efficiency, ingestion batching, profile store operations
// and the HTTP surface. Metrics register through promauto at package init and
// are served on /metrics by the API router.
package metrics
