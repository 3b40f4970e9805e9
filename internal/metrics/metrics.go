// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Training Metrics
	TrainTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "learner_train_total",
			Help: "Total number of training calls",
		},
	)

	TrainDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "learner_train_duration_seconds",
			Help:    "Duration of training calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	TrainErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "learner_train_errors_total",
			Help: "Total number of failed training calls",
		},
	)

	// Recommendation Metrics
	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "learner_recommend_duration_seconds",
			Help:    "Duration of recommendation composition in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecommendDefaultServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "learner_recommend_default_served_total",
			Help: "Recommendations served from the fixed default result",
		},
	)

	FeedbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learner_feedback_total",
			Help: "Total number of feedback submissions",
		},
		[]string{"action", "rating"},
	)

	// Weather Lookup Metrics
	WeatherLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_lookups_total",
			Help: "Total number of weather lookups by outcome",
		},
		[]string{"outcome"}, // "hit", "miss", "error", "synthetic"
	)

	WeatherLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "weather_lookup_duration_seconds",
			Help:    "Duration of upstream weather fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Ingestion Metrics
	IngestEventsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_events_total",
			Help: "Total number of behavior events accepted for ingestion",
		},
	)

	IngestBatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_batches_total",
			Help: "Total number of flushed ingestion batches by trigger",
		},
		[]string{"trigger"}, // "size", "interval", "shutdown"
	)

	IngestBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_batch_size",
			Help:    "Number of events per flushed batch",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		},
	)

	IngestDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_dropped_total",
			Help: "Behavior events dropped due to failed training flushes",
		},
	)

	// Profile Store Metrics
	ProfileCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "profilestore_profiles",
			Help: "Current number of stored user profiles",
		},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "profilestore_operation_duration_seconds",
			Help:    "Duration of profile store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "get", "upsert", "list", "save_weights"
	)

	// HTTP API Metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
)

// RecordHTTPRequest records one completed HTTP request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	s := strconv.Itoa(status)
	HTTPRequestsTotal.WithLabelValues(method, path, s).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, s).Observe(duration.Seconds())
}

// RecordFeedback records one feedback submission.
func RecordFeedback(action string, rating int) {
	FeedbackTotal.WithLabelValues(action, strconv.Itoa(rating)).Inc()
}

// RecordWeatherLookup records one weather lookup outcome.
func RecordWeatherLookup(outcome string) {
	WeatherLookups.WithLabelValues(outcome).Inc()
}

// RecordIngestBatch records one flushed ingestion batch.
func RecordIngestBatch(trigger string, size int) {
	IngestBatchesTotal.WithLabelValues(trigger).Inc()
	IngestBatchSize.Observe(float64(size))
}

// ObserveStoreOperation records one profile store operation.
func ObserveStoreOperation(operation string, duration time.Duration) {
	StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
