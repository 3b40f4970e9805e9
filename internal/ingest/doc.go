// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

// Package ingest buffers raw UI interaction events and feeds them to the
// learning engine in batches.
//
// Events enter through Publisher.Publish, travel over an in-process Watermill
// Pub/Sub, and accumulate in per-user buffers inside the Ingestor. A buffer
// flushes to the trainer when it reaches the batch size, when the flush
// interval elapses, or when the ingestor shuts down. The ingestor runs as a
// suture-supervised service.
package ingest
