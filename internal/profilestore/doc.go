// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

// Package profilestore persists user profiles and the shared weight vector.
//
// Two implementations back the learner.ProfileStore interface: a BadgerDB
// store for production (one key per profile plus a schema-version key and a
// weights key) and an in-memory store for tests. A versioned JSON snapshot
// envelope supports wholesale export and startup import.
package profilestore
