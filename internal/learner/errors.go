// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package learner

import "errors"

var (
	// ErrProfileNotFound is returned by profile stores when no profile exists
	// for the requested user. Train treats it as a signal to create a default
	// profile; Recommend treats it as a signal to serve the default result.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrInvalidRating is returned by ProcessFeedback for ratings outside 1-5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)
