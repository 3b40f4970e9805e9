// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package learner

import "time"

// baseConfidence is the floor every profile starts from, including brand-new
// profiles with no history.
const baseConfidence = 0.3

// ConfidenceScore estimates personalization quality from history volume.
// It is a pure function of the profile's histories and the reference time:
// base 0.3, up to 0.3 from total behaviors (cap at 100), up to 0.2 from trips
// (cap at 10), up to 0.2 from behaviors in the trailing 30 days (cap at 20).
func ConfidenceScore(p *UserProfile, now time.Time) float64 {
	score := baseConfidence

	score += minF(0.3, float64(len(p.BehaviorHistory))/100)
	score += minF(0.2, float64(len(p.TripHistory))/10)

	cutoff := now.Add(-30 * 24 * time.Hour)
	var recent int
	for _, b := range p.BehaviorHistory {
		if b.Timestamp.After(cutoff) {
			recent++
		}
	}
	score += minF(0.2, float64(recent)/20)

	return clamp01(score)
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
