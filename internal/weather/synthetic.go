// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package weather

import (
	"hash/fnv"
	"strings"
	"time"
)

var syntheticSummaries = []string{
	"sunny",
	"partly cloudy",
	"cloudy",
	"light rain",
	"clear",
}

// Synthesize fabricates a plausible snapshot for a place with no upstream
// data. The output is a pure function of the place name and the given time's
// month, so repeated lookups stay consistent within a month.
func Synthesize(place string, now time.Time) *Snapshot {
	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(place)))) //nolint:errcheck
	seed := h.Sum64()

	// base climate between 5C and 25C annual mean, from the name hash
	baseTemp := 5 + float64(seed%21)

	var monthly [12]float64
	for m := 0; m < 12; m++ {
		// crude seasonal swing peaking in July
		swing := 10 * seasonalFactor(m)
		monthly[m] = baseTemp + swing
	}

	month := int(now.Month()) - 1
	summary := syntheticSummaries[(seed/31)%uint64(len(syntheticSummaries))]

	snap := &Snapshot{
		Place: place,
		Current: Conditions{
			Summary:      summary,
			TemperatureC: monthly[month],
			HumidityPct:  40 + float64(seed%41),
		},
		MonthlyAvgC: monthly,
		Synthetic:   true,
		FetchedAt:   now,
	}

	for d := 1; d <= 3; d++ {
		snap.Forecast = append(snap.Forecast, ForecastDay{
			Date: now.AddDate(0, 0, d),
			Day: Conditions{
				Summary:      syntheticSummaries[(seed/uint64(7*d))%uint64(len(syntheticSummaries))],
				TemperatureC: monthly[month],
			},
			HighC:   monthly[month] + 4,
			LowC:    monthly[month] - 5,
			RainPct: float64((seed / uint64(13*d)) % 60),
		})
	}
	return snap
}

// seasonalFactor maps a zero-based month onto [0,1], peaking in July.
func seasonalFactor(month int) float64 {
	distance := month - 6
	if distance < 0 {
		distance = -distance
	}
	return 1 - float64(distance)/6
}
