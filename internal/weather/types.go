// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package weather

import "time"

// Conditions describes the weather at one point in time.
type Conditions struct {
	// Summary is a short condition label (sunny, cloudy, rainy...).
	Summary string `json:"summary"`

	// TemperatureC is the air temperature in Celsius.
	TemperatureC float64 `json:"temperature_c"`

	// HumidityPct is relative humidity, 0-100.
	HumidityPct float64 `json:"humidity_pct"`
}

// ForecastDay is one day of the short forecast.
type ForecastDay struct {
	Date    time.Time  `json:"date"`
	Day     Conditions `json:"day"`
	HighC   float64    `json:"high_c"`
	LowC    float64    `json:"low_c"`
	RainPct float64    `json:"rain_pct"`
}

// Snapshot is a complete weather lookup result for one place.
type Snapshot struct {
	// Place is the looked-up place name.
	Place string `json:"place"`

	// Current is the present conditions.
	Current Conditions `json:"current"`

	// Forecast covers the next few days, shortest first.
	Forecast []ForecastDay `json:"forecast,omitempty"`

	// MonthlyAvgC holds historical average temperatures, January first.
	MonthlyAvgC [12]float64 `json:"monthly_avg_c"`

	// Synthetic marks snapshots fabricated for unknown places or upstream
	// failures.
	Synthetic bool `json:"synthetic,omitempty"`

	// FetchedAt is when the snapshot was obtained.
	FetchedAt time.Time `json:"fetched_at"`
}
