// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

// Package catalog supplies the candidate destination set the composer scores.
// The built-in seed set covers a spread of regions, budget bands and interest
// tags; deployments can extend it from configuration.
package catalog

import "github.com/tomtom215/wayfinder/internal/learner"

// seed is the built-in destination set.
var seed = []learner.Destination{
	{
		Name:          "Kyoto",
		Region:        "East Asia",
		TypicalBudget: learner.BudgetRange{Min: 1800, Max: 3500},
		BestSeasons:   []string{"spring", "fall"},
		Tags:          []string{"culture", "history", "food"},
	},
	{
		Name:          "Lisbon",
		Region:        "Southern Europe",
		TypicalBudget: learner.BudgetRange{Min: 1200, Max: 2500},
		BestSeasons:   []string{"spring", "summer", "fall"},
		Tags:          []string{"food", "culture", "beaches"},
	},
	{
		Name:          "Bangkok",
		Region:        "Southeast Asia",
		TypicalBudget: learner.BudgetRange{Min: 800, Max: 2000},
		BestSeasons:   []string{"winter"},
		Tags:          []string{"food", "nightlife", "shopping"},
	},
	{
		Name:          "Reykjavik",
		Region:        "Northern Europe",
		TypicalBudget: learner.BudgetRange{Min: 2500, Max: 5000},
		BestSeasons:   []string{"summer"},
		Tags:          []string{"nature", "adventure"},
	},
	{
		Name:          "Queenstown",
		Region:        "Oceania",
		TypicalBudget: learner.BudgetRange{Min: 2200, Max: 4500},
		BestSeasons:   []string{"summer", "winter"},
		Tags:          []string{"adventure", "mountains", "nature"},
	},
	{
		Name:          "Marrakech",
		Region:        "North Africa",
		TypicalBudget: learner.BudgetRange{Min: 900, Max: 2200},
		BestSeasons:   []string{"spring", "fall"},
		Tags:          []string{"culture", "shopping", "history"},
	},
	{
		Name:          "Cusco",
		Region:        "South America",
		TypicalBudget: learner.BudgetRange{Min: 1500, Max: 3000},
		BestSeasons:   []string{"winter"},
		Tags:          []string{"history", "mountains", "adventure"},
	},
	{
		Name:          "Bali",
		Region:        "Southeast Asia",
		TypicalBudget: learner.BudgetRange{Min: 1000, Max: 2800},
		BestSeasons:   []string{"spring", "summer"},
		Tags:          []string{"beaches", "nature", "culture"},
	},
	{
		Name:          "Vancouver",
		Region:        "North America",
		TypicalBudget: learner.BudgetRange{Min: 2000, Max: 4000},
		BestSeasons:   []string{"summer", "fall"},
		Tags:          []string{"nature", "food", "mountains"},
	},
	{
		Name:          "Istanbul",
		Region:        "Western Asia",
		TypicalBudget: learner.BudgetRange{Min: 1100, Max: 2400},
		BestSeasons:   []string{"spring", "fall"},
		Tags:          []string{"history", "culture", "food", "shopping"},
	},
}

// Static serves a fixed destination list.
type Static struct {
	destinations []learner.Destination
}

// NewStatic returns a catalog over the built-in seed set plus any extras.
// Extras with names already in the seed set replace the seed entry.
func NewStatic(extras ...learner.Destination) *Static {
	byName := make(map[string]int, len(seed))
	out := make([]learner.Destination, len(seed))
	copy(out, seed)
	for i, d := range out {
		byName[d.Name] = i
	}
	for _, d := range extras {
		if i, ok := byName[d.Name]; ok {
			out[i] = d
			continue
		}
		byName[d.Name] = len(out)
		out = append(out, d)
	}
	return &Static{destinations: out}
}

// Destinations returns the candidate list. Callers must not mutate it.
func (s *Static) Destinations() []learner.Destination {
	return s.destinations
}
