// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package learner

import "strings"

// interestVocabulary maps target-name keywords to interest categories for
// implicit interest inference on liked activities.
var interestVocabulary = []struct {
	category string
	keywords []string
}{
	{"history", []string{"history", "museum", "temple"}},
	{"food", []string{"food", "restaurant", "cooking"}},
	{"nature", []string{"nature", "park", "wildlife"}},
	{"beaches", []string{"beach", "coast", "swim"}},
	{"mountains", []string{"mountain", "hiking", "trek"}},
	{"culture", []string{"culture", "local", "traditional"}},
	{"adventure", []string{"adventure", "sport", "extreme"}},
	{"shopping", []string{"shop", "market", "bazaar"}},
	{"nightlife", []string{"night", "bar", "club"}},
}

// budget nudge floors
const (
	budgetFloorMin = 500
	budgetFloorMax = 1000
)

// maxTravelStyles caps the preferred style list after promotion.
const maxTravelStyles = 3

// adjustPreferences derives implicit preference changes from freshly appended
// behaviors and trips. Called from Train before the feature vector is
// recomputed so the adjustments feed straight into the next extraction.
func adjustPreferences(p *UserProfile, behaviors []UserBehavior) {
	inferInterests(p, behaviors)
	nudgeBudget(p, behaviors)
	promoteSatisfiedStyle(p)
}

// inferInterests appends interest categories inferred from liked activity
// targets. Unmatched names change nothing.
func inferInterests(p *UserProfile, behaviors []UserBehavior) {
	for _, b := range behaviors {
		if b.Action != ActionLike || b.TargetType != TargetActivity {
			continue
		}
		category := matchInterest(b.TargetID)
		if category == "" {
			continue
		}
		if !containsString(p.Preferences.Interests, category) {
			p.Preferences.Interests = append(p.Preferences.Interests, category)
		}
	}
}

// matchInterest returns the first vocabulary category whose keywords appear in
// the target name, or empty when nothing matches.
func matchInterest(targetName string) string {
	name := strings.ToLower(targetName)
	for _, entry := range interestVocabulary {
		for _, kw := range entry.keywords {
			if strings.Contains(name, kw) {
				return entry.category
			}
		}
	}
	return ""
}

// nudgeBudget moves both ends of the budget range 10% of the way from the
// current midpoint toward the mean booked amount seen in the full behavior
// history. Only a fresh book event triggers the nudge, so retraining on no
// new evidence leaves the range alone. Floors keep the range from collapsing.
func nudgeBudget(p *UserProfile, behaviors []UserBehavior) {
	fresh := false
	for _, b := range behaviors {
		if b.Action == ActionBook && b.Context.BookingAmount > 0 {
			fresh = true
			break
		}
	}
	if !fresh {
		return
	}

	var total float64
	var n int
	for _, b := range p.BehaviorHistory {
		if b.Action == ActionBook && b.Context.BookingAmount > 0 {
			total += b.Context.BookingAmount
			n++
		}
	}
	if n == 0 {
		return
	}
	meanBooked := total / float64(n)
	shift := 0.1 * (meanBooked - p.Preferences.Budget.Midpoint())

	p.Preferences.Budget.Min += shift
	p.Preferences.Budget.Max += shift
	if p.Preferences.Budget.Min < budgetFloorMin {
		p.Preferences.Budget.Min = budgetFloorMin
	}
	if p.Preferences.Budget.Max < budgetFloorMax {
		p.Preferences.Budget.Max = budgetFloorMax
	}
	if p.Preferences.Budget.Max < p.Preferences.Budget.Min {
		p.Preferences.Budget.Max = p.Preferences.Budget.Min
	}
}

// promoteSatisfiedStyle prepends the most frequent travel style among trips
// rated 4+ when it is not already the top preference, keeping at most three
// styles.
func promoteSatisfiedStyle(p *UserProfile) {
	counts := make(map[string]int)
	for _, t := range p.TripHistory {
		if t.Satisfaction >= 4 && t.TravelStyle != "" {
			counts[t.TravelStyle]++
		}
	}
	if len(counts) == 0 {
		return
	}

	best := ""
	bestCount := 0
	for style, c := range counts {
		if c > bestCount || (c == bestCount && style < best) {
			best = style
			bestCount = c
		}
	}

	styles := p.Preferences.TravelStyles
	if len(styles) > 0 && styles[0] == best {
		return
	}

	out := []string{best}
	for _, s := range styles {
		if s != best {
			out = append(out, s)
		}
		if len(out) == maxTravelStyles {
			break
		}
	}
	p.Preferences.TravelStyles = out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
