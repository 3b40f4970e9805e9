// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package learner

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Destination is a candidate destination from the catalog.
type Destination struct {
	// Name is the display name used as the score map key.
	Name string `json:"name"`

	// Region is a coarse geographic grouping.
	Region string `json:"region"`

	// TypicalBudget is the typical per-trip cost band.
	TypicalBudget BudgetRange `json:"typical_budget"`

	// BestSeasons are the seasons the destination is best visited in.
	BestSeasons []string `json:"best_seasons"`

	// Tags are interest tags (culture, food, nature, beaches...).
	Tags []string `json:"tags"`
}

// Catalog supplies candidate destinations to the composer.
type Catalog interface {
	Destinations() []Destination
}

// WeatherScorer rates how well current conditions at a place match a user's
// weather preference. Implementations must respect the context deadline and
// may fail; the composer treats failure as non-fatal.
type WeatherScorer interface {
	CompatibilityScore(ctx context.Context, place string, weatherPreference float64) (float64, error)
}

// Composer assembles PredictionResults from the weight model, peer lookup,
// destination catalog and weather capability.
type Composer struct {
	model   *WeightModel
	index   *SimilarityIndex
	catalog Catalog
	weather WeatherScorer
	cfg     Config
	log     zerolog.Logger
}

// NewComposer wires a Composer. weather may be nil, in which case destination
// scores skip the weather blend entirely.
func NewComposer(model *WeightModel, index *SimilarityIndex, cat Catalog, weather WeatherScorer, cfg Config, log zerolog.Logger) *Composer {
	return &Composer{
		model:   model,
		index:   index,
		catalog: cat,
		weather: weather,
		cfg:     cfg,
		log:     log.With().Str("component", "composer").Logger(),
	}
}

// DefaultResult is the fixed response for users without a stored profile.
func DefaultResult(now time.Time) *PredictionResult {
	return &PredictionResult{
		DestinationScores: map[string]float64{},
		Activities:        []ActivityRecommendation{},
		Budget: BudgetOptimization{
			TargetBudget: 2000,
			Allocation: BudgetAllocation{
				Accommodation:  700,
				Food:           500,
				Activities:     400,
				Transportation: 300,
				Shopping:       60,
				Emergency:      40,
			},
		},
		PersonalizationLevel: baseConfidence,
		Confidence:           ConfidenceInterval{Low: 0.2, High: 0.4},
		GeneratedAt:          now,
	}
}

// Compose builds a full recommendation for a known profile.
func (c *Composer) Compose(ctx context.Context, p *UserProfile, q Query) *PredictionResult {
	now := time.Now()

	scores, ranked := c.scoreDestinations(ctx, p, q)

	activities, err := c.recommendActivities(ctx, p)
	if err != nil {
		// peer lookup failure degrades to an empty activity list
		c.log.Warn().Err(err).Str("user_id", p.UserID).Msg("peer lookup failed, skipping activity recommendations")
		activities = []ActivityRecommendation{}
	}

	return &PredictionResult{
		DestinationScores:    scores,
		Activities:           activities,
		Budget:               c.optimizeBudget(p, q),
		Timing:               c.timingHints(ranked),
		Alternatives:         alternatives(ranked),
		PersonalizationLevel: p.ConfidenceScore,
		Confidence: ConfidenceInterval{
			Low:  clamp01(p.ConfidenceScore - 0.1),
			High: clamp01(p.ConfidenceScore + 0.1),
		},
		GeneratedAt: now,
	}
}

// scoreDestinations scores every catalog destination: model score, then a
// destination-specific adjustment, then a weather blend. Weather failures keep
// the pre-weather score.
func (c *Composer) scoreDestinations(ctx context.Context, p *UserProfile, q Query) (map[string]float64, []Destination) {
	dests := c.catalog.Destinations()
	scores := make(map[string]float64, len(dests))
	base := c.model.Score(p.LearningVector)
	weatherPref := featureAt(p.LearningVector, FeatureWeatherPreference, 0.7)

	for _, d := range dests {
		score := clamp01(base + c.destinationAdjustment(p, q, d))

		if c.weather != nil {
			wctx, cancel := context.WithTimeout(ctx, c.cfg.WeatherTimeout)
			w, err := c.weather.CompatibilityScore(wctx, d.Name, weatherPref)
			cancel()
			if err != nil {
				c.log.Debug().Err(err).Str("destination", d.Name).Msg("weather lookup failed, keeping pre-weather score")
			} else {
				score = clamp01((1-c.cfg.WeatherWeight)*score + c.cfg.WeatherWeight*w)
			}
		}
		scores[d.Name] = score
	}

	ranked := make([]Destination, len(dests))
	copy(ranked, dests)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i].Name] > scores[ranked[j].Name]
	})
	return scores, ranked
}

// destinationAdjustment shifts the base score by interest overlap, season
// match and budget fit. Bounded to roughly +-0.2 so the model score dominates.
func (c *Composer) destinationAdjustment(p *UserProfile, q Query, d Destination) float64 {
	var adj float64

	interests := p.Preferences.Interests
	if len(q.Interests) > 0 {
		interests = append(append([]string(nil), interests...), q.Interests...)
	}
	matched := 0
	for _, tag := range d.Tags {
		if containsFold(interests, tag) {
			matched++
		}
	}
	if matched > 2 {
		matched = 2
	}
	adj += 0.05 * float64(matched)

	for _, s := range p.Preferences.Seasons {
		if containsFold(d.BestSeasons, s) {
			adj += 0.05
			break
		}
	}

	target := q.Budget
	if target <= 0 {
		target = p.Preferences.Budget.Midpoint()
	}
	switch {
	case target >= d.TypicalBudget.Min && target <= d.TypicalBudget.Max:
		adj += 0.05
	case d.TypicalBudget.Min > 1.5*target:
		adj -= 0.1
	}

	return adj
}

// activityCandidate accumulates peer evidence for one activity.
type activityCandidate struct {
	name        string
	ratingSum   int
	ratingCount int
	books       int
	intents     int
	peers       map[string]int // peer id -> positive event count
}

// recommendActivities builds the ranked activity list from peers' positive
// activity events.
func (c *Composer) recommendActivities(ctx context.Context, p *UserProfile) ([]ActivityRecommendation, error) {
	peers, err := c.index.FindSimilar(ctx, p)
	if err != nil {
		return nil, err
	}
	if len(peers) == 0 {
		return []ActivityRecommendation{}, nil
	}

	candidates := make(map[string]*activityCandidate)
	for _, peer := range peers {
		for _, b := range peer.BehaviorHistory {
			if b.TargetType != TargetActivity {
				continue
			}
			cand := candidates[b.TargetID]
			switch b.Action {
			case ActionLike, ActionSave:
				cand = ensureCandidate(candidates, b.TargetID)
				cand.intents++
				cand.peers[peer.UserID]++
			case ActionBook:
				cand = ensureCandidate(candidates, b.TargetID)
				cand.books++
				cand.peers[peer.UserID]++
			case ActionRate:
				cand = ensureCandidate(candidates, b.TargetID)
			}
			if cand != nil && b.Feedback != nil && b.Feedback.Rating >= 1 && b.Feedback.Rating <= 5 {
				cand.ratingSum += b.Feedback.Rating
				cand.ratingCount++
			}
		}
	}

	base := c.model.Score(p.LearningVector)
	recs := make([]ActivityRecommendation, 0, len(candidates))
	for _, cand := range candidates {
		stats := cand.stats(len(peers))
		enjoyment := predictedEnjoyment(base, stats)
		if enjoyment <= c.cfg.EnjoymentThreshold {
			continue
		}
		recs = append(recs, ActivityRecommendation{
			Name:               cand.name,
			PredictedEnjoyment: enjoyment,
			Stats:              stats,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].PredictedEnjoyment != recs[j].PredictedEnjoyment {
			return recs[i].PredictedEnjoyment > recs[j].PredictedEnjoyment
		}
		return recs[i].Name < recs[j].Name
	})
	if len(recs) > c.cfg.MaxActivities {
		recs = recs[:c.cfg.MaxActivities]
	}
	return recs, nil
}

func ensureCandidate(m map[string]*activityCandidate, name string) *activityCandidate {
	if c, ok := m[name]; ok {
		return c
	}
	c := &activityCandidate{name: name, peers: make(map[string]int)}
	m[name] = c
	return c
}

func (c *activityCandidate) stats(peerTotal int) ActivityStats {
	s := ActivityStats{PeerCount: len(c.peers)}
	if c.ratingCount > 0 {
		s.AverageRating = float64(c.ratingSum) / float64(c.ratingCount)
	}
	if c.intents > 0 {
		s.CompletionRate = clamp01(float64(c.books) / float64(c.intents))
	}
	if peerTotal > 0 {
		repeaters := 0
		for _, n := range c.peers {
			if n > 1 {
				repeaters++
			}
		}
		s.RepeatRate = float64(repeaters) / float64(peerTotal)
	}
	return s
}

// predictedEnjoyment blends the user's model score with peer evidence.
// Unrated candidates assume a neutral 3.0 rating.
func predictedEnjoyment(modelScore float64, s ActivityStats) float64 {
	rating := s.AverageRating
	if rating == 0 {
		rating = 3.0
	}
	return clamp01(0.4*modelScore + 0.35*(rating/5) + 0.15*s.CompletionRate + 0.1*s.RepeatRate)
}

// budget reference shares
const (
	shareAccommodation  = 0.35
	shareFood           = 0.25
	shareActivities     = 0.20
	shareTransportation = 0.15
	shareShopping       = 0.03
	shareEmergency      = 0.02
)

// optimizeBudget splits the target budget using reference shares biased by
// the user's observed spending pattern.
func (c *Composer) optimizeBudget(p *UserProfile, q Query) BudgetOptimization {
	target := q.Budget
	if target <= 0 {
		target = p.Preferences.Budget.Midpoint()
	}
	if target <= 0 {
		target = 2000
	}

	accBias, foodBias, actBias := spendingBiases(p.BehaviorHistory)
	// transportation absorbs the biases so the categories still sum to target
	transportShare := shareTransportation - accBias - foodBias - actBias

	opt := BudgetOptimization{
		TargetBudget: target,
		Allocation: BudgetAllocation{
			Accommodation:  target * (shareAccommodation + accBias),
			Food:           target * (shareFood + foodBias),
			Activities:     target * (shareActivities + actBias),
			Transportation: target * transportShare,
			Shopping:       target * shareShopping,
			Emergency:      target * shareEmergency,
		},
	}

	if p.Preferences.LuxuryPreference <= 0.4 || (q.Budget > 0 && q.Budget < p.Preferences.Budget.Midpoint()) {
		opt.SavingSuggestions = []string{
			"stay outside the city center and commute in",
			"eat where locals eat instead of tourist districts",
			"travel in shoulder season for lower rates",
		}
	}
	if p.Preferences.LuxuryPreference >= 0.6 {
		opt.SplurgeSuggestions = []string{
			"upgrade one night to a standout hotel",
			"book one signature guided experience",
		}
	}
	return opt
}

// spendingBiases compares booked spending shares per category against the
// reference shares. Each bias is bounded to +-0.05 and zero without booking
// evidence.
func spendingBiases(events []UserBehavior) (acc, food, act float64) {
	var accSpend, foodSpend, actSpend, total float64
	for _, b := range events {
		if b.Action != ActionBook || b.Context.BookingAmount <= 0 {
			continue
		}
		total += b.Context.BookingAmount
		switch b.TargetType {
		case TargetAccommodation:
			accSpend += b.Context.BookingAmount
		case TargetRestaurant:
			foodSpend += b.Context.BookingAmount
		case TargetActivity:
			actSpend += b.Context.BookingAmount
		}
	}
	if total == 0 {
		return 0, 0, 0
	}
	bias := func(observed, reference float64) float64 {
		b := 0.5 * (observed/total - reference)
		if b > 0.05 {
			return 0.05
		}
		if b < -0.05 {
			return -0.05
		}
		return b
	}
	return bias(accSpend, shareAccommodation), bias(foodSpend, shareFood), bias(actSpend, shareActivities)
}

// timingHints emits best-season hints for the top-ranked destinations.
func (c *Composer) timingHints(ranked []Destination) []TimingRecommendation {
	n := 3
	if len(ranked) < n {
		n = len(ranked)
	}
	hints := make([]TimingRecommendation, 0, n)
	for _, d := range ranked[:n] {
		if len(d.BestSeasons) == 0 {
			continue
		}
		hints = append(hints, TimingRecommendation{
			Destination: d.Name,
			BestSeasons: d.BestSeasons,
			Reason:      "best conditions in " + strings.Join(d.BestSeasons, " and "),
		})
	}
	return hints
}

// alternatives suggests the destinations just below the top three ranks.
func alternatives(ranked []Destination) []string {
	if len(ranked) <= 3 {
		return nil
	}
	end := 6
	if len(ranked) < end {
		end = len(ranked)
	}
	out := make([]string, 0, end-3)
	for _, d := range ranked[3:end] {
		out = append(out, d.Name)
	}
	return out
}

func featureAt(v []float64, i int, fallback float64) float64 {
	if i < len(v) {
		return v[i]
	}
	return fallback
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
