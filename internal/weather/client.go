// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/wayfinder/internal/cache"
	"github.com/tomtom215/wayfinder/internal/metrics"
)

// Config controls the weather client.
type Config struct {
	// BaseURL is the upstream weather endpoint. Empty disables upstream
	// fetches entirely; every lookup is then served synthetically.
	// Default: ""
	BaseURL string `json:"base_url" koanf:"base_url"`

	// CacheTTL is how long snapshots are cached per place.
	// Default: 1h
	CacheTTL time.Duration `json:"cache_ttl" koanf:"cache_ttl"`

	// RequestTimeout bounds each upstream fetch.
	// Default: 5s
	RequestTimeout time.Duration `json:"request_timeout" koanf:"request_timeout"`

	// RatePerSecond limits upstream fetches.
	// Default: 5
	RatePerSecond float64 `json:"rate_per_second" koanf:"rate_per_second"`

	// RateBurst is the limiter burst size.
	// Default: 10
	RateBurst int `json:"rate_burst" koanf:"rate_burst"`

	// BreakerFailureThreshold trips the circuit after this many consecutive
	// upstream failures.
	// Default: 5
	BreakerFailureThreshold uint32 `json:"breaker_failure_threshold" koanf:"breaker_failure_threshold"`

	// BreakerOpenTimeout is how long the circuit stays open before probing.
	// Default: 30s
	BreakerOpenTimeout time.Duration `json:"breaker_open_timeout" koanf:"breaker_open_timeout"`
}

// DefaultConfig returns the reference weather configuration.
func DefaultConfig() Config {
	return Config{
		CacheTTL:                time.Hour,
		RequestTimeout:          5 * time.Second,
		RatePerSecond:           5,
		RateBurst:               10,
		BreakerFailureThreshold: 5,
		BreakerOpenTimeout:      30 * time.Second,
	}
}

// Validate checks configuration bounds.
func (c Config) Validate() error {
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive, got %v", c.CacheTTL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", c.RequestTimeout)
	}
	if c.RatePerSecond <= 0 {
		return fmt.Errorf("rate_per_second must be positive, got %v", c.RatePerSecond)
	}
	if c.RateBurst <= 0 {
		return fmt.Errorf("rate_burst must be positive, got %v", c.RateBurst)
	}
	if c.BreakerFailureThreshold == 0 {
		return fmt.Errorf("breaker_failure_threshold must be positive")
	}
	return nil
}

// Client looks up weather snapshots. Lookups never fail: cache first, then
// the rate-limited, breaker-guarded upstream, then the synthetic fallback.
type Client struct {
	cfg     Config
	httpc   *http.Client
	cache   *cache.Cache
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[*Snapshot]
	log     zerolog.Logger
	now     func() time.Time
}

// NewClient builds a weather client.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	settings := gobreaker.Settings{
		Name:     "weather",
		Timeout:  cfg.BreakerOpenTimeout,
		Interval: time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailureThreshold
		},
	}
	return &Client{
		cfg:     cfg,
		httpc:   &http.Client{Timeout: cfg.RequestTimeout},
		cache:   cache.New(cfg.CacheTTL),
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
		breaker: gobreaker.NewCircuitBreaker[*Snapshot](settings),
		log:     log.With().Str("component", "weather").Logger(),
		now:     time.Now,
	}
}

// Current returns the weather snapshot for place. Unknown places and upstream
// failures yield a synthetic snapshot, never an error; the returned error is
// reserved for context cancellation.
func (c *Client) Current(ctx context.Context, place string) (*Snapshot, error) {
	key := cacheKey(place)
	if v, ok := c.cache.Get(key); ok {
		metrics.RecordWeatherLookup("hit")
		return v.(*Snapshot), nil
	}
	metrics.RecordWeatherLookup("miss")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := c.fetch(ctx, place)
	c.cache.Set(key, snap)
	return snap, nil
}

// fetch tries the upstream and falls back to a synthetic snapshot.
func (c *Client) fetch(ctx context.Context, place string) *Snapshot {
	if c.cfg.BaseURL == "" {
		metrics.RecordWeatherLookup("synthetic")
		return Synthesize(place, c.now())
	}
	if !c.limiter.Allow() {
		c.log.Debug().Str("place", place).Msg("rate limited, serving synthetic snapshot")
		metrics.RecordWeatherLookup("synthetic")
		return Synthesize(place, c.now())
	}

	start := c.now()
	snap, err := c.breaker.Execute(func() (*Snapshot, error) {
		return c.fetchUpstream(ctx, place)
	})
	metrics.WeatherLookupDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.log.Warn().Err(err).Str("place", place).Msg("upstream weather fetch failed, serving synthetic snapshot")
		metrics.RecordWeatherLookup("error")
		return Synthesize(place, c.now())
	}
	return snap
}

func (c *Client) fetchUpstream(ctx context.Context, place string) (*Snapshot, error) {
	u := fmt.Sprintf("%s/v1/weather?place=%s", strings.TrimRight(c.cfg.BaseURL, "/"), url.QueryEscape(place))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building weather request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching weather for %q: %w", place, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather upstream returned %d for %q", resp.StatusCode, place)
	}

	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding weather response for %q: %w", place, err)
	}
	snap.Place = place
	snap.FetchedAt = c.now()
	return &snap, nil
}

// CompatibilityScore implements the scoring capability the composer depends
// on: how well current conditions at place match the user's weather
// preference, in [0,1]. preference is the sunny-likeness the user has shown
// (1 = wants sun, 0 = indifferent to gloom).
func (c *Client) CompatibilityScore(ctx context.Context, place string, preference float64) (float64, error) {
	snap, err := c.Current(ctx, place)
	if err != nil {
		return 0, err
	}
	return Compatibility(snap, preference), nil
}

// Compatibility scores a snapshot against a weather preference. Sunniness of
// the current conditions is compared with the preference, and a comfort term
// rewards mild temperatures.
func Compatibility(snap *Snapshot, preference float64) float64 {
	sunniness := conditionSunniness(snap.Current.Summary)

	// preference mismatch term: a sun-seeker in the rain scores low
	match := 1 - abs(sunniness-clamp01(preference))

	// comfort term: 22C is ideal, falling off toward 0 at +-20C
	comfort := 1 - clamp01(abs(snap.Current.TemperatureC-22)/20)

	return clamp01(0.7*match + 0.3*comfort)
}

// conditionSunniness maps a condition summary onto [0,1].
func conditionSunniness(summary string) float64 {
	s := strings.ToLower(summary)
	switch {
	case strings.Contains(s, "sunny"), strings.Contains(s, "clear"):
		return 1
	case strings.Contains(s, "partly"):
		return 0.7
	case strings.Contains(s, "cloud"), strings.Contains(s, "overcast"):
		return 0.4
	case strings.Contains(s, "rain"), strings.Contains(s, "drizzle"):
		return 0.2
	case strings.Contains(s, "storm"), strings.Contains(s, "snow"):
		return 0.1
	default:
		return 0.5
	}
}

func cacheKey(place string) string {
	return "weather:" + strings.ToLower(strings.TrimSpace(place))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
