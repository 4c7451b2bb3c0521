package guard

import (
	"context"
	"sync"
	"time"
)

// RateLimiterConfig configures the sliding window rate limiter.
type RateLimiterConfig struct {
	// Provider identifies the limited service in errors and snapshots.
	Provider string

	// RequestsPerMinute is the admission budget over the trailing window.
	// Default: 60
	RequestsPerMinute int

	// Window is the length of the trailing window.
	// Default: 1 minute
	Window time.Duration

	// Clock overrides the time source, primarily for tests.
	Clock func() time.Time
}

// RateLimiter enforces a request budget over a sliding time window.
//
// It keeps the admission timestamps of the trailing window, oldest first, and
// discards expired entries lazily on every access. There is no background
// janitor.
type RateLimiter struct {
	provider string
	window   time.Duration
	now      func() time.Time

	mu     sync.Mutex
	limit  int
	stamps []time.Time
}

// NewRateLimiter creates a new sliding window rate limiter.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	// Apply defaults
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = 60
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}

	return &RateLimiter{
		provider: config.Provider,
		window:   config.Window,
		now:      config.Clock,
		limit:    config.RequestsPerMinute,
	}
}

// Acquire admits one request or fails fast with a *RateLimitError carrying
// the time until the next slot frees up. It never blocks.
func (rl *RateLimiter) Acquire() error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.pruneLocked(now)

	if len(rl.stamps) >= rl.limit {
		oldest := rl.stamps[0]
		return &RateLimitError{
			Provider:   rl.provider,
			Limit:      rl.limit,
			RetryAfter: ceilToSecond(oldest.Add(rl.window).Sub(now)),
		}
	}

	rl.stamps = append(rl.stamps, now)
	return nil
}

// Execute runs the operation if admission is granted.
func (rl *RateLimiter) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := rl.Acquire(); err != nil {
		return err
	}
	return op(ctx)
}

// LimiterState is a point-in-time snapshot of the limiter.
type LimiterState struct {
	// Provider identifies the limited service.
	Provider string

	// Limit is the configured budget per window.
	Limit int

	// Used is the number of admissions inside the current window.
	Used int

	// WindowStart is the start of the current sliding window.
	WindowStart time.Time

	// NextAvailable is the earliest instant a denied request could be
	// admitted. Equal to now while under capacity.
	NextAvailable time.Time
}

// State returns a snapshot of the limiter after purging expired entries.
func (rl *RateLimiter) State() LimiterState {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.pruneLocked(now)

	next := now
	if len(rl.stamps) >= rl.limit {
		next = rl.stamps[0].Add(rl.window)
	}

	return LimiterState{
		Provider:      rl.provider,
		Limit:         rl.limit,
		Used:          len(rl.stamps),
		WindowStart:   now.Add(-rl.window),
		NextAvailable: next,
	}
}

// SetLimit changes the budget going forward. Admission history is kept.
func (rl *RateLimiter) SetLimit(requestsPerMinute int) {
	if requestsPerMinute <= 0 {
		return
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.limit = requestsPerMinute
}

// Reset clears all admission history.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.stamps = rl.stamps[:0]
}

// pruneLocked discards admissions that have aged out of the window.
func (rl *RateLimiter) pruneLocked(now time.Time) {
	cutoff := now.Add(-rl.window)
	i := 0
	for i < len(rl.stamps) && !rl.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		rl.stamps = append(rl.stamps[:0], rl.stamps[i:]...)
	}
}

// ceilToSecond rounds d up to the next whole second, with a floor of one
// second so callers never receive a zero retry hint.
func ceilToSecond(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Second
	}
	s := d / time.Second
	if d%time.Second != 0 {
		s++
	}
	return s * time.Second
}
