package health

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Aggregator runs a set of checks and combines them into one overall status.
// The worst individual status wins.
type Aggregator struct {
	mu       sync.RWMutex
	checkers []Checker
}

// NewAggregator creates an empty aggregator.
func NewAggregator(checkers ...Checker) *Aggregator {
	return &Aggregator{checkers: checkers}
}

// Register adds a checker.
func (a *Aggregator) Register(c Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.checkers = append(a.checkers, c)
}

// Report is the combined outcome of all registered checks.
type Report struct {
	// Status is the worst status across all checks.
	Status Status

	// Results maps checker name to its result.
	Results map[string]Result
}

// Check runs all registered checks concurrently and aggregates the results.
func (a *Aggregator) Check(ctx context.Context) Report {
	a.mu.RLock()
	checkers := make([]Checker, len(a.checkers))
	copy(checkers, a.checkers)
	a.mu.RUnlock()

	results := make(map[string]Result, len(checkers))
	var resultsMu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, c := range checkers {
		g.Go(func() error {
			res := c.Check(ctx)
			resultsMu.Lock()
			results[c.Name()] = res
			resultsMu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	overall := StatusHealthy
	for _, res := range results {
		if res.Status > overall {
			overall = res.Status
		}
	}

	return Report{Status: overall, Results: results}
}
