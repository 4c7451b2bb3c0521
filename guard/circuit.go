package guard

import (
	"context"
	"sync"
	"time"
)

// BreakerState represents the circuit breaker state.
type BreakerState int

const (
	// StateClosed means the provider is healthy and requests proceed.
	StateClosed BreakerState = iota
	// StateOpen means the breaker is failing fast without attempting calls.
	StateOpen
	// StateHalfOpen means a single trial request probes for recovery.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of recorded failures that opens the
	// circuit. Default: 5
	FailureThreshold int

	// ResetTimeout is how long the circuit stays open before admitting a
	// half-open probe. Default: 30 seconds
	ResetTimeout time.Duration

	// OnStateChange is called when the circuit state changes.
	OnStateChange func(from, to BreakerState)

	// Clock overrides the time source, primarily for tests.
	Clock func() time.Time
}

// CircuitBreaker tracks provider health as a three-state machine.
//
// State only changes through Allow, RecordSuccess, RecordFailure and Reset.
// RecordSuccess and RecordFailure must be called exactly once per attempt,
// after the attempt (including its retries) has fully settled.
type CircuitBreaker struct {
	config CircuitBreakerConfig
	now    func() time.Time

	mu          sync.Mutex
	state       BreakerState
	failures    int
	successes   int
	lastFailure time.Time
	nextRetry   time.Time
	probeUsed   bool
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	// Apply defaults
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 30 * time.Second
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}

	return &CircuitBreaker{
		config: config,
		now:    config.Clock,
		state:  StateClosed,
	}
}

// Allow reports whether a request may proceed and, in the half-open state,
// consumes the single probe slot. Callers that are denied must not invoke the
// operation and must not record an outcome.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentStateLocked() {
	case StateClosed:
		return true
	case StateHalfOpen:
		if cb.probeUsed {
			return false
		}
		cb.probeUsed = true
		return true
	default:
		return false
	}
}

// Ready reports whether the breaker would admit an attempt, without consuming
// the half-open probe slot. Retry predicates use this to stop retrying once
// the provider is presumed down.
func (cb *CircuitBreaker) Ready() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentStateLocked() != StateOpen
}

// RecordSuccess records a settled successful attempt.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.currentStateLocked() == StateHalfOpen {
		cb.successes++
		cb.transitionLocked(StateClosed)
		cb.failures = 0
		cb.successes = 0
		return
	}
	cb.failures = 0
}

// RecordFailure records a settled failed attempt.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.now()
	cb.failures++
	cb.lastFailure = now

	switch cb.currentStateLocked() {
	case StateHalfOpen:
		// Probe failed, back to open with a fresh reset window.
		cb.nextRetry = now.Add(cb.config.ResetTimeout)
		cb.transitionLocked(StateOpen)
	case StateClosed:
		if cb.failures >= cb.config.FailureThreshold {
			cb.nextRetry = now.Add(cb.config.ResetTimeout)
			cb.transitionLocked(StateOpen)
		}
	}
}

// Execute runs the operation through the circuit breaker, recording its
// outcome. The client facade calls Allow and Record* directly instead so a
// whole retried attempt settles as one outcome.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if !cb.Allow() {
		return ErrCircuitOpen
	}

	err := op(ctx)
	if err != nil {
		cb.RecordFailure()
		return err
	}
	cb.RecordSuccess()
	return nil
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentStateLocked()
}

// BreakerStatus is a point-in-time snapshot of the breaker.
type BreakerStatus struct {
	// State is the current state.
	State BreakerState

	// Failures is the consecutive failure count.
	Failures int

	// Successes counts half-open probe successes. Zero outside half-open.
	Successes int

	// LastFailure is the time of the most recent recorded failure.
	LastFailure time.Time

	// NextRetry is when an open circuit will admit a half-open probe.
	NextRetry time.Time
}

// Status returns an immutable snapshot of the breaker.
func (cb *CircuitBreaker) Status() BreakerStatus {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return BreakerStatus{
		State:       cb.currentStateLocked(),
		Failures:    cb.failures,
		Successes:   cb.successes,
		LastFailure: cb.lastFailure,
		NextRetry:   cb.nextRetry,
	}
}

// Reset forces the breaker closed with zeroed counters.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures = 0
	cb.successes = 0
	cb.lastFailure = time.Time{}
	cb.nextRetry = time.Time{}
	cb.probeUsed = false
	cb.transitionLocked(StateClosed)
}

// currentStateLocked applies the lazy open-to-half-open transition once the
// reset timeout has elapsed, then returns the state.
func (cb *CircuitBreaker) currentStateLocked() BreakerState {
	if cb.state == StateOpen && !cb.now().Before(cb.nextRetry) {
		cb.probeUsed = false
		cb.transitionLocked(StateHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) transitionLocked(to BreakerState) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(from, to)
	}
}
