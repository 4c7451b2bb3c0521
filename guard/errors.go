package guard

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for guard operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open and the
	// operation was never attempted.
	ErrCircuitOpen = errors.New("guard: circuit breaker is open")

	// ErrBulkheadFull is returned when the bulkhead is at capacity.
	ErrBulkheadFull = errors.New("guard: bulkhead at capacity")
)

// RateLimitError is returned when admission is denied by the rate limiter.
type RateLimitError struct {
	// Provider identifies the limited service.
	Provider string

	// Limit is the configured budget per window.
	Limit int

	// RetryAfter is the time until the oldest in-window admission expires,
	// rounded up to whole seconds.
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("guard: rate limit of %d/min exceeded for provider %q, retry after %s",
		e.Limit, e.Provider, e.RetryAfter)
}

// TimeoutError is returned when a single attempt exceeds its allotted
// duration.
type TimeoutError struct {
	// Operation is the human-readable name of the timed-out operation.
	Operation string

	// Timeout is the duration the attempt was allowed.
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	if e.Operation == "" {
		return fmt.Sprintf("guard: operation timed out after %s", e.Timeout)
	}
	return fmt.Sprintf("guard: operation %q timed out after %s", e.Operation, e.Timeout)
}

// retryableError tags an error as safe to retry.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string   { return e.err.Error() }
func (e *retryableError) Unwrap() error   { return e.err }
func (e *retryableError) Retryable() bool { return true }

// MarkRetryable tags err as safe to retry. A nil err returns nil.
func MarkRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

// IsRetryable reports whether err was tagged as retryable, either via
// MarkRetryable or by implementing a Retryable() bool method anywhere in its
// chain. Untagged errors are treated as non-retryable.
func IsRetryable(err error) bool {
	var r interface{ Retryable() bool }
	if errors.As(err, &r) {
		return r.Retryable()
	}
	return false
}
