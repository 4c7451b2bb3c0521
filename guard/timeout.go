package guard

import (
	"context"
	"errors"
	"time"
)

// TimeoutConfig configures the timeout wrapper.
type TimeoutConfig struct {
	// Timeout is the maximum duration for one attempt.
	// Default: 60 seconds
	Timeout time.Duration

	// Operation is the human-readable name reported in timeout errors.
	Operation string
}

// Timeout bounds the wall-clock duration of a single attempt.
//
// The operation receives a context with a deadline it may honor, but it is
// never forcibly stopped: when the timer fires first the attempt fails with a
// *TimeoutError and the operation goroutine is abandoned. Operations with
// side effects should be idempotent if a timeout-then-retry is possible.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a new timeout wrapper.
func NewTimeout(config TimeoutConfig) *Timeout {
	// Apply defaults
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}

	return &Timeout{config: config}
}

// Execute races the operation against the configured timer.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	done := make(chan error, 1)

	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &TimeoutError{Operation: t.config.Operation, Timeout: t.config.Timeout}
		}
		return ctx.Err()
	}
}

// Config returns the timeout configuration.
func (t *Timeout) Config() TimeoutConfig {
	return t.config
}

// ExecuteWithTimeout is a convenience function to run one named operation
// with a timeout.
func ExecuteWithTimeout(ctx context.Context, operation string, timeout time.Duration, op func(context.Context) error) error {
	t := NewTimeout(TimeoutConfig{Timeout: timeout, Operation: operation})
	return t.Execute(ctx, op)
}
