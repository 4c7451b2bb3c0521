// Package guard provides the protection primitives for outbound provider
// calls.
//
// Each primitive wraps a fallible operation against a remote provider and can
// be used on its own or composed by the client facade in the parent package.
//
// # Primitives
//
//   - Circuit Breaker: tracks provider health as a closed/open/half-open
//     state machine and fails fast while the provider is presumed down.
//
//   - Rate Limiter: enforces a request budget over a sliding time window,
//     failing fast with the time until the next slot frees up.
//
//   - Retry: re-invokes failed operations with exponential backoff, gated by
//     a retryability predicate.
//
//   - Timeout: bounds the wall-clock duration of a single attempt.
//
//   - Bulkhead: caps the number of in-flight operations.
//
// # Usage
//
//	cb := guard.NewCircuitBreaker(guard.CircuitBreakerConfig{
//	    FailureThreshold: 5,
//	    ResetTimeout:     time.Minute,
//	})
//
//	rl := guard.NewRateLimiter(guard.RateLimiterConfig{
//	    Provider:          "openai",
//	    RequestsPerMinute: 60,
//	})
//
//	retry := guard.NewRetry(guard.RetryConfig{
//	    MaxRetries:   3,
//	    InitialDelay: 100 * time.Millisecond,
//	    Multiplier:   2.0,
//	})
//
//	err := retry.Execute(ctx, func(ctx context.Context) error {
//	    return callProvider(ctx)
//	})
//
// Errors that should be retried must be tagged with MarkRetryable; untagged
// errors are treated as permanent.
package guard
