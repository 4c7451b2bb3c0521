// Package callguard wraps outbound calls to rate-limited, fallible providers
// with rate limiting, circuit breaking, priority queueing, retry with
// backoff, and timeout enforcement.
//
// Callers hand the Client an opaque asynchronous operation; the Client only
// schedules, protects, and retries it. Transport, authentication, and payload
// handling stay with the caller, and execution is at-least-once: retries may
// re-invoke the operation, so operations with side effects should be
// idempotent.
//
// # Pipeline
//
// Each request flows through, in order: the priority queue (when enabled),
// the circuit breaker gate, rate limiter admission, and a retry loop whose
// every attempt is timeout-guarded. The breaker records one outcome per
// request after all retries have settled.
//
// # Usage
//
//	c, err := callguard.New(callguard.Config{
//	    Provider:             "openai",
//	    RateLimitPerMinute:   60,
//	    EnableCircuitBreaker: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := c.Do(ctx, &callguard.Request{
//	    Operation: "chat.completion",
//	    Priority:  5,
//	    Execute: func(ctx context.Context) (any, error) {
//	        return callProvider(ctx)
//	    },
//	})
//
// One Client guards one provider. Create one Client per provider; instances
// are independent and safe for concurrent use.
package callguard
