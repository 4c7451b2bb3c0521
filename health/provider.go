package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/callguard/guard"
)

// GuardIntrospector is the subset of the client facade the provider check
// reads. *callguard.Client satisfies it.
type GuardIntrospector interface {
	CircuitBreakerStatus() (guard.BreakerStatus, bool)
	RateLimiterState() (guard.LimiterState, bool)
	QueueSize() int
}

// ProviderCheck reports provider health from guard state: an open breaker is
// unhealthy, a probing breaker or saturated rate limiter is degraded.
type ProviderCheck struct {
	name   string
	client GuardIntrospector
}

// NewProviderCheck creates a health check for one provider client.
func NewProviderCheck(name string, client GuardIntrospector) *ProviderCheck {
	return &ProviderCheck{name: name, client: client}
}

// Name returns the name of this checker.
func (p *ProviderCheck) Name() string {
	return p.name
}

// Check inspects breaker, limiter, and queue state.
func (p *ProviderCheck) Check(ctx context.Context) Result {
	details := map[string]any{
		"queue_size": p.client.QueueSize(),
	}

	status, hasBreaker := p.client.CircuitBreakerStatus()
	if hasBreaker {
		details["breaker_state"] = status.State.String()
		details["breaker_failures"] = status.Failures
	}

	state, hasLimiter := p.client.RateLimiterState()
	if hasLimiter {
		details["rate_limit"] = state.Limit
		details["rate_used"] = state.Used
	}

	if hasBreaker {
		switch status.State {
		case guard.StateOpen:
			return Unhealthy(fmt.Sprintf("circuit open until %s", status.NextRetry.Format("15:04:05"))).
				WithDetails(details)
		case guard.StateHalfOpen:
			return Degraded("circuit probing recovery").WithDetails(details)
		}
	}

	if hasLimiter && state.Used >= state.Limit {
		return Degraded("rate limit saturated").WithDetails(details)
	}

	return Healthy("provider available").WithDetails(details)
}
