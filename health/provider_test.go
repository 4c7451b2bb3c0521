package health

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jonwraymond/callguard/guard"
)

type fakeIntrospector struct {
	breaker    guard.BreakerStatus
	hasBreaker bool
	limiter    guard.LimiterState
	hasLimiter bool
	queueSize  int
}

func (f *fakeIntrospector) CircuitBreakerStatus() (guard.BreakerStatus, bool) {
	return f.breaker, f.hasBreaker
}

func (f *fakeIntrospector) RateLimiterState() (guard.LimiterState, bool) {
	return f.limiter, f.hasLimiter
}

func (f *fakeIntrospector) QueueSize() int {
	return f.queueSize
}

func TestProviderCheck_Healthy(t *testing.T) {
	check := NewProviderCheck("openai", &fakeIntrospector{
		hasBreaker: true,
		breaker:    guard.BreakerStatus{State: guard.StateClosed},
		hasLimiter: true,
		limiter:    guard.LimiterState{Limit: 60, Used: 10},
		queueSize:  2,
	})

	res := check.Check(context.Background())
	if res.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", res.Status)
	}
	if res.Message != "provider available" {
		t.Errorf("Message = %q, want provider available", res.Message)
	}
	if res.Details["queue_size"] != 2 {
		t.Errorf("queue_size = %v, want 2", res.Details["queue_size"])
	}
	if res.Details["breaker_state"] != "closed" {
		t.Errorf("breaker_state = %v, want closed", res.Details["breaker_state"])
	}
	if res.Details["rate_used"] != 10 {
		t.Errorf("rate_used = %v, want 10", res.Details["rate_used"])
	}
}

func TestProviderCheck_CircuitOpen(t *testing.T) {
	check := NewProviderCheck("openai", &fakeIntrospector{
		hasBreaker: true,
		breaker: guard.BreakerStatus{
			State:     guard.StateOpen,
			Failures:  5,
			NextRetry: time.Now().Add(30 * time.Second),
		},
	})

	res := check.Check(context.Background())
	if res.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy", res.Status)
	}
	if !strings.HasPrefix(res.Message, "circuit open until ") {
		t.Errorf("Message = %q, want circuit open until prefix", res.Message)
	}
	if res.Details["breaker_failures"] != 5 {
		t.Errorf("breaker_failures = %v, want 5", res.Details["breaker_failures"])
	}
}

func TestProviderCheck_CircuitProbing(t *testing.T) {
	check := NewProviderCheck("openai", &fakeIntrospector{
		hasBreaker: true,
		breaker:    guard.BreakerStatus{State: guard.StateHalfOpen},
	})

	res := check.Check(context.Background())
	if res.Status != StatusDegraded {
		t.Errorf("Status = %v, want degraded", res.Status)
	}
	if res.Message != "circuit probing recovery" {
		t.Errorf("Message = %q, want circuit probing recovery", res.Message)
	}
}

func TestProviderCheck_RateLimitSaturated(t *testing.T) {
	check := NewProviderCheck("openai", &fakeIntrospector{
		hasLimiter: true,
		limiter:    guard.LimiterState{Limit: 60, Used: 60},
	})

	res := check.Check(context.Background())
	if res.Status != StatusDegraded {
		t.Errorf("Status = %v, want degraded", res.Status)
	}
	if res.Message != "rate limit saturated" {
		t.Errorf("Message = %q, want rate limit saturated", res.Message)
	}
}

func TestProviderCheck_NoGuards(t *testing.T) {
	check := NewProviderCheck("openai", &fakeIntrospector{})

	res := check.Check(context.Background())
	if res.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy with no guards enabled", res.Status)
	}
	if _, present := res.Details["breaker_state"]; present {
		t.Error("breaker_state present without a breaker")
	}
	if check.Name() != "openai" {
		t.Errorf("Name() = %q, want openai", check.Name())
	}
}
