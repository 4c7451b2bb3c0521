package guard

import (
	"context"
	"errors"
	"testing"
)

func BenchmarkRateLimiter_Acquire(b *testing.B) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 1 << 30})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = rl.Acquire()
	}
}

func BenchmarkCircuitBreaker_Allow(b *testing.B) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cb.Allow()
	}
}

func BenchmarkCircuitBreaker_RecordSuccess(b *testing.B) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cb.RecordSuccess()
	}
}

func BenchmarkIsRetryable(b *testing.B) {
	err := MarkRetryable(errors.New("transient"))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		IsRetryable(err)
	}
}

func BenchmarkBulkhead_Execute(b *testing.B) {
	bh := NewBulkhead(BulkheadConfig{MaxConcurrent: 64})
	ctx := context.Background()
	op := func(ctx context.Context) error { return nil }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bh.Execute(ctx, op)
	}
}
