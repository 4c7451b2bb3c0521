package callguard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/jonwraymond/callguard/guard"
	"github.com/jonwraymond/callguard/observe"
)

// Config configures a Client. Provider is required; everything else has a
// default.
type Config struct {
	// Provider identifies the target service. It scopes the rate limiter and
	// circuit breaker state. Required.
	Provider string

	// DefaultTimeout bounds one execution attempt. Default: 60 seconds
	DefaultTimeout time.Duration

	// DefaultMaxRetries is the retry budget per request. Default: 3.
	// A negative value disables retries.
	DefaultMaxRetries int

	// RetryInitialDelay is the backoff before the first retry.
	// Default: 100ms
	RetryInitialDelay time.Duration

	// RetryBackoffMultiplier is the factor the backoff grows by per retry.
	// Default: 2.0
	RetryBackoffMultiplier float64

	// RetryJitter adds randomness to retry backoff. Default: false
	RetryJitter bool

	// RateLimitPerMinute is the sliding window admission budget.
	// Zero disables rate limiting.
	RateLimitPerMinute int

	// EnableCircuitBreaker turns on the per-provider circuit breaker.
	EnableCircuitBreaker bool

	// CircuitBreakerThreshold is the failure count that opens the circuit.
	// Default: 5
	CircuitBreakerThreshold int

	// CircuitBreakerTimeout is how long an open circuit waits before probing.
	// Default: 30 seconds
	CircuitBreakerTimeout time.Duration

	// DisableQueue executes requests immediately instead of queueing them.
	// The queue is enabled by default.
	DisableQueue bool

	// MaxQueueSize bounds the number of pending requests. Default: 100
	MaxQueueSize int

	// QueuePacing is the fixed delay between drained queue items.
	// Default: 100ms
	QueuePacing time.Duration

	// MaxConcurrent bounds in-flight direct executions when the queue is
	// disabled. Zero means unbounded.
	MaxConcurrent int

	// Logger receives structured logs. Nil disables logging.
	Logger observe.Logger

	// Meter records call metrics. Nil disables metrics.
	Meter metric.Meter

	// Tracer emits one span per call. Nil disables tracing.
	Tracer trace.Tracer
}

// Client composes the guard primitives into a single entry point for one
// provider. Multiple clients operate independently and may run concurrently;
// within one client, queued requests execute serially in priority order.
type Client struct {
	config  Config
	logger  observe.Logger
	metrics observe.Metrics
	tracer  observe.Tracer

	limiter  *guard.RateLimiter
	breaker  *guard.CircuitBreaker
	bulkhead *guard.Bulkhead
	pacer    *rate.Limiter

	mu         sync.Mutex
	queue      *requestQueue
	processing bool
}

// New creates a Client for one provider.
func New(config Config) (*Client, error) {
	if config.Provider == "" {
		return nil, ErrMissingProvider
	}

	// Apply defaults
	if config.DefaultTimeout <= 0 {
		config.DefaultTimeout = 60 * time.Second
	}
	if config.DefaultMaxRetries == 0 {
		config.DefaultMaxRetries = 3
	}
	if config.RetryInitialDelay <= 0 {
		config.RetryInitialDelay = 100 * time.Millisecond
	}
	if config.RetryBackoffMultiplier <= 0 {
		config.RetryBackoffMultiplier = 2.0
	}
	if config.CircuitBreakerThreshold <= 0 {
		config.CircuitBreakerThreshold = 5
	}
	if config.CircuitBreakerTimeout <= 0 {
		config.CircuitBreakerTimeout = 30 * time.Second
	}
	if config.MaxQueueSize <= 0 {
		config.MaxQueueSize = 100
	}
	if config.QueuePacing <= 0 {
		config.QueuePacing = 100 * time.Millisecond
	}

	c := &Client{
		config:  config,
		logger:  config.Logger,
		metrics: observe.NoopMetrics(),
		tracer:  observe.NewNoopTracer(),
	}
	if c.logger == nil {
		c.logger = observe.NopLogger()
	}
	if config.Meter != nil {
		m, err := observe.NewMetrics(config.Meter)
		if err != nil {
			return nil, err
		}
		c.metrics = m
	}
	if config.Tracer != nil {
		c.tracer = observe.NewTracer(config.Tracer)
	}

	if config.RateLimitPerMinute > 0 {
		c.limiter = guard.NewRateLimiter(guard.RateLimiterConfig{
			Provider:          config.Provider,
			RequestsPerMinute: config.RateLimitPerMinute,
		})
	}
	if config.EnableCircuitBreaker {
		c.breaker = guard.NewCircuitBreaker(guard.CircuitBreakerConfig{
			FailureThreshold: config.CircuitBreakerThreshold,
			ResetTimeout:     config.CircuitBreakerTimeout,
		})
	}
	if !config.DisableQueue {
		c.queue = newRequestQueue(config.MaxQueueSize)
		c.pacer = rate.NewLimiter(rate.Every(config.QueuePacing), 1)
	} else if config.MaxConcurrent > 0 {
		c.bulkhead = guard.NewBulkhead(guard.BulkheadConfig{
			MaxConcurrent: config.MaxConcurrent,
		})
	}

	return c, nil
}

// Do submits a request and blocks until its response or terminal error.
//
// With the queue enabled the request is buffered in priority order and a
// single drain loop executes items one at a time; a full queue fails
// immediately with ErrQueueFull. Once enqueued the request runs to completion
// even if ctx is cancelled while waiting — execution is fire-and-abandon, the
// cancelled caller just stops observing it.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.Execute == nil {
		return nil, ErrMissingExecute
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	if c.queue == nil {
		if c.bulkhead != nil {
			if err := c.bulkhead.Acquire(ctx); err != nil {
				return nil, err
			}
			defer c.bulkhead.Release()
		}
		return c.dispatch(ctx, req)
	}

	item := &queueItem{
		req:        req,
		enqueuedAt: time.Now(),
		done:       make(chan outcome, 1),
	}

	c.mu.Lock()
	if err := c.queue.push(item); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	start := !c.processing
	if start {
		c.processing = true
	}
	c.mu.Unlock()

	c.metrics.AddQueueDepth(ctx, c.config.Provider, 1)
	c.logger.Debug(ctx, "request enqueued",
		observe.Field{Key: "request_id", Value: req.ID},
		observe.Field{Key: "priority", Value: req.Priority},
	)

	if start {
		go c.drainLoop()
	}

	select {
	case out := <-item.done:
		return out.resp, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// drainLoop pops queued items one at a time until the queue is empty. The
// processing flag guarantees a single loop per client; emptiness is rechecked
// under the same lock that guards enqueue so no item is stranded.
func (c *Client) drainLoop() {
	for {
		c.mu.Lock()
		item, ok := c.queue.pop()
		if !ok {
			c.processing = false
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()

		ctx := context.Background()
		resp, err := c.dispatch(ctx, item.req)
		item.done <- outcome{resp: resp, err: err}
		c.metrics.AddQueueDepth(ctx, c.config.Provider, -1)

		// Pacing between items; not retried, not surfaced.
		_ = c.pacer.Wait(ctx)
	}
}

// dispatch runs the gated pipeline for one request: breaker gate, limiter
// admission, retry-wrapped timeout-guarded execution, then outcome recording.
func (c *Client) dispatch(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()
	meta := observe.CallMeta{
		Provider:  c.config.Provider,
		Operation: req.Operation,
		RequestID: req.ID,
	}
	logger := c.callLogger(meta)

	ctx, span := c.tracer.StartSpan(ctx, meta)

	if c.breaker != nil && !c.breaker.Allow() {
		logger.Warn(ctx, "circuit open, failing fast",
			observe.Field{Key: "next_retry", Value: c.breaker.Status().NextRetry},
		)
		c.settle(ctx, span, meta, start, 0, guard.ErrCircuitOpen)
		return nil, guard.ErrCircuitOpen
	}

	if c.limiter != nil && !req.BypassRateLimit {
		if err := c.limiter.Acquire(); err != nil {
			logger.Warn(ctx, "rate limit exceeded", observe.Field{Key: "error", Value: err.Error()})
			c.settle(ctx, span, meta, start, 0, err)
			return nil, err
		}
	}

	maxRetries := c.config.DefaultMaxRetries
	if req.MaxRetries > 0 {
		maxRetries = req.MaxRetries
	} else if req.MaxRetries < 0 {
		maxRetries = -1
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	timeout := c.config.DefaultTimeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	tg := guard.NewTimeout(guard.TimeoutConfig{
		Timeout:   timeout,
		Operation: req.Operation,
	})

	retries := 0
	var data any

	retry := guard.NewRetry(guard.RetryConfig{
		MaxRetries:   retryBudget(maxRetries),
		InitialDelay: c.config.RetryInitialDelay,
		Multiplier:   c.config.RetryBackoffMultiplier,
		Jitter:       c.config.RetryJitter,
		RetryIf: func(err error) bool {
			if c.breaker != nil && !c.breaker.Ready() {
				return false
			}
			return guard.IsRetryable(err)
		},
		OnRetry: func(attempt int, err error, delay time.Duration) {
			retries = attempt
			logger.Warn(ctx, "attempt failed, retrying",
				observe.Field{Key: "attempt", Value: attempt},
				observe.Field{Key: "delay", Value: delay.String()},
				observe.Field{Key: "error", Value: err.Error()},
			)
		},
	})

	err := retry.Execute(ctx, func(ctx context.Context) error {
		var attemptData any
		attemptErr := tg.Execute(ctx, func(ctx context.Context) error {
			d, execErr := req.Execute(ctx)
			if execErr != nil {
				return execErr
			}
			attemptData = d
			return nil
		})
		if attemptErr != nil {
			return attemptErr
		}
		data = attemptData
		return nil
	})

	if c.breaker != nil {
		if err != nil {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}

	c.settle(ctx, span, meta, start, retries, err)

	if err != nil {
		logger.Error(ctx, "request failed",
			observe.Field{Key: "retries", Value: retries},
			observe.Field{Key: "error", Value: err.Error()},
		)
		return nil, err
	}

	elapsed := time.Since(start)
	logger.Debug(ctx, "request completed",
		observe.Field{Key: "retries", Value: retries},
		observe.Field{Key: "elapsed_ms", Value: elapsed.Milliseconds()},
	)

	return &Response{
		RequestID: req.ID,
		Data:      data,
		Elapsed:   elapsed,
		Retries:   retries,
	}, nil
}

// settle closes the span and records call metrics for one settled request.
func (c *Client) settle(ctx context.Context, span trace.Span, meta observe.CallMeta, start time.Time, retries int, err error) {
	c.tracer.EndSpan(span, err)
	c.metrics.RecordCall(ctx, meta, time.Since(start), retries, err)
}

func (c *Client) callLogger(meta observe.CallMeta) observe.Logger {
	if ext, ok := c.logger.(observe.ExtendedLogger); ok {
		return ext.WithCall(meta)
	}
	return c.logger
}

// retryBudget maps "zero retries" onto the guard.Retry config, whose zero
// value means "use the default".
func retryBudget(maxRetries int) int {
	if maxRetries <= 0 {
		return -1
	}
	return maxRetries
}

// QueueSize returns the number of pending requests. Zero when the queue is
// disabled.
func (c *Client) QueueSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.queue == nil {
		return 0
	}
	return c.queue.len()
}

// ClearQueue rejects every pending request with ErrQueueCleared and empties
// the buffer. A request currently mid-execution is unaffected.
func (c *Client) ClearQueue() {
	c.mu.Lock()
	var items []*queueItem
	if c.queue != nil {
		items = c.queue.drain()
	}
	c.mu.Unlock()

	ctx := context.Background()
	for _, item := range items {
		item.done <- outcome{err: ErrQueueCleared}
		c.metrics.AddQueueDepth(ctx, c.config.Provider, -1)
	}
	if len(items) > 0 {
		c.logger.Warn(ctx, "queue cleared",
			observe.Field{Key: "rejected", Value: len(items)},
		)
	}
}

// RateLimiterState returns a snapshot of the rate limiter. The second return
// is false when rate limiting is disabled.
func (c *Client) RateLimiterState() (guard.LimiterState, bool) {
	if c.limiter == nil {
		return guard.LimiterState{}, false
	}
	return c.limiter.State(), true
}

// CircuitBreakerStatus returns a snapshot of the circuit breaker. The second
// return is false when the breaker is disabled.
func (c *Client) CircuitBreakerStatus() (guard.BreakerStatus, bool) {
	if c.breaker == nil {
		return guard.BreakerStatus{}, false
	}
	return c.breaker.Status(), true
}

// ResetCircuitBreaker forces the breaker closed with zeroed counters.
func (c *Client) ResetCircuitBreaker() {
	if c.breaker != nil {
		c.breaker.Reset()
	}
}

// ResetRateLimiter clears all rate limiter admission history.
func (c *Client) ResetRateLimiter() {
	if c.limiter != nil {
		c.limiter.Reset()
	}
}
