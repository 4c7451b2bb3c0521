package callguard

import (
	"context"
	"time"
)

// Operation is the caller-supplied unit of work: a no-argument asynchronous
// call producing a result or failing. It must be safe to invoke more than
// once when retries are enabled. Errors tagged with guard.MarkRetryable (or
// exposing Retryable() bool) are retried; untagged errors are terminal.
type Operation func(ctx context.Context) (any, error)

// Request is one unit of work submitted to a Client.
type Request struct {
	// ID uniquely identifies the request. Generated when empty.
	ID string

	// Operation is a human-readable name used for logging and tracing only.
	Operation string

	// Execute performs the actual provider call.
	Execute Operation

	// Priority orders queued requests; higher runs sooner. Equal priorities
	// run in enqueue order. Default: 0
	Priority int

	// Timeout overrides the client default for this request.
	Timeout time.Duration

	// MaxRetries overrides the client default for this request. Zero applies
	// the client default; a negative value disables retries.
	MaxRetries int

	// BypassRateLimit skips rate limiter admission for this request only.
	BypassRateLimit bool

	// Metadata is an opaque bag carried alongside the request. The client
	// never interprets it.
	Metadata map[string]any
}

// Response is returned to the caller on success.
type Response struct {
	// RequestID echoes the request's id.
	RequestID string

	// Data is whatever the operation produced.
	Data any

	// Elapsed is the wall-clock time from admission to completion.
	Elapsed time.Duration

	// Retries is the number of re-invocations that were needed.
	Retries int

	// FromCache is reserved for future caching layers; always false.
	FromCache bool
}
