package callguard

import "errors"

// Sentinel errors for the client facade.
var (
	// ErrQueueFull is returned synchronously when the request queue is at
	// capacity. The request is never silently dropped or blocked.
	ErrQueueFull = errors.New("callguard: request queue is full")

	// ErrQueueCleared is delivered to every request still pending when
	// ClearQueue is invoked.
	ErrQueueCleared = errors.New("callguard: request queue cleared")

	// ErrMissingProvider indicates Config.Provider is empty.
	ErrMissingProvider = errors.New("callguard: provider is required")

	// ErrMissingExecute indicates a request without an Execute operation.
	ErrMissingExecute = errors.New("callguard: request requires an Execute operation")
)
