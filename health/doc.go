// Package health derives health checks from guard state.
//
// A provider is healthy while its circuit breaker is closed, degraded while
// the breaker is probing recovery or the rate limiter is saturated, and
// unhealthy while the breaker is open. The Aggregator combines checks across
// providers into one overall status, where the worst individual status wins.
package health
