package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records outbound call metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCall records one settled call with its duration, retry count and
	// error status.
	RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, retries int, err error)

	// AddQueueDepth adjusts the pending-queue depth gauge for a provider.
	AddQueueDepth(ctx context.Context, provider string, delta int64)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	retryCount   metric.Int64Counter
	queueDepth   metric.Int64UpDownCounter
	durationHist metric.Float64Histogram
}

// NewMetrics creates a Metrics instance on the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		"call.exec.total",
		metric.WithDescription("Total number of outbound calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"call.exec.errors",
		metric.WithDescription("Total number of failed outbound calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	retryCount, err := meter.Int64Counter(
		"call.exec.retries",
		metric.WithDescription("Total number of retry attempts"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	queueDepth, err := meter.Int64UpDownCounter(
		"call.queue.depth",
		metric.WithDescription("Requests waiting in the client queue"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"call.exec.duration_ms",
		metric.WithDescription("Outbound call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		totalCount:   totalCount,
		errorCount:   errorCount,
		retryCount:   retryCount,
		queueDepth:   queueDepth,
		durationHist: durationHist,
	}, nil
}

// RecordCall records metrics for one settled call.
func (m *metricsImpl) RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, retries int, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("call.provider", meta.Provider),
	}
	if meta.Operation != "" {
		attrs = append(attrs, attribute.String("call.operation", meta.Operation))
	}

	opt := metric.WithAttributes(attrs...)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	if retries > 0 {
		m.retryCount.Add(ctx, int64(retries), opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// AddQueueDepth adjusts the queue depth gauge.
func (m *metricsImpl) AddQueueDepth(ctx context.Context, provider string, delta int64) {
	m.queueDepth.Add(ctx, delta, metric.WithAttributes(
		attribute.String("call.provider", provider),
	))
}

// NoopMetrics returns a Metrics implementation that does nothing.
func NoopMetrics() Metrics {
	return &noopMetrics{}
}

type noopMetrics struct{}

func (m *noopMetrics) RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, retries int, err error) {
}

func (m *noopMetrics) AddQueueDepth(ctx context.Context, provider string, delta int64) {}
