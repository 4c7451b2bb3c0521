// Package observe provides observability for outbound provider calls:
// structured logging, OpenTelemetry metrics, and distributed tracing.
//
// The package is consumed by the client facade through narrow interfaces:
// Logger for structured logs, Metrics for call counters and histograms, and
// Tracer for per-call spans. Each has a no-op implementation so telemetry is
// always optional.
//
// # Usage
//
//	obs, err := observe.NewObserver(ctx, observe.Config{
//	    ServiceName: "my-service",
//	    Version:     "1.0.0",
//	    Tracing:     observe.TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.0},
//	    Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
//	    Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer obs.Shutdown(ctx)
//
// Exporters are selected by name; see the exporters subpackage for the
// supported set (stdout, otlp, prometheus, none).
package observe
