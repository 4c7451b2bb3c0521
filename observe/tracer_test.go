package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestCallMeta_SpanName(t *testing.T) {
	tests := []struct {
		meta CallMeta
		want string
	}{
		{CallMeta{Provider: "openai", Operation: "chat.completion"}, "call.exec.openai.chat.completion"},
		{CallMeta{Provider: "openai"}, "call.exec.openai"},
	}
	for _, tt := range tests {
		if got := tt.meta.SpanName(); got != tt.want {
			t.Errorf("SpanName() = %q, want %q", got, tt.want)
		}
	}
}

func newRecordingTracer(t *testing.T) (Tracer, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return NewTracer(tp.Tracer("test")), rec
}

func TestTracer_StartSpan(t *testing.T) {
	tracer, rec := newRecordingTracer(t)

	_, span := tracer.StartSpan(context.Background(), CallMeta{
		Provider:  "openai",
		Operation: "embed",
		RequestID: "req-7",
	})
	tracer.EndSpan(span, nil)

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	got := spans[0]

	if got.Name() != "call.exec.openai.embed" {
		t.Errorf("span name = %q, want call.exec.openai.embed", got.Name())
	}
	if got.SpanKind() != trace.SpanKindClient {
		t.Errorf("span kind = %v, want client", got.SpanKind())
	}
	if got.Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", got.Status().Code)
	}

	attrs := make(map[attribute.Key]string)
	for _, kv := range got.Attributes() {
		attrs[kv.Key] = kv.Value.AsString()
	}
	if attrs["call.provider"] != "openai" {
		t.Errorf("call.provider = %q, want openai", attrs["call.provider"])
	}
	if attrs["call.operation"] != "embed" {
		t.Errorf("call.operation = %q, want embed", attrs["call.operation"])
	}
	if attrs["call.request_id"] != "req-7" {
		t.Errorf("call.request_id = %q, want req-7", attrs["call.request_id"])
	}
}

func TestTracer_EndSpan_Error(t *testing.T) {
	tracer, rec := newRecordingTracer(t)

	_, span := tracer.StartSpan(context.Background(), CallMeta{Provider: "openai"})
	tracer.EndSpan(span, errors.New("rate limited"))

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	got := spans[0]

	if got.Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", got.Status().Code)
	}
	if got.Status().Description != "rate limited" {
		t.Errorf("description = %q, want rate limited", got.Status().Description)
	}
	if len(got.Events()) == 0 {
		t.Error("no error event recorded")
	}
}

func TestNoopTracer(t *testing.T) {
	tracer := NewNoopTracer()

	ctx, span := tracer.StartSpan(context.Background(), CallMeta{Provider: "openai"})
	if ctx == nil {
		t.Fatal("StartSpan returned nil context")
	}
	// Must not panic either way.
	tracer.EndSpan(span, errors.New("ignored"))
}
