package health

import (
	"context"
	"testing"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusHealthy, "healthy"},
		{StatusDegraded, "degraded"},
		{StatusUnhealthy, "unhealthy"},
		{Status(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestResultConstructors(t *testing.T) {
	tests := []struct {
		result Result
		want   Status
	}{
		{Healthy("ok"), StatusHealthy},
		{Degraded("slow"), StatusDegraded},
		{Unhealthy("down"), StatusUnhealthy},
	}
	for _, tt := range tests {
		if tt.result.Status != tt.want {
			t.Errorf("Status = %v, want %v", tt.result.Status, tt.want)
		}
		if tt.result.Timestamp.IsZero() {
			t.Error("Timestamp is zero")
		}
	}
}

func TestResult_WithDetails(t *testing.T) {
	r := Healthy("ok").WithDetails(map[string]any{"queue_size": 3})
	if r.Details["queue_size"] != 3 {
		t.Errorf("Details[queue_size] = %v, want 3", r.Details["queue_size"])
	}
	if r.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", r.Status)
	}
}

func TestCheckerFunc(t *testing.T) {
	c := NewCheckerFunc("db", func(ctx context.Context) Result {
		return Healthy("connected")
	})

	if c.Name() != "db" {
		t.Errorf("Name() = %q, want db", c.Name())
	}
	res := c.Check(context.Background())
	if res.Status != StatusHealthy || res.Message != "connected" {
		t.Errorf("Check() = %+v, want healthy/connected", res)
	}
}
