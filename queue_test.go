package callguard

import (
	"errors"
	"testing"
	"time"
)

func TestRequestQueue_PriorityThenFIFO(t *testing.T) {
	q := newRequestQueue(10)
	now := time.Now()

	push := func(id string, priority int, at time.Time) {
		t.Helper()
		err := q.push(&queueItem{
			req:        &Request{ID: id, Priority: priority},
			enqueuedAt: at,
			done:       make(chan outcome, 1),
		})
		if err != nil {
			t.Fatalf("push(%s) error = %v", id, err)
		}
	}

	push("low", 1, now)
	push("high", 5, now.Add(time.Millisecond))
	push("mid", 3, now.Add(2*time.Millisecond))
	push("high2", 5, now.Add(3*time.Millisecond))

	var got []string
	for {
		item, ok := q.pop()
		if !ok {
			break
		}
		got = append(got, item.req.ID)
	}

	want := []string{"high", "high2", "mid", "low"}
	if len(got) != len(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRequestQueue_EqualPriorityEqualTime(t *testing.T) {
	q := newRequestQueue(10)
	now := time.Now()

	for _, id := range []string{"a", "b", "c"} {
		if err := q.push(&queueItem{req: &Request{ID: id}, enqueuedAt: now}); err != nil {
			t.Fatalf("push(%s) error = %v", id, err)
		}
	}

	// Same priority and timestamp fall back to insertion order.
	for _, want := range []string{"a", "b", "c"} {
		item, ok := q.pop()
		if !ok || item.req.ID != want {
			t.Errorf("pop() = %v, want %q", item, want)
		}
	}
}

func TestRequestQueue_CapacityError(t *testing.T) {
	q := newRequestQueue(2)
	now := time.Now()

	for i := 0; i < 2; i++ {
		if err := q.push(&queueItem{req: &Request{}, enqueuedAt: now}); err != nil {
			t.Fatalf("push #%d error = %v", i+1, err)
		}
	}

	err := q.push(&queueItem{req: &Request{}, enqueuedAt: now})
	if !errors.Is(err, ErrQueueFull) {
		t.Errorf("push over capacity = %v, want ErrQueueFull", err)
	}
	if q.len() != 2 {
		t.Errorf("len = %d, want 2", q.len())
	}
}

func TestRequestQueue_Drain(t *testing.T) {
	q := newRequestQueue(10)
	now := time.Now()

	for i := 0; i < 3; i++ {
		_ = q.push(&queueItem{req: &Request{}, enqueuedAt: now})
	}

	items := q.drain()
	if len(items) != 3 {
		t.Errorf("drain returned %d items, want 3", len(items))
	}
	if q.len() != 0 {
		t.Errorf("len after drain = %d, want 0", q.len())
	}
}
