package guard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNewBulkhead_Defaults(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{})

	if b.config.MaxConcurrent != 10 {
		t.Errorf("MaxConcurrent = %d, want 10", b.config.MaxConcurrent)
	}
}

func TestBulkhead_RejectsWhenFull(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 2})
	ctx := context.Background()

	if err := b.Acquire(ctx); err != nil {
		t.Fatalf("Acquire() #1 error = %v", err)
	}
	if err := b.Acquire(ctx); err != nil {
		t.Fatalf("Acquire() #2 error = %v", err)
	}
	if err := b.Acquire(ctx); !errors.Is(err, ErrBulkheadFull) {
		t.Errorf("Acquire() #3 error = %v, want ErrBulkheadFull", err)
	}

	b.Release()
	if err := b.Acquire(ctx); err != nil {
		t.Errorf("Acquire() after release = %v, want nil", err)
	}
}

func TestBulkhead_WaitsForSlot(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{
		MaxConcurrent: 1,
		MaxWait:       time.Second,
	})
	ctx := context.Background()

	if err := b.Acquire(ctx); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		b.Release()
	}()

	if err := b.Acquire(ctx); err != nil {
		t.Errorf("Acquire() with wait = %v, want nil", err)
	}
}

func TestBulkhead_Execute(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 3})

	var wg sync.WaitGroup
	var mu sync.Mutex
	rejected := 0
	release := make(chan struct{})

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := b.Execute(context.Background(), func(ctx context.Context) error {
				<-release
				return nil
			})
			if errors.Is(err, ErrBulkheadFull) {
				mu.Lock()
				rejected++
				mu.Unlock()
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if rejected != 2 {
		t.Errorf("rejected = %d, want 2", rejected)
	}

	m := b.Metrics()
	if m.Active != 0 {
		t.Errorf("Active = %d, want 0", m.Active)
	}
	if m.Peak != 3 {
		t.Errorf("Peak = %d, want 3", m.Peak)
	}
	if m.Rejected != 2 {
		t.Errorf("Rejected = %d, want 2", m.Rejected)
	}
}
