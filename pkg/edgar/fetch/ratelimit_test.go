package fetch

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter_TrailingWindow(t *testing.T) {
	limit := 3
	rl := NewRateLimiter(limit)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 2*limit; i++ {
		if err := rl.Acquire(ctx); err != nil {
			t.Fatalf("Acquire %d failed: %v", i, err)
		}
	}
	elapsed := time.Since(start)

	// Second batch cannot be admitted until the first batch ages out of
	// the one-second window.
	if elapsed < time.Second {
		t.Errorf("2x limit acquisitions took %v, want at least 1s", elapsed)
	}
	if got := rl.Issued(); got != int64(2*limit) {
		t.Errorf("Issued() = %d, want %d", got, 2*limit)
	}
}

func TestRateLimiter_CancelledContext(t *testing.T) {
	rl := NewRateLimiter(1)
	ctx := context.Background()

	if err := rl.Acquire(ctx); err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := rl.Acquire(cancelled); err == nil {
		t.Error("Acquire with cancelled context should fail while window is full")
	}
}
