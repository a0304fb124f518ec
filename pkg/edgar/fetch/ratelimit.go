package fetch

import (
	"context"
	"sync"
	"time"
)

// RateLimiter bounds outbound request admissions to at most limit per
// trailing one-second window. Admission timestamps are kept in a
// time-ordered queue; entries older than one second are evicted on each
// call. Safe for concurrent callers.
type RateLimiter struct {
	mu       sync.Mutex
	limit    int
	admitted []time.Time
	issued   int64
}

// NewRateLimiter creates a limiter admitting at most perSecond requests
// within any trailing one-second window.
func NewRateLimiter(perSecond int) *RateLimiter {
	if perSecond < 1 {
		perSecond = 1
	}
	return &RateLimiter{limit: perSecond}
}

// Acquire blocks until a request may be issued, or until ctx is done.
func (rl *RateLimiter) Acquire(ctx context.Context) error {
	for {
		rl.mu.Lock()
		now := time.Now()

		// Evict admissions older than one second
		cut := 0
		for cut < len(rl.admitted) && now.Sub(rl.admitted[cut]) >= time.Second {
			cut++
		}
		if cut > 0 {
			rl.admitted = append(rl.admitted[:0], rl.admitted[cut:]...)
		}

		if len(rl.admitted) < rl.limit {
			rl.admitted = append(rl.admitted, now)
			rl.issued++
			rl.mu.Unlock()
			return nil
		}

		// Wait until the oldest admission ages out, then retry
		wait := time.Second - now.Sub(rl.admitted[0])
		rl.mu.Unlock()

		if wait < time.Millisecond {
			wait = time.Millisecond
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// Issued returns the total number of admissions granted so far.
func (rl *RateLimiter) Issued() int64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.issued
}
