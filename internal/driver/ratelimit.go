package driver

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// hostLimiter enforces a minimum interval between consecutive requests to
// the same host. It is the only state the HTTP driver shares across
// concurrent fetches, so the limiter map is mutex-guarded; the limiters
// themselves are safe for concurrent use.
type hostLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	limiters map[string]*rate.Limiter
}

// newHostLimiter creates a limiter enforcing the given per-host interval.
// A zero or negative interval disables waiting entirely.
func newHostLimiter(interval time.Duration) *hostLimiter {
	return &hostLimiter{
		interval: interval,
		limiters: make(map[string]*rate.Limiter),
	}
}

// wait blocks until a request to host is allowed, or the context ends.
func (h *hostLimiter) wait(ctx context.Context, host string) error {
	if h.interval <= 0 {
		return nil
	}

	h.mu.Lock()
	limiter, ok := h.limiters[host]
	if !ok {
		// Burst of 1: the first request goes through immediately, every
		// request after it waits out the interval.
		limiter = rate.NewLimiter(rate.Every(h.interval), 1)
		h.limiters[host] = limiter
	}
	h.mu.Unlock()

	return limiter.Wait(ctx)
}
