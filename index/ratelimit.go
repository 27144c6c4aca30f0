package index

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// SourceLimiter provides per-source rate limiting using token buckets.
// Each source gets its own limiter, so a slow read of one browser's
// files does not throttle the others.
type SourceLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewSourceLimiter creates a SourceLimiter with the specified reads
// per second limit. Each source gets a burst of 1.
func NewSourceLimiter(rps float64) *SourceLimiter {
	return &SourceLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a read from the source.
// Returns an error if the context is canceled before the wait
// completes.
func (s *SourceLimiter) Wait(ctx context.Context, source string) error {
	s.mu.Lock()
	limiter, ok := s.limiters[source]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(s.rps), 1)
		s.limiters[source] = limiter
	}
	s.mu.Unlock()

	return limiter.Wait(ctx)
}
