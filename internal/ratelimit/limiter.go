package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter bounds how often the refresh pipeline may rebuild a
// snapshot. The debounce window coalesces bursts; the limiter caps the
// steady-state rebuild rate when events keep arriving.
type Limiter struct {
	limiter *rate.Limiter
}

func New(rps int, burst int) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Wait blocks until a rebuild is allowed or the context is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether a rebuild may run right now without waiting.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}
