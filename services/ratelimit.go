package services

import (
	"fmt"

	"golang.org/x/time/rate"

	"equity-insight/observability"
)

// RateLimiter caps calls to one provider within a rolling one-minute window.
// When the ceiling is hit the call is rejected immediately with ErrRateLimited
// rather than queued, so the orchestrator can fall through to the next
// provider without blocking.
//
// The limiter is owned by the adapter instance, not a package-level global, so
// tests can construct and reset it freely.
type RateLimiter struct {
	provider string
	lim      *rate.Limiter
}

// NewRateLimiter allows up to perMinute calls per rolling minute for the
// named provider. perMinute <= 0 disables limiting.
func NewRateLimiter(provider string, perMinute int) *RateLimiter {
	if perMinute <= 0 {
		return &RateLimiter{provider: provider, lim: rate.NewLimiter(rate.Inf, 1)}
	}
	// Tokens refill evenly across the minute with a burst of the full
	// per-minute allowance, approximating a rolling one-minute window.
	return &RateLimiter{
		provider: provider,
		lim:      rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
	}
}

// Allow consumes one token, or rejects with ErrRateLimited.
func (r *RateLimiter) Allow() error {
	if r == nil || r.lim.Allow() {
		return nil
	}
	observability.GetMetrics().RecordRateLimited(r.provider)
	observability.Warn("rate limit hit, rejecting request", "provider", r.provider)
	return fmt.Errorf("%s: %w", r.provider, ErrRateLimited)
}
