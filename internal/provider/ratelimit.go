package provider

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/jmylchreest/packforge/internal/config"
)

// Limiter imposes a fixed delay between successive requests to each
// provider, derived from the provider's configured budget as
// ceil(interval_seconds / max_requests). It is coarse and non-adaptive:
// no rolling window, no response-header tracking. That is enough here
// because the pipeline is sequential and never issues concurrent
// requests to one provider.
type Limiter struct {
	mu       sync.Mutex
	policies map[string]config.RateLimitConfig
	limiters map[string]*rate.Limiter
}

// NewLimiter creates a limiter from the per-provider budget table.
// The table is read-only after construction.
func NewLimiter(policies map[string]config.RateLimitConfig) *Limiter {
	return &Limiter{
		policies: policies,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Delay returns the fixed per-request delay for a provider.
func (l *Limiter) Delay(provider string) time.Duration {
	policy, ok := l.policies[provider]
	if !ok || policy.MaxRequests <= 0 || policy.IntervalSeconds <= 0 {
		return time.Second
	}
	// Ceiling division keeps the delay pessimistic for budgets that
	// don't divide evenly.
	secs := (policy.IntervalSeconds + policy.MaxRequests - 1) / policy.MaxRequests
	return time.Duration(secs) * time.Second
}

// Throttle blocks until the provider's next request slot, or until ctx
// is cancelled. Call it before every outbound request.
func (l *Limiter) Throttle(ctx context.Context, provider string) error {
	l.mu.Lock()
	lim, ok := l.limiters[provider]
	if !ok {
		lim = rate.NewLimiter(rate.Every(l.Delay(provider)), 1)
		l.limiters[provider] = lim
	}
	l.mu.Unlock()

	return lim.Wait(ctx)
}
