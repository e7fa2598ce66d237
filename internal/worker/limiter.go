package worker

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles document loads per source directory. A directory is
// usually one corpus export, so a large export cannot starve the others.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new rate limiter. A non-positive rate disables
// throttling.
func NewLimiter(docsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	limit := rate.Limit(docsPerSecond)
	if docsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait waits for rate limit clearance for the given document path
func (l *Limiter) Wait(ctx context.Context, path string) error {
	return l.getLimiter(sourceOf(path)).Wait(ctx)
}

// Allow checks if a load is allowed without waiting
func (l *Limiter) Allow(path string) bool {
	return l.getLimiter(sourceOf(path)).Allow()
}

// getLimiter returns the rate limiter for a source
func (l *Limiter) getLimiter(source string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[source]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[source]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[source] = limiter

	return limiter
}

// SetSourceRate sets a custom rate for one source directory
func (l *Limiter) SetSourceRate(dir string, docsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}

	l.limiters[filepath.Clean(dir)] = rate.NewLimiter(rate.Limit(docsPerSecond), burst)
}

// sourceOf maps a document path to its source directory
func sourceOf(path string) string {
	return filepath.Dir(filepath.Clean(path))
}

// WaitWithDelay waits for rate limit and adds an additional delay
func (l *Limiter) WaitWithDelay(ctx context.Context, path string, additionalDelay time.Duration) error {
	if err := l.Wait(ctx, path); err != nil {
		return err
	}

	if additionalDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(additionalDelay):
		}
	}

	return nil
}
