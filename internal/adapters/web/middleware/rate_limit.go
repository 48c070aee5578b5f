package middleware

import (
	"net/http"
	"sync"
	"time"
)

// rateLimiter tracks request timestamps per remote address over a sliding
// window. Stale addresses are pruned lazily on access.
type rateLimiter struct {
	mu     sync.Mutex
	seen   map[string][]time.Time
	limit  int
	window time.Duration
}

// NewRateLimiter creates a limiter allowing limit requests per window.
func NewRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		seen:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
	}
}

// Allow records a request from addr and reports whether it fits the window.
func (rl *rateLimiter) Allow(addr string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-rl.window)
	recent := rl.seen[addr][:0]
	for _, t := range rl.seen[addr] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= rl.limit {
		rl.seen[addr] = recent
		return false
	}

	rl.seen[addr] = append(recent, time.Now())
	return true
}

// RateLimitMiddleware rejects requests above the limiter's threshold with
// 429 Too Many Requests.
func RateLimitMiddleware(limiter *rateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(r.RemoteAddr) {
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
