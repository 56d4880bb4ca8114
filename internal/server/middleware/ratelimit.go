package middleware

import (
	"net/http"
	"sync"
	"time"
)

// RateLimiter enforces a fixed-window request cap per caller. Counters reset
// when their window expires; the map is pruned lazily on each hit.
type RateLimiter struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	windows map[string]*callerWindow
	now     func() time.Time
}

type callerWindow struct {
	start time.Time
	count int
}

// NewRateLimiter returns a limiter allowing max requests per window per caller key.
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		max:     max,
		window:  window,
		windows: make(map[string]*callerWindow),
		now:     time.Now,
	}
}

// Allow records one hit for key and reports whether it is within the cap.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		l.prune(now)
		l.windows[key] = &callerWindow{start: now, count: 1}
		return true
	}
	w.count++
	return w.count <= l.max
}

// prune drops expired windows. Called with the lock held.
func (l *RateLimiter) prune(now time.Time) {
	for key, w := range l.windows {
		if now.Sub(w.start) >= l.window {
			delete(l.windows, key)
		}
	}
}

// Limit wraps next with the per-caller cap, keyed by authenticated user when
// present and client IP otherwise. Over-cap requests get 429 before auth or
// dispatch run.
func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := ClientIP(r)
		if !l.Allow(key) {
			w.Header().Set("Retry-After", l.window.String())
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
