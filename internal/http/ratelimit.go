package http

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimiter hands out one token bucket per session.
type RateLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

// NewRateLimiter allows perSecond events per session with the given burst.
// A non-positive perSecond disables limiting.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	l := &RateLimiter{limiters: make(map[string]*rate.Limiter)}
	l.SetLimit(perSecond, burst)
	return l
}

// SetLimit changes the budget for new and existing sessions.
func (l *RateLimiter) SetLimit(perSecond float64, burst int) {
	if burst < 1 {
		burst = 1
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.limit = rate.Limit(perSecond)
	l.burst = burst
	if l.limit <= 0 {
		clear(l.limiters)
		return
	}
	for _, lim := range l.limiters {
		lim.SetLimit(l.limit)
		lim.SetBurst(l.burst)
	}
}

// Allow reports whether the session may make another request now.
func (l *RateLimiter) Allow(sessionID string) bool {
	if l == nil {
		return true
	}

	l.mu.Lock()
	if l.limit <= 0 {
		l.mu.Unlock()
		return true
	}
	lim, ok := l.limiters[sessionID]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[sessionID] = lim
	}
	l.mu.Unlock()

	return lim.Allow()
}

// Forget drops the bucket for an expired session.
func (l *RateLimiter) Forget(sessionID string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	delete(l.limiters, sessionID)
	l.mu.Unlock()
}

// Len returns the number of tracked sessions.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Middleware rejects requests over the session's budget with 429.
// It must run after requireSession.
func (l *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := sessionFrom(c)
			if sess != nil && !l.Allow(sess.ID) {
				return apiError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
