package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimiter throttles credential endpoints per client IP and route.
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	mutex    sync.Mutex
	rate     rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

func NewRateLimiter(r rate.Limit, burst int, ttl time.Duration) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		rate:     r,
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (l *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limiter := l.getLimiter(c.RealIP() + " " + c.Path())
			reservation := limiter.ReserveN(l.now(), 1)
			if !reservation.OK() {
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			if delay := reservation.DelayFrom(l.now()); delay > 0 {
				reservation.CancelAt(l.now())
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}

func (l *RateLimiter) getLimiter(key string) *rate.Limiter {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	now := l.now()
	if limiter, ok := l.limiters[key]; ok {
		l.lastSeen[key] = now
		return limiter
	}
	limiter := rate.NewLimiter(l.rate, l.burst)
	l.limiters[key] = limiter
	l.lastSeen[key] = now
	l.cleanup(now)
	return limiter
}

func (l *RateLimiter) cleanup(now time.Time) {
	if l.ttl == 0 {
		return
	}
	cutoff := now.Add(-l.ttl)
	for key, last := range l.lastSeen {
		if last.Before(cutoff) {
			delete(l.lastSeen, key)
			delete(l.limiters, key)
		}
	}
}
