package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter hands out one token bucket per client key.
type RateLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	idle    time.Duration
	now     func() time.Time
	buckets map[string]*bucket
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewRateLimiter allows perMinute events per key with the given burst.
// perMinute <= 0 disables limiting.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	lim := rate.Inf
	if perMinute > 0 {
		lim = rate.Limit(float64(perMinute) / 60)
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limit:   lim,
		burst:   burst,
		idle:    10 * time.Minute,
		now:     time.Now,
		buckets: map[string]*bucket{},
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	if rl == nil || rl.limit == rate.Inf {
		return true
	}
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.seen = now
	if len(rl.buckets) > 1024 {
		rl.evictLocked(now)
	}
	return b.lim.AllowN(now, 1)
}

func (rl *RateLimiter) evictLocked(now time.Time) {
	for k, b := range rl.buckets {
		if now.Sub(b.seen) > rl.idle {
			delete(rl.buckets, k)
		}
	}
}

// Throttle limits requests per client IP and calls onLimit when a client is
// over budget.
func Throttle(rl *RateLimiter, onLimit gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.Allow(c.ClientIP()) {
			c.Next()
			return
		}
		onLimit(c)
		c.Abort()
	}
}
