package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// rateLimiterEntry tracks the limiter and last-seen time per client IP so
// idle entries can be evicted.
type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipRateLimiter struct {
	mu      sync.Mutex
	entries map[string]*rateLimiterEntry
	limit   rate.Limit
	burst   int
}

func (l *ipRateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.entries[ip]
	if !ok {
		entry = &rateLimiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (l *ipRateLimiter) evictLoop() {
	for {
		time.Sleep(time.Minute)
		l.mu.Lock()
		for ip, entry := range l.entries {
			if time.Since(entry.lastSeen) > 10*time.Minute {
				delete(l.entries, ip)
			}
		}
		l.mu.Unlock()
	}
}

// RateLimit returns a per-client-IP token bucket limiter, used to throttle
// the signup endpoint. ratePerMin is the sustained allowance per minute.
func RateLimit(ratePerMin, burst int) gin.HandlerFunc {
	limiter := &ipRateLimiter{
		entries: make(map[string]*rateLimiterEntry),
		limit:   rate.Limit(float64(ratePerMin) / 60.0),
		burst:   burst,
	}
	go limiter.evictLoop()

	return func(c *gin.Context) {
		if !limiter.get(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
