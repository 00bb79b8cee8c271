package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// staleAfter is how long an idle client keeps its bucket before eviction.
const staleAfter = 10 * time.Minute

type RateLimiter struct {
	mu       sync.Mutex
	rate     int
	burst    int
	tokens   map[string]int
	lastTime map[string]time.Time
	lastScan time.Time
}

func NewRateLimiter(rate, burst int) *RateLimiter {
	return &RateLimiter{
		rate:     rate,
		burst:    burst,
		tokens:   make(map[string]int),
		lastTime: make(map[string]time.Time),
		lastScan: time.Now(),
	}
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		rl.mu.Lock()
		now := time.Now()
		rl.evictStale(now)

		if _, exists := rl.tokens[ip]; !exists {
			rl.tokens[ip] = rl.burst
			rl.lastTime[ip] = now
		}

		elapsed := now.Sub(rl.lastTime[ip])
		rl.lastTime[ip] = now

		tokensToAdd := int(elapsed.Seconds()) * rl.rate
		rl.tokens[ip] += tokensToAdd
		if rl.tokens[ip] > rl.burst {
			rl.tokens[ip] = rl.burst
		}

		if rl.tokens[ip] <= 0 {
			rl.mu.Unlock()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		rl.tokens[ip]--
		rl.mu.Unlock()

		c.Next()
	}
}

// evictStale drops buckets for clients idle past staleAfter, at most once
// per staleAfter window. Caller holds the lock.
func (rl *RateLimiter) evictStale(now time.Time) {
	if now.Sub(rl.lastScan) < staleAfter {
		return
	}
	rl.lastScan = now
	for ip, last := range rl.lastTime {
		if now.Sub(last) > staleAfter {
			delete(rl.tokens, ip)
			delete(rl.lastTime, ip)
		}
	}
}
