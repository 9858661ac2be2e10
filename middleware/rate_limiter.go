package middleware

import (
	"net/http"
	"sync"
	"time"

	"mentorline/config"
	"mentorline/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	limitersMu sync.Mutex
	limiters   = make(map[string]*clientLimiter)
)

func limiterFor(ip string) *rate.Limiter {
	limitersMu.Lock()
	defer limitersMu.Unlock()

	if cl, ok := limiters[ip]; ok {
		cl.lastSeen = time.Now()
		return cl.limiter
	}

	perMin := config.AppConfig.MaxRequestsPerMin
	if perMin <= 0 {
		perMin = 100
	}
	l := rate.NewLimiter(rate.Limit(float64(perMin)/60.0), perMin)
	limiters[ip] = &clientLimiter{limiter: l, lastSeen: time.Now()}
	return l
}

// CleanupLimiters drops limiters for IPs idle longer than the given age.
// Run it periodically from the worker.
func CleanupLimiters(maxIdle time.Duration) {
	limitersMu.Lock()
	defer limitersMu.Unlock()
	for ip, cl := range limiters {
		if time.Since(cl.lastSeen) > maxIdle {
			delete(limiters, ip)
		}
	}
}

// RateLimiter throttles requests per client IP using a token bucket.
func RateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiterFor(c.ClientIP()).Allow() {
			utils.JSONError(c, http.StatusTooManyRequests, "Too Many Requests", "Rate limit exceeded, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}
