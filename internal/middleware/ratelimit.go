package middleware

import (
	"strconv"

	"farmland-portal/internal/apperr"
	"farmland-portal/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimit rejects requests over the limiter's sliding window with a 429
// and a Retry-After hint. Keyed by client IP.
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if limiter.Allow(ip) {
			c.Next()
			return
		}

		retryAfter := limiter.RetryAfter(ip)
		secs := int(retryAfter.Seconds())
		if secs < 1 {
			secs = 1
		}
		c.Header("Retry-After", strconv.Itoa(secs))
		c.AbortWithStatusJSON(429, apperr.RateLimited(""))
	}
}
