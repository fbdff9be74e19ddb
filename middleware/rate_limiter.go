// api/middleware/rate_limiter.go

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/fleet/api/db"
	logger "github.com/dev-mohitbeniwal/fleet/api/logging"
)

// RateLimiter limits requests per client IP. When the limiter backend
// fails the request is let through.
func RateLimiter(limiter db.RateLimiter, limit int, per time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}

		key := c.ClientIP()
		allowed, err := limiter.RateLimit(c.Request.Context(), key, limit, per)
		if err != nil {
			logger.Warn("Rate limiting failed, allowing request", zap.Error(err), zap.String("ip", key))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Duration", per.String())

		if !allowed {
			logger.Warn("Rate limit exceeded",
				zap.String("ip", key),
				zap.Int("limit", limit),
				zap.Duration("per", per))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}

		c.Next()
	}
}
