package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// RateLimitMiddleware rejects requests over the configured per-client rate
// with 429. Limits are keyed by client IP.
func RateLimitMiddleware(instance *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		limiterCtx, err := instance.Get(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger := GetLoggerFromCtx(c.Request.Context())
			logger.Error("rate limiter failure", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		if limiterCtx.Reached {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		c.Next()
	}
}
