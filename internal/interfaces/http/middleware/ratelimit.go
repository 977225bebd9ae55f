package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samvyt/rifa/internal/infrastructure/ratelimit"
	"github.com/samvyt/rifa/internal/shared/constants"
	"github.com/samvyt/rifa/internal/shared/logger"
	"github.com/samvyt/rifa/internal/shared/utils"
)

// RateLimit throttles per client IP within a named scope, so checkout and
// read traffic are counted separately. A limiter error lets the request through.
func RateLimit(limiter ratelimit.RateLimiter, scope string, cfg ratelimit.RateLimitConfig, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key := scope + ":" + c.ClientIP()
		allowed, err := limiter.Allow(c.Request.Context(), key, cfg)
		if err != nil {
			log.Warnw("rate limiter unavailable, allowing request", "error", err, "scope", scope)
			c.Next()
			return
		}
		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, constants.ErrMsgRateLimited)
			c.Abort()
			return
		}

		c.Next()
	}
}
