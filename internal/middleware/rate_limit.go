package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/kingrain94/tagorder-api/internal/config"
	"github.com/kingrain94/tagorder-api/internal/utils"
	"github.com/kingrain94/tagorder-api/pkg/logger"
)

const rateLimitWindow = time.Minute

type RateLimitMiddleware struct {
	redis  *redis.Client
	config *config.Config
	logger *logger.Logger
}

func NewRateLimitMiddleware(redis *redis.Client, config *config.Config, logger *logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		redis:  redis,
		config: config,
		logger: logger,
	}
}

// UserRateLimit limits authenticated callers per auth user id. It must run
// after JWTAuth.
func (m *RateLimitMiddleware) UserRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := utils.GetIdentityFromContext(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Identity required for rate limiting"})
			return
		}

		limit := m.config.DefaultRateLimit
		if limit <= 0 {
			limit = 300
		}
		m.enforce(c, fmt.Sprintf("rate_limit:user:%s", identity.UserID), limit, "Rate limit exceeded")
	}
}

// GlobalRateLimit limits every caller per client IP.
func (m *RateLimitMiddleware) GlobalRateLimit(limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.enforce(c, fmt.Sprintf("rate_limit:global:%s", c.ClientIP()), limit, "Global rate limit exceeded")
	}
}

// enforce is a fixed one-minute window counter. Redis errors fail open.
func (m *RateLimitMiddleware) enforce(c *gin.Context, key string, limit int, message string) {
	ctx := c.Request.Context()
	reset := strconv.FormatInt(time.Now().Add(rateLimitWindow).Unix(), 10)

	current, err := m.redis.Get(ctx, key).Int()
	if err != nil && err != redis.Nil {
		m.logger.Error("Redis error in rate limiting", err)
		c.Next()
		return
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Reset", reset)

	if current >= limit {
		c.Header("X-RateLimit-Remaining", "0")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": message,
			"limit": limit,
			"reset": reset,
		})
		return
	}

	pipe := m.redis.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rateLimitWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		m.logger.Error("Redis pipeline error in rate limiting", err)
	}

	remaining := limit - (current + 1)
	if remaining < 0 {
		remaining = 0
	}
	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

	c.Next()
}
