package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/ignatzorin/docmint-backend/internal/http/response"
	"github.com/ignatzorin/docmint-backend/internal/pkg/apperror"
)

// ErrCodeRateLimited код ответа при превышении лимита.
const ErrCodeRateLimited apperror.ErrorCode = "RATE_LIMITED"

// RateLimitMiddleware ограничивает число запросов с одного IP.
// По умолчанию: 100 запросов в минуту.
func RateLimitMiddleware(limit int64, period time.Duration) gin.HandlerFunc {
	return limitBy(newLimiter(limit, period, 100, time.Minute), func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	})
}

// UserRateLimitMiddleware ограничивает число запросов одного пользователя.
// Ставится после AuthMiddleware. По умолчанию: 50 запросов в час.
func UserRateLimitMiddleware(limit int64, period time.Duration) gin.HandlerFunc {
	return limitBy(newLimiter(limit, period, 50, time.Hour), func(c *gin.Context) string {
		if userID, ok := CurrentUserID(c); ok {
			return "user:" + userID.String()
		}
		return "ip:" + c.ClientIP()
	})
}

func newLimiter(limit int64, period time.Duration, defLimit int64, defPeriod time.Duration) *limiter.Limiter {
	if limit <= 0 {
		limit = defLimit
	}
	if period <= 0 {
		period = defPeriod
	}

	rate := limiter.Rate{
		Period: period,
		Limit:  limit,
	}
	return limiter.New(memory.NewStore(), rate)
}

func limitBy(instance *limiter.Limiter, key func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		context, err := instance.Get(c, key(c))
		if err != nil {
			response.Abort(c, apperror.Internal(err))
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", context.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", context.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", context.Reset))

		if context.Reached {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.Response{
				Success: false,
				Error: &response.ErrorInfo{
					Code:    string(ErrCodeRateLimited),
					Message: "слишком много запросов, попробуйте позже",
				},
			})
			return
		}

		c.Next()
	}
}
