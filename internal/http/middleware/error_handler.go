package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/docmint-backend/internal/http/response"
	"github.com/ignatzorin/docmint-backend/internal/logger"
	"github.com/ignatzorin/docmint-backend/internal/pkg/apperror"
)

// ErrorHandler отвечает на ошибки, добавленные через c.Error, если ответ ещё не отправлен.
// Ошибки вне таксономии маскируются как INTERNAL_ERROR.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		code := apperror.CodeOf(err)

		entry := logger.L().WithFields(logrus.Fields{
			"error":  err.Error(),
			"code":   code,
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
		switch code {
		case apperror.ErrCodeInternal, apperror.ErrCodeDatabaseError:
			entry.Error("request error")
		default:
			entry.Debug("request error")
		}

		if c.Writer.Written() {
			return
		}
		response.Error(c, err)
	}
}
