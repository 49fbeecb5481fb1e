package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/docmint-backend/internal/http/response"
	"github.com/ignatzorin/docmint-backend/internal/pkg/apperror"
)

// UUIDValidator проверяет, что path параметр является валидным UUID.
// Использование: router.GET("/documents/:id", UUIDValidator("id"), handler.Get)
func UUIDValidator(paramName string) gin.HandlerFunc {
	return validateUUID(paramName, func(c *gin.Context) string { return c.Param(paramName) })
}

// UUIDQueryValidator то же для query параметра.
func UUIDQueryValidator(paramName string) gin.HandlerFunc {
	return validateUUID(paramName, func(c *gin.Context) string { return c.Query(paramName) })
}

func validateUUID(name string, value func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := value(c)
		if raw == "" {
			response.Abort(c, apperror.Validation("параметр "+name+" обязателен", map[string]string{
				name: "обязательное поле",
			}))
			return
		}

		if _, err := uuid.Parse(raw); err != nil {
			response.Abort(c, apperror.Validation("параметр "+name+" должен быть валидным UUID", map[string]string{
				name: "неверный формат UUID",
			}))
			return
		}

		c.Next()
	}
}
