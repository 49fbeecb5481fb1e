package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/docmint-backend/internal/http/middleware"
	"github.com/ignatzorin/docmint-backend/internal/http/response"
	"github.com/ignatzorin/docmint-backend/internal/pkg/apperror"
	"github.com/ignatzorin/docmint-backend/internal/service"
)

// currentUserID извлекает userID из контекста. При отсутствии пишет 401.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
		return uuid.Nil, false
	}
	return userID, true
}

// bindJSON разбирает тело запроса. При ошибке пишет 400 и возвращает false.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, apperror.Validation("некорректное тело запроса", map[string]string{
			"body": err.Error(),
		}))
		return false
	}
	return true
}

// uuidParam читает UUID из path параметра. Формат уже проверен UUIDValidator.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, apperror.Validation("неверный идентификатор", map[string]string{name: "неверный формат UUID"}))
		return uuid.Nil, false
	}
	return id, true
}

func sessionMeta(c *gin.Context) service.SessionMeta {
	return service.SessionMeta{
		UserAgent: c.GetHeader("User-Agent"),
		IP:        c.ClientIP(),
	}
}
