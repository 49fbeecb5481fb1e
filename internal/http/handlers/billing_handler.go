package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/docmint-backend/internal/dto"
	"github.com/ignatzorin/docmint-backend/internal/http/response"
	"github.com/ignatzorin/docmint-backend/internal/pkg/apperror"
	"github.com/ignatzorin/docmint-backend/internal/service"
)

// maxWebhookBody предел тела вебхука.
const maxWebhookBody = 1 << 20

// WebhookProcessor проверяет подпись и применяет событие биллинга.
type WebhookProcessor interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// BillingHandler принимает события платёжного провайдера.
type BillingHandler struct {
	billing WebhookProcessor
}

// NewBillingHandler создаёт хэндлер.
func NewBillingHandler(billing WebhookProcessor) *BillingHandler {
	return &BillingHandler{billing: billing}
}

// Webhook обрабатывает POST /api/billing/webhook. Подпись считается по сырому телу.
func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		response.Error(c, apperror.New(apperror.ErrCodeBadRequest, "не удалось прочитать тело запроса"))
		return
	}

	signature := c.GetHeader(service.SignatureHeader)
	if signature == "" {
		response.Error(c, apperror.New(apperror.ErrCodeBadRequest, "отсутствует подпись"))
		return
	}

	if err := h.billing.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		_ = c.Error(err)
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.WebhookAck{Received: true})
}
