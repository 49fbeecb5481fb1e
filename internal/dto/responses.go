package dto

import (
	"github.com/ignatzorin/docmint-backend/internal/models"
)

// DocumentListResponse ответ /documents/list.
type DocumentListResponse struct {
	Documents []models.GeneratedDocument `json:"documents"`
	Count     int                        `json:"count"`
}

// NewDocumentListResponse гарантирует пустой массив вместо null.
func NewDocumentListResponse(docs []models.GeneratedDocument) *DocumentListResponse {
	if docs == nil {
		docs = []models.GeneratedDocument{}
	}
	return &DocumentListResponse{Documents: docs, Count: len(docs)}
}

// WebhookAck ответ провайдеру биллинга.
type WebhookAck struct {
	Received bool `json:"received"`
}

// DeletedResponse подтверждение удаления.
type DeletedResponse struct {
	Deleted bool `json:"deleted"`
}
