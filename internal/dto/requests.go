package dto

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// RefreshRequest тело /auth/refresh и /auth/logout.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// AnalyzeRequest тело /ai/analyze.
type AnalyzeRequest struct {
	DocumentID string `json:"documentId" binding:"required"`
}

// ParseDocumentID разбирает идентификатор документа.
func (r *AnalyzeRequest) ParseDocumentID() (uuid.UUID, error) {
	return parseUUID("documentId", r.DocumentID)
}

// TemplateQuery параметры /templates и /checklist.
type TemplateQuery struct {
	Country      string `form:"country"`
	DocumentType string `form:"documentType"`
	Industry     string `form:"industry"`
}

// Normalize убирает пробелы вокруг значений.
func (q *TemplateQuery) Normalize() {
	q.Country = strings.TrimSpace(q.Country)
	q.DocumentType = strings.TrimSpace(q.DocumentType)
	q.Industry = strings.TrimSpace(q.Industry)
}

func parseUUID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%s: неверный формат UUID", field)
	}
	return id, nil
}
