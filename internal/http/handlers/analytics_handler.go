package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/docmint-backend/internal/ai"
	"github.com/ignatzorin/docmint-backend/internal/dto"
	"github.com/ignatzorin/docmint-backend/internal/http/response"
	"github.com/ignatzorin/docmint-backend/internal/models"
	"github.com/ignatzorin/docmint-backend/internal/pkg/apperror"
)

// DashboardProvider аналитика документов пользователя.
type DashboardProvider interface {
	Dashboard(ctx context.Context, userID uuid.UUID) (*models.DashboardStats, error)
}

// DocumentAnalyzer анализ документа (тариф Pro).
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, userID, docID uuid.UUID) (*ai.Analysis, error)
}

// InsightsHandler аналитика и AI анализ.
type InsightsHandler struct {
	analytics DashboardProvider
	analyzer  DocumentAnalyzer
}

// NewInsightsHandler создаёт хэндлер.
func NewInsightsHandler(analytics DashboardProvider, analyzer DocumentAnalyzer) *InsightsHandler {
	return &InsightsHandler{analytics: analytics, analyzer: analyzer}
}

// Dashboard обрабатывает GET /api/analytics/dashboard.
func (h *InsightsHandler) Dashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.analytics.Dashboard(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"stats": stats})
}

// Analyze обрабатывает POST /api/ai/analyze.
func (h *InsightsHandler) Analyze(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.AnalyzeRequest
	if !bindJSON(c, &req) {
		return
	}
	docID, err := req.ParseDocumentID()
	if err != nil {
		response.Error(c, apperror.Validation("неверный идентификатор документа", map[string]string{
			"documentId": "неверный формат UUID",
		}))
		return
	}

	analysis, err := h.analyzer.Analyze(c.Request.Context(), userID, docID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"analysis": analysis})
}
