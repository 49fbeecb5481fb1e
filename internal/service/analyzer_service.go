package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/docmint-backend/internal/ai"
	"github.com/ignatzorin/docmint-backend/internal/logger"
	"github.com/ignatzorin/docmint-backend/internal/pkg/apperror"
	"github.com/ignatzorin/docmint-backend/internal/repository"
)

// DocumentAnalyzer оценивает риски текста документа.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, content, documentType string) (*ai.Analysis, error)
}

// AnalyzerService даёт доступ к анализу документов на тарифе Pro.
type AnalyzerService struct {
	docs     DocumentRepository
	users    UsageRepository
	analyzer DocumentAnalyzer
}

// NewAnalyzerService создаёт сервис анализа.
func NewAnalyzerService(docs DocumentRepository, users UsageRepository, analyzer DocumentAnalyzer) *AnalyzerService {
	return &AnalyzerService{docs: docs, users: users, analyzer: analyzer}
}

// Analyze проверяет тариф и анализирует документ владельца.
func (s *AnalyzerService) Analyze(ctx context.Context, userID, docID uuid.UUID) (*ai.Analysis, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, apperror.Database(err)
	}
	if !user.IsPro() {
		return nil, apperror.ErrProRequired
	}

	doc, err := s.docs.GetForUser(ctx, docID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return nil, apperror.ErrDocumentNotFound
		}
		return nil, apperror.Database(err)
	}

	analysis, err := s.analyzer.Analyze(ctx, doc.Content, doc.DocumentType)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	logger.L().WithFields(logrus.Fields{
		"user_id":     userID,
		"document_id": doc.ID,
		"risk_level":  analysis.RiskLevel,
		"source":      analysis.Source,
	}).Info("analyzer service: документ проанализирован")

	return analysis, nil
}
