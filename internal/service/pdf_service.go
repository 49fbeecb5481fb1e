package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/docmint-backend/internal/logger"
	"github.com/ignatzorin/docmint-backend/internal/pdf"
	"github.com/ignatzorin/docmint-backend/internal/pkg/apperror"
	"github.com/ignatzorin/docmint-backend/internal/repository"
)

// PDFRenderer превращает документ в PDF.
type PDFRenderer interface {
	Generate(doc pdf.Document) ([]byte, error)
}

// PDFStore дисковый кэш готовых PDF.
type PDFStore interface {
	Get(ctx context.Context, docID uuid.UUID, watermarked bool) ([]byte, bool, error)
	Put(ctx context.Context, docID uuid.UUID, watermarked bool, r io.Reader) (int64, error)
	Delete(ctx context.Context, docID uuid.UUID) error
}

// PDFExport готовый файл для скачивания.
type PDFExport struct {
	Filename string
	Content  []byte
}

// PDFService отдаёт PDF документов, используя дисковый кэш.
type PDFService struct {
	docs     DocumentRepository
	users    UsageRepository
	renderer PDFRenderer
	store    PDFStore
	now      func() time.Time
}

// NewPDFService создаёт сервис экспорта. store может быть nil, тогда кэш не используется.
func NewPDFService(docs DocumentRepository, users UsageRepository, renderer PDFRenderer, store PDFStore) *PDFService {
	return &PDFService{
		docs:     docs,
		users:    users,
		renderer: renderer,
		store:    store,
		now:      time.Now,
	}
}

// Export возвращает PDF документа владельца с именем {documentType}-{unix}.pdf.
func (s *PDFService) Export(ctx context.Context, userID, docID uuid.UUID) (*PDFExport, error) {
	doc, err := s.docs.GetForUser(ctx, docID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return nil, apperror.ErrDocumentNotFound
		}
		return nil, apperror.Database(err)
	}

	filename := fmt.Sprintf("%s-%d.pdf", doc.DocumentType, s.now().Unix())

	// Водяной знак снимается, если владелец перешёл на pro после генерации.
	watermarked := doc.IsWatermarked
	author := ""
	if user, err := s.users.GetByID(ctx, userID); err == nil {
		author = user.Name
		watermarked = watermarked && !user.IsPro()
	}

	if s.store != nil {
		data, hit, err := s.store.Get(ctx, doc.ID, watermarked)
		if err != nil {
			logger.L().WithField("document_id", doc.ID).WithError(err).Warn("pdf service: ошибка чтения кэша")
		}
		if hit {
			return &PDFExport{Filename: filename, Content: data}, nil
		}
	}

	content, err := s.renderer.Generate(pdf.Document{
		Title:         doc.Title,
		Content:       doc.Content,
		IsWatermarked: watermarked,
		Author:        author,
		Subject:       doc.DocumentType + " - " + doc.Country,
		CreatedAt:     doc.CreatedAt,
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}

	if s.store != nil {
		if _, err := s.store.Put(ctx, doc.ID, watermarked, bytes.NewReader(content)); err != nil {
			logger.L().WithField("document_id", doc.ID).WithError(err).Warn("pdf service: не удалось сохранить PDF в кэш")
		}
	}

	logger.L().WithFields(logrus.Fields{
		"user_id":     userID,
		"document_id": doc.ID,
		"watermarked": watermarked,
		"bytes":       len(content),
	}).Info("pdf service: PDF сформирован")

	return &PDFExport{Filename: filename, Content: content}, nil
}

// Evict удаляет PDF документа из кэша.
func (s *PDFService) Evict(ctx context.Context, docID uuid.UUID) {
	if s.store == nil {
		return
	}
	if err := s.store.Delete(ctx, docID); err != nil {
		logger.L().WithField("document_id", docID).WithError(err).Warn("pdf service: не удалось удалить PDF из кэша")
	}
}
