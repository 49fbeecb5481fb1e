package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/docmint-backend/internal/logger"
	"github.com/ignatzorin/docmint-backend/internal/models"
	"github.com/ignatzorin/docmint-backend/internal/pkg/apperror"
	"github.com/ignatzorin/docmint-backend/internal/render"
	"github.com/ignatzorin/docmint-backend/internal/repository"
	"github.com/ignatzorin/docmint-backend/internal/validation"
	"github.com/ignatzorin/docmint-backend/internal/ws"
)

// DocumentRepository описывает хранилище сгенерированных документов.
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.GeneratedDocument) error
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*models.GeneratedDocument, error)
	ListSaved(ctx context.Context, userID uuid.UUID, limit int) ([]models.GeneratedDocument, error)
	MarkSaved(ctx context.Context, id, userID uuid.UUID) (bool, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
}

// UsageRepository читает пользователя и ведёт счётчик генераций.
type UsageRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	IncrementGenerated(ctx context.Context, userID uuid.UUID) error
}

// TemplateProvider отдаёт активный шаблон по ключу.
type TemplateProvider interface {
	Get(ctx context.Context, key models.TemplateKey) (*models.DocumentTemplate, error)
}

// Notifier доставляет события пользователю в реальном времени.
type Notifier interface {
	Notify(userID uuid.UUID, event string, data any)
}

// GenerateInput тело запроса на генерацию документа.
type GenerateInput struct {
	Country      string                 `json:"country"`
	DocumentType string                 `json:"documentType"`
	Industry     string                 `json:"industry"`
	Fields       map[string]interface{} `json:"fields"`
}

// Key ключ шаблона для запроса.
func (in GenerateInput) Key() models.TemplateKey {
	return models.TemplateKey{Country: in.Country, DocumentType: in.DocumentType, Industry: in.Industry}
}

// GenerateResult ответ на генерацию.
type GenerateResult struct {
	ID               uuid.UUID `json:"id"`
	DocumentTitle    string    `json:"documentTitle"`
	GeneratedContent string    `json:"generatedContent"`
	IsWatermarked    bool      `json:"isWatermarked"`
	CreatedAt        time.Time `json:"createdAt"`
}

// DocumentService генерирует документы и ведёт учёт сохранений.
type DocumentService struct {
	docs          DocumentRepository
	users         UsageRepository
	templates     TemplateProvider
	notifier      Notifier
	cache         *CacheService
	freeSaveLimit int
}

// NewDocumentService создаёт сервис документов.
func NewDocumentService(
	docs DocumentRepository,
	users UsageRepository,
	templates TemplateProvider,
	notifier Notifier,
	cache *CacheService,
	freeSaveLimit int,
) *DocumentService {
	return &DocumentService{
		docs:          docs,
		users:         users,
		templates:     templates,
		notifier:      notifier,
		cache:         cache,
		freeSaveLimit: freeSaveLimit,
	}
}

// Generate подставляет ответы пользователя в шаблон и сохраняет результат.
func (s *DocumentService) Generate(ctx context.Context, userID uuid.UUID, in GenerateInput) (*GenerateResult, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.DisclaimerAccepted {
		return nil, apperror.ErrDisclaimerRequired
	}

	if errs := ValidateTemplateKey(in.Key()); !errs.Empty() {
		return nil, apperror.Validation("некорректные параметры документа", errs)
	}
	if in.Fields == nil {
		in.Fields = map[string]interface{}{}
	}

	tpl, err := s.templates.Get(ctx, in.Key())
	if err != nil {
		return nil, err
	}

	if errs := validation.ValidateFieldValues(tpl.Fields, in.Fields); !errs.Empty() {
		return nil, apperror.Validation("поля документа заполнены некорректно", errs)
	}

	values := render.Complete(in.Fields, tpl.Fields.Names())
	doc := &models.GeneratedDocument{
		UserID:        user.ID,
		TemplateID:    tpl.ID,
		Country:       tpl.Country,
		DocumentType:  tpl.DocumentType,
		Industry:      tpl.Industry,
		Title:         DocumentTitle(tpl.Name, in.Fields),
		Content:       render.Render(tpl.TemplateContent, values),
		FieldValues:   models.FieldValues(in.Fields),
		IsSaved:       false,
		IsWatermarked: !user.IsPro(),
	}

	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, apperror.Database(err)
	}

	// Документ уже создан: сбой счётчика только логируем.
	if err := s.users.IncrementGenerated(ctx, user.ID); err != nil {
		logger.L().WithFields(logrus.Fields{
			"user_id":     user.ID,
			"document_id": doc.ID,
			"error":       err.Error(),
		}).Warn("document service: не удалось увеличить счётчик генераций")
	}

	s.cache.InvalidateUserCache(user.ID)

	result := &GenerateResult{
		ID:               doc.ID,
		DocumentTitle:    doc.Title,
		GeneratedContent: doc.Content,
		IsWatermarked:    doc.IsWatermarked,
		CreatedAt:        doc.CreatedAt,
	}
	s.notifier.Notify(user.ID, ws.EventDocumentGenerated, map[string]any{
		"id":           doc.ID,
		"title":        doc.Title,
		"documentType": doc.DocumentType,
	})

	logger.L().WithFields(logrus.Fields{
		"user_id":     user.ID,
		"document_id": doc.ID,
		"template":    tpl.Key().String(),
	}).Info("document service: документ сгенерирован")

	return result, nil
}

// List возвращает сохранённые документы пользователя, новые первыми.
func (s *DocumentService) List(ctx context.Context, userID uuid.UUID) ([]models.GeneratedDocument, error) {
	docs, err := s.docs.ListSaved(ctx, userID, repository.MaxListedDocuments)
	if err != nil {
		return nil, apperror.Database(err)
	}
	return docs, nil
}

// Get возвращает документ владельца и отмечает время обращения.
func (s *DocumentService) Get(ctx context.Context, userID, docID uuid.UUID) (*models.GeneratedDocument, error) {
	doc, err := s.docs.GetForUser(ctx, docID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return nil, apperror.ErrDocumentNotFound
		}
		return nil, apperror.Database(err)
	}

	if err := s.docs.Touch(ctx, doc.ID, time.Now().UTC()); err != nil {
		logger.L().WithFields(logrus.Fields{
			"document_id": doc.ID,
			"error":       err.Error(),
		}).Warn("document service: не удалось обновить last_accessed_at")
	}
	return doc, nil
}

// Save помечает документ сохранённым с учётом лимита бесплатного тарифа.
// Повторное сохранение ничего не меняет.
func (s *DocumentService) Save(ctx context.Context, userID, docID uuid.UUID) (*models.GeneratedDocument, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	doc, err := s.docs.GetForUser(ctx, docID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return nil, apperror.ErrDocumentNotFound
		}
		return nil, apperror.Database(err)
	}
	if doc.IsSaved {
		return doc, nil
	}

	if !user.CanSaveDocument(s.freeSaveLimit) {
		return nil, apperror.ErrSaveLimitReached
	}

	changed, err := s.docs.MarkSaved(ctx, docID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return nil, apperror.ErrDocumentNotFound
		}
		return nil, apperror.Database(err)
	}
	doc.IsSaved = true

	if changed {
		s.cache.InvalidateUserCache(userID)
		s.notifier.Notify(userID, ws.EventDocumentSaved, map[string]any{"id": doc.ID})
	}
	return doc, nil
}

// Delete удаляет документ пользователя.
func (s *DocumentService) Delete(ctx context.Context, userID, docID uuid.UUID) error {
	if err := s.docs.Delete(ctx, docID, userID); err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return apperror.ErrDocumentNotFound
		}
		return apperror.Database(err)
	}
	s.cache.InvalidateUserCache(userID)
	return nil
}

func (s *DocumentService) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, apperror.Database(err)
	}
	return user, nil
}

// DocumentTitle собирает заголовок из имени шаблона и имени второй стороны.
func DocumentTitle(templateName string, fields map[string]interface{}) string {
	party := "Document"
	for _, key := range []string{"clientName", "party2Name"} {
		if v, ok := fields[key]; ok {
			if s := strings.TrimSpace(render.Stringify(v)); s != "" && s != render.NotProvided {
				party = s
				break
			}
		}
	}
	return templateName + " - " + party
}
