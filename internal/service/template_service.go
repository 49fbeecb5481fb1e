package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/docmint-backend/internal/models"
	"github.com/ignatzorin/docmint-backend/internal/pkg/apperror"
	"github.com/ignatzorin/docmint-backend/internal/repository"
	"github.com/ignatzorin/docmint-backend/internal/validation"
)

// TemplateRepository источник активных шаблонов.
type TemplateRepository interface {
	GetActive(ctx context.Context, key models.TemplateKey) (*models.DocumentTemplate, error)
}

// TemplateView схема полей шаблона для шага заполнения формы.
type TemplateView struct {
	ID          uuid.UUID             `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Fields      models.TemplateFields `json:"fields"`
	Version     int                   `json:"version"`
}

// TemplateService отдаёт справочники мастера и схемы шаблонов.
type TemplateService struct {
	repo  TemplateRepository
	cache *CacheService
}

// NewTemplateService создаёт сервис шаблонов.
func NewTemplateService(repo TemplateRepository, cache *CacheService) *TemplateService {
	return &TemplateService{repo: repo, cache: cache}
}

// Catalog возвращает страны, типы документов и отрасли.
func (s *TemplateService) Catalog() models.Catalog {
	return models.DefaultCatalog()
}

// Get возвращает активный шаблон с телом. Результат кэшируется.
func (s *TemplateService) Get(ctx context.Context, key models.TemplateKey) (*models.DocumentTemplate, error) {
	if errs := ValidateTemplateKey(key); !errs.Empty() {
		return nil, apperror.Validation("некорректные параметры шаблона", errs)
	}

	value, err := s.cache.GetOrSet(ctx, TemplateCacheKey(key), ReferenceCacheTTL, func() (interface{}, error) {
		return s.repo.GetActive(ctx, key)
	})
	if err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			return nil, apperror.ErrTemplateNotFound
		}
		return nil, apperror.Database(err)
	}
	return value.(*models.DocumentTemplate), nil
}

// View возвращает публичное представление шаблона без тела.
func (s *TemplateService) View(ctx context.Context, key models.TemplateKey) (*TemplateView, error) {
	tpl, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return &TemplateView{
		ID:          tpl.ID,
		Name:        tpl.Name,
		Description: tpl.Description,
		Fields:      tpl.Fields,
		Version:     tpl.Version,
	}, nil
}

// ValidateTemplateKey проверяет страну, тип документа и отрасль.
func ValidateTemplateKey(key models.TemplateKey) validation.Errors {
	errs := validation.Errors{}
	errs.Add("country", validation.ValidateEnum("country", key.Country, models.ValidCountries))
	errs.Add("documentType", validation.ValidateEnum("documentType", key.DocumentType, models.ValidDocumentTypes))
	errs.Add("industry", validation.ValidateEnum("industry", key.Industry, models.ValidIndustries))
	return errs
}
