package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ignatzorin/docmint-backend/internal/models"
	"github.com/ignatzorin/docmint-backend/internal/pkg/apperror"
	"github.com/ignatzorin/docmint-backend/internal/repository"
	"github.com/ignatzorin/docmint-backend/internal/validation"
)

// ChecklistRepository источник комплаенс чек-листов.
type ChecklistRepository interface {
	GetActive(ctx context.Context, country, industry string) (*models.ComplianceChecklist, error)
}

// ChecklistService отдаёт чек-листы по стране и отрасли.
type ChecklistService struct {
	repo  ChecklistRepository
	cache *CacheService
}

// NewChecklistService создаёт сервис чек-листов.
func NewChecklistService(repo ChecklistRepository, cache *CacheService) *ChecklistService {
	return &ChecklistService{repo: repo, cache: cache}
}

// Get возвращает чек-лист. Пустая отрасль означает tech.
func (s *ChecklistService) Get(ctx context.Context, country, industry string) (*models.ComplianceChecklist, error) {
	industry = strings.TrimSpace(industry)
	if industry == "" {
		industry = models.IndustryTech
	}

	errs := validation.Errors{}
	errs.Add("country", validation.ValidateEnum("country", country, models.ValidCountries))
	errs.Add("industry", validation.ValidateEnum("industry", industry, models.ValidIndustries))
	if !errs.Empty() {
		return nil, apperror.Validation("некорректные параметры чек-листа", errs)
	}

	value, err := s.cache.GetOrSet(ctx, ChecklistCacheKey(country, industry), ReferenceCacheTTL, func() (interface{}, error) {
		return s.repo.GetActive(ctx, country, industry)
	})
	if err != nil {
		if errors.Is(err, repository.ErrChecklistNotFound) {
			return nil, apperror.ErrChecklistNotFound
		}
		return nil, apperror.Database(err)
	}
	return value.(*models.ComplianceChecklist), nil
}
