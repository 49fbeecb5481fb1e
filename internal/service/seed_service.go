package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/docmint-backend/internal/logger"
	"github.com/ignatzorin/docmint-backend/internal/models"
	"github.com/ignatzorin/docmint-backend/internal/repository"
	"github.com/ignatzorin/docmint-backend/internal/seed"
)

// TemplateSeeder вставляет отсутствующие шаблоны.
type TemplateSeeder interface {
	InsertMissing(ctx context.Context, templates []models.DocumentTemplate) (int64, error)
}

// ChecklistSeeder вставляет отсутствующие чек-листы.
type ChecklistSeeder interface {
	InsertMissing(ctx context.Context, checklists []models.ComplianceChecklist) (int64, error)
}

// DemoUserCreator создаёт демо аккаунт.
type DemoUserCreator interface {
	Create(ctx context.Context, user *models.User) error
	AcceptDisclaimer(ctx context.Context, userID uuid.UUID, at time.Time) error
}

// SeedOptions параметры заполнения базы.
type SeedOptions struct {
	// DemoEmail и DemoPassword задают демо аккаунт. Пустой email пропускает шаг.
	DemoEmail    string
	DemoPassword string
}

// SeedReport сколько записей добавлено.
type SeedReport struct {
	Templates  int64 `json:"templates"`
	Checklists int64 `json:"checklists"`
	DemoUser   bool  `json:"demoUser"`
}

// SeedService заполняет справочные данные. Повторный запуск ничего не меняет.
type SeedService struct {
	templates  TemplateSeeder
	checklists ChecklistSeeder
	users      DemoUserCreator
	cache      *CacheService
}

// NewSeedService создаёт сервис заполнения. users и cache могут быть nil.
func NewSeedService(templates TemplateSeeder, checklists ChecklistSeeder, users DemoUserCreator, cache *CacheService) *SeedService {
	return &SeedService{
		templates:  templates,
		checklists: checklists,
		users:      users,
		cache:      cache,
	}
}

// SeedData вставляет встроенные шаблоны и чек-листы, пропуская существующие ключи.
func (s *SeedService) SeedData(ctx context.Context, opts SeedOptions) (*SeedReport, error) {
	templates, err := seed.Templates()
	if err != nil {
		return nil, err
	}
	checklists, err := seed.Checklists()
	if err != nil {
		return nil, err
	}

	report := &SeedReport{}

	report.Templates, err = s.templates.InsertMissing(ctx, templates)
	if err != nil {
		return nil, fmt.Errorf("seed service: failed to insert templates: %w", err)
	}

	report.Checklists, err = s.checklists.InsertMissing(ctx, checklists)
	if err != nil {
		return nil, fmt.Errorf("seed service: failed to insert checklists: %w", err)
	}

	if opts.DemoEmail != "" && s.users != nil {
		created, err := s.createDemoUser(ctx, opts.DemoEmail, opts.DemoPassword)
		if err != nil {
			return nil, fmt.Errorf("seed service: failed to create demo user: %w", err)
		}
		report.DemoUser = created
	}

	if s.cache != nil && (report.Templates > 0 || report.Checklists > 0) {
		s.cache.InvalidateByPrefix("template:")
		s.cache.InvalidateByPrefix("checklist:")
	}

	logger.L().WithFields(logrus.Fields{
		"templates_total":     len(templates),
		"templates_inserted":  report.Templates,
		"checklists_total":    len(checklists),
		"checklists_inserted": report.Checklists,
		"demo_user":           report.DemoUser,
	}).Info("seed service: справочные данные загружены")

	return report, nil
}

func (s *SeedService) createDemoUser(ctx context.Context, email, password string) (bool, error) {
	if password == "" {
		return false, errors.New("пустой пароль демо аккаунта")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	user := &models.User{
		Email:            strings.ToLower(strings.TrimSpace(email)),
		Name:             "Demo User",
		PasswordHash:     string(hash),
		SubscriptionTier: models.TierFree,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return false, nil
		}
		return false, err
	}
	if err := s.users.AcceptDisclaimer(ctx, user.ID, time.Now().UTC()); err != nil {
		return false, err
	}
	return true, nil
}
