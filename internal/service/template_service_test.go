package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/docmint-backend/internal/models"
	"github.com/ignatzorin/docmint-backend/internal/pkg/apperror"
	"github.com/ignatzorin/docmint-backend/internal/repository"
)

type mockTemplateRepo struct {
	mock.Mock
}

func (m *mockTemplateRepo) GetActive(ctx context.Context, key models.TemplateKey) (*models.DocumentTemplate, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DocumentTemplate), args.Error(1)
}

type mockChecklistRepo struct {
	mock.Mock
}

func (m *mockChecklistRepo) GetActive(ctx context.Context, country, industry string) (*models.ComplianceChecklist, error) {
	args := m.Called(ctx, country, industry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ComplianceChecklist), args.Error(1)
}

func newTestCache(t *testing.T) *CacheService {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewCacheService(ctx)
}

func TestTemplateService_View_CachesTemplate(t *testing.T) {
	repo := new(mockTemplateRepo)
	svc := NewTemplateService(repo, newTestCache(t))
	ctx := context.Background()

	key := models.TemplateKey{Country: "US", DocumentType: "contract", Industry: "tech"}
	tpl := &models.DocumentTemplate{
		ID:              uuid.New(),
		Name:            "Service Contract",
		Fields:          models.TemplateFields{{Name: "clientName", Label: "Client", Type: "text", Required: true}},
		TemplateContent: "Agreement with {{clientName}}",
		Version:         2,
	}
	repo.On("GetActive", ctx, key).Return(tpl, nil).Once()

	view, err := svc.View(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, tpl.ID, view.ID)
	assert.Equal(t, 2, view.Version)
	assert.Len(t, view.Fields, 1)

	_, err = svc.View(ctx, key)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "GetActive", 1)
}

func TestTemplateService_Get_InvalidKey(t *testing.T) {
	repo := new(mockTemplateRepo)
	svc := NewTemplateService(repo, newTestCache(t))

	_, err := svc.Get(context.Background(), models.TemplateKey{Country: "UK", DocumentType: "contract", Industry: "space"})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Details, "country")
	assert.Contains(t, appErr.Details, "industry")
	assert.NotContains(t, appErr.Details, "documentType")
	repo.AssertNotCalled(t, "GetActive", mock.Anything, mock.Anything)
}

func TestTemplateService_Get_NotFoundAndDatabase(t *testing.T) {
	repo := new(mockTemplateRepo)
	svc := NewTemplateService(repo, newTestCache(t))
	ctx := context.Background()

	missing := models.TemplateKey{Country: "India", DocumentType: "nda", Industry: "finance"}
	broken := models.TemplateKey{Country: "US", DocumentType: "nda", Industry: "finance"}
	repo.On("GetActive", ctx, missing).Return(nil, repository.ErrTemplateNotFound)
	repo.On("GetActive", ctx, broken).Return(nil, errors.New("connection refused"))

	_, err := svc.Get(ctx, missing)
	assert.True(t, apperror.IsNotFound(err))

	_, err = svc.Get(ctx, broken)
	assert.Equal(t, apperror.ErrCodeDatabaseError, apperror.CodeOf(err))
}

func TestChecklistService_Get_DefaultsIndustry(t *testing.T) {
	repo := new(mockChecklistRepo)
	svc := NewChecklistService(repo, newTestCache(t))
	ctx := context.Background()

	checklist := &models.ComplianceChecklist{ID: uuid.New(), Country: "US", Industry: "tech"}
	repo.On("GetActive", ctx, "US", "tech").Return(checklist, nil).Once()

	got, err := svc.Get(ctx, "US", "")
	require.NoError(t, err)
	assert.Equal(t, checklist.ID, got.ID)

	_, err = svc.Get(ctx, "US", "tech")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestChecklistService_Get_Errors(t *testing.T) {
	repo := new(mockChecklistRepo)
	svc := NewChecklistService(repo, newTestCache(t))
	ctx := context.Background()

	_, err := svc.Get(ctx, "Canada", "tech")
	assert.True(t, apperror.IsValidation(err))

	repo.On("GetActive", ctx, "India", "creative").Return(nil, repository.ErrChecklistNotFound)
	_, err = svc.Get(ctx, "India", "creative")
	assert.True(t, apperror.IsNotFound(err))
}

func TestCacheService_InvalidateUserCache(t *testing.T) {
	cache := newTestCache(t)
	userID := uuid.New()
	other := uuid.New()

	cache.Set(DashboardCacheKey(userID), 1, DashboardCacheTTL)
	cache.Set(DashboardCacheKey(other), 2, DashboardCacheTTL)
	cache.Set(ChecklistCacheKey("US", "tech"), 3, ReferenceCacheTTL)

	cache.InvalidateUserCache(userID)

	_, found := cache.Get(DashboardCacheKey(userID))
	assert.False(t, found)
	_, found = cache.Get(DashboardCacheKey(other))
	assert.True(t, found)
	assert.Equal(t, 2, cache.Len())
}
