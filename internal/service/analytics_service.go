package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/docmint-backend/internal/models"
	"github.com/ignatzorin/docmint-backend/internal/pkg/apperror"
	"github.com/ignatzorin/docmint-backend/internal/repository"
)

// AnalyticsRepository источник кратких записей о документах.
type AnalyticsRepository interface {
	ListSummaries(ctx context.Context, userID uuid.UUID) ([]models.DocumentSummary, error)
}

// AnalyticsService строит дашборд активности пользователя.
type AnalyticsService struct {
	docs          AnalyticsRepository
	users         UsageRepository
	cache         *CacheService
	freeSaveLimit int
	now           func() time.Time
}

// NewAnalyticsService создаёт сервис аналитики.
func NewAnalyticsService(docs AnalyticsRepository, users UsageRepository, cache *CacheService, freeSaveLimit int) *AnalyticsService {
	return &AnalyticsService{
		docs:          docs,
		users:         users,
		cache:         cache,
		freeSaveLimit: freeSaveLimit,
		now:           time.Now,
	}
}

// Dashboard возвращает агрегаты по документам пользователя. Кэшируется на минуту.
func (s *AnalyticsService) Dashboard(ctx context.Context, userID uuid.UUID) (*models.DashboardStats, error) {
	value, err := s.cache.GetOrSet(ctx, DashboardCacheKey(userID), DashboardCacheTTL, func() (interface{}, error) {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		docs, err := s.docs.ListSummaries(ctx, userID)
		if err != nil {
			return nil, err
		}

		limit := s.freeSaveLimit
		if user.IsPro() {
			limit = 0
		}
		stats := ComputeDashboard(docs, s.now(), user.SubscriptionTier, limit)
		return &stats, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, apperror.Database(err)
	}
	return value.(*models.DashboardStats), nil
}

// ComputeDashboard считает статистику по документам, отсортированным по дате создания.
// saveLimit 0 означает отсутствие лимита.
func ComputeDashboard(docs []models.DocumentSummary, now time.Time, tier string, saveLimit int) models.DashboardStats {
	now = now.UTC()
	day := 24 * time.Hour
	last7 := now.Add(-7 * day)
	last30 := now.Add(-30 * day)
	prev60 := now.Add(-60 * day)

	stats := models.DashboardStats{
		TotalDocuments: len(docs),
		TypeBreakdown:  map[string]int{},
		SaveLimit:      saveLimit,
		Tier:           tier,
	}

	previous := 0
	for _, doc := range docs {
		created := doc.CreatedAt.UTC()
		stats.TypeBreakdown[doc.DocumentType]++
		if doc.IsSaved {
			stats.SavedDocuments++
		}
		if !created.Before(last30) {
			stats.Last30Days++
		} else if !created.Before(prev60) {
			previous++
		}
		if !created.Before(last7) {
			stats.Last7Days++
		}
	}

	if previous > 0 {
		stats.GrowthRate = round1(float64(stats.Last30Days-previous) / float64(previous) * 100)
	}

	stats.DailyActivity = dailyActivity(docs, now)
	stats.MostPopular = mostPopular(stats.TypeBreakdown)

	weeks := 1
	if len(docs) > 0 {
		weeks = int(now.Sub(docs[0].CreatedAt.UTC()) / (7 * day))
		if weeks < 1 {
			weeks = 1
		}
	}
	stats.AvgPerWeek = round1(float64(len(docs)) / float64(weeks))

	return stats
}

// dailyActivity счётчики за последние 7 календарных дней (UTC), от старых к новым.
func dailyActivity(docs []models.DocumentSummary, now time.Time) []models.DailyActivity {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := make([]models.DailyActivity, 7)
	index := make(map[string]int, 7)
	for i := range days {
		date := today.AddDate(0, 0, i-6).Format("2006-01-02")
		days[i] = models.DailyActivity{Date: date}
		index[date] = i
	}
	for _, doc := range docs {
		if i, ok := index[doc.CreatedAt.UTC().Format("2006-01-02")]; ok {
			days[i].Count++
		}
	}
	return days
}

// mostPopular самый частый тип документа, при равенстве первый по алфавиту.
func mostPopular(breakdown map[string]int) string {
	best, bestCount := "", 0
	for docType, count := range breakdown {
		if count > bestCount || (count == bestCount && docType < best) {
			best, bestCount = docType, count
		}
	}
	return best
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
