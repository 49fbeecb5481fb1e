package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/docmint-backend/internal/models"
)

func summary(docType string, saved bool, at time.Time) models.DocumentSummary {
	return models.DocumentSummary{ID: uuid.New(), DocumentType: docType, IsSaved: saved, CreatedAt: at}
}

func TestComputeDashboard(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	docs := []models.DocumentSummary{
		summary("contract", true, time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC)),
		summary("nda", false, time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)),
		summary("contract", true, time.Date(2025, 2, 20, 8, 0, 0, 0, time.UTC)),
		summary("invoice", false, time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)),
		summary("contract", false, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)),
	}

	got := ComputeDashboard(docs, now, models.TierFree, models.FreeSaveLimit)
	want := models.DashboardStats{
		TotalDocuments: 5,
		SavedDocuments: 2,
		Last7Days:      2,
		Last30Days:     3,
		GrowthRate:     50,
		TypeBreakdown:  map[string]int{"contract": 3, "nda": 1, "invoice": 1},
		DailyActivity: []models.DailyActivity{
			{Date: "2025-03-04", Count: 0},
			{Date: "2025-03-05", Count: 1},
			{Date: "2025-03-06", Count: 0},
			{Date: "2025-03-07", Count: 0},
			{Date: "2025-03-08", Count: 0},
			{Date: "2025-03-09", Count: 0},
			{Date: "2025-03-10", Count: 1},
		},
		MostPopular: "contract",
		AvgPerWeek:  0.7,
		SaveLimit:   models.FreeSaveLimit,
		Tier:        models.TierFree,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ComputeDashboard mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeDashboard_Empty(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	got := ComputeDashboard(nil, now, models.TierPro, 0)

	assert.Zero(t, got.TotalDocuments)
	assert.Zero(t, got.GrowthRate)
	assert.Zero(t, got.AvgPerWeek)
	assert.Empty(t, got.MostPopular)
	assert.Len(t, got.DailyActivity, 7)
	assert.Equal(t, "2025-03-10", got.DailyActivity[6].Date)
}

func TestMostPopular_TieBreaksAlphabetically(t *testing.T) {
	assert.Equal(t, "invoice", mostPopular(map[string]int{"nda": 2, "invoice": 2, "contract": 1}))
}

type memorySummaries struct {
	calls int
	docs  []models.DocumentSummary
}

func (m *memorySummaries) ListSummaries(ctx context.Context, userID uuid.UUID) ([]models.DocumentSummary, error) {
	m.calls++
	return m.docs, nil
}

func TestAnalyticsService_Dashboard_CachedUntilInvalidated(t *testing.T) {
	store := newMemoryDocumentStore()
	user := store.addUser(models.TierPro, 0, true)
	summaries := &memorySummaries{docs: []models.DocumentSummary{summary("nda", true, time.Now().Add(-time.Hour))}}
	cache := newTestCache(t)
	svc := NewAnalyticsService(summaries, store, cache, models.FreeSaveLimit)
	ctx := context.Background()

	stats, err := svc.Dashboard(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalDocuments)
	assert.Equal(t, 0, stats.SaveLimit)
	assert.Equal(t, models.TierPro, stats.Tier)

	_, err = svc.Dashboard(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summaries.calls)

	cache.InvalidateUserCache(user.ID)
	_, err = svc.Dashboard(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summaries.calls)
}
