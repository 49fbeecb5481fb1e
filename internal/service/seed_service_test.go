package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/docmint-backend/internal/models"
	"github.com/ignatzorin/docmint-backend/internal/repository"
)

// memorySeedStore эмулирует ON CONFLICT DO NOTHING по ключам.
type memorySeedStore struct {
	templates  map[models.TemplateKey]models.DocumentTemplate
	checklists map[string]models.ComplianceChecklist
	users      map[string]*models.User
	failWith   error
}

func newMemorySeedStore() *memorySeedStore {
	return &memorySeedStore{
		templates:  make(map[models.TemplateKey]models.DocumentTemplate),
		checklists: make(map[string]models.ComplianceChecklist),
		users:      make(map[string]*models.User),
	}
}

type templateSeederFunc func(ctx context.Context, templates []models.DocumentTemplate) (int64, error)

func (f templateSeederFunc) InsertMissing(ctx context.Context, templates []models.DocumentTemplate) (int64, error) {
	return f(ctx, templates)
}

func (m *memorySeedStore) templateSeeder() TemplateSeeder {
	return templateSeederFunc(func(_ context.Context, templates []models.DocumentTemplate) (int64, error) {
		if m.failWith != nil {
			return 0, m.failWith
		}
		var n int64
		for _, t := range templates {
			if _, ok := m.templates[t.Key()]; ok {
				continue
			}
			m.templates[t.Key()] = t
			n++
		}
		return n, nil
	})
}

func (m *memorySeedStore) InsertMissing(_ context.Context, checklists []models.ComplianceChecklist) (int64, error) {
	var n int64
	for _, c := range checklists {
		key := c.Country + "/" + c.Industry
		if _, ok := m.checklists[key]; ok {
			continue
		}
		m.checklists[key] = c
		n++
	}
	return n, nil
}

func (m *memorySeedStore) Create(_ context.Context, user *models.User) error {
	if _, ok := m.users[user.Email]; ok {
		return repository.ErrEmailTaken
	}
	user.ID = uuid.New()
	m.users[user.Email] = user
	return nil
}

func (m *memorySeedStore) AcceptDisclaimer(_ context.Context, userID uuid.UUID, at time.Time) error {
	for _, u := range m.users {
		if u.ID == userID {
			u.DisclaimerAccepted = true
			u.DisclaimerAcceptedAt = &at
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func TestSeedService_Idempotent(t *testing.T) {
	store := newMemorySeedStore()
	cache := newTestCache(t)
	svc := NewSeedService(store.templateSeeder(), store, store, cache)
	ctx := context.Background()

	cache.Set(TemplateCacheKey(models.TemplateKey{Country: "US", DocumentType: "nda", Industry: "tech"}), "stale", time.Minute)

	first, err := svc.SeedData(ctx, SeedOptions{DemoEmail: "Demo@DocMint.dev", DemoPassword: "Passw0rd!"})
	require.NoError(t, err)
	assert.EqualValues(t, 7, first.Templates)
	assert.EqualValues(t, 2, first.Checklists)
	assert.True(t, first.DemoUser)
	assert.Equal(t, 0, cache.Len())

	demo := store.users["demo@docmint.dev"]
	require.NotNil(t, demo)
	assert.True(t, demo.DisclaimerAccepted)
	assert.NotEqual(t, "Passw0rd!", demo.PasswordHash)

	second, err := svc.SeedData(ctx, SeedOptions{DemoEmail: "demo@docmint.dev", DemoPassword: "Passw0rd!"})
	require.NoError(t, err)
	assert.Equal(t, &SeedReport{}, second)
}

func TestSeedService_SkipsDemoUserWithoutEmail(t *testing.T) {
	store := newMemorySeedStore()
	svc := NewSeedService(store.templateSeeder(), store, nil, nil)

	report, err := svc.SeedData(context.Background(), SeedOptions{})
	require.NoError(t, err)
	assert.False(t, report.DemoUser)
	assert.Empty(t, store.users)
}

func TestSeedService_RepositoryError(t *testing.T) {
	store := newMemorySeedStore()
	store.failWith = errors.New("connection refused")
	svc := NewSeedService(store.templateSeeder(), store, store, nil)

	_, err := svc.SeedData(context.Background(), SeedOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.failWith)
	assert.Empty(t, store.checklists)
}
