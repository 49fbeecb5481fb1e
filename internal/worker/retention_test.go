package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ignatzorin/docmint-backend/internal/models"
)

type fakeStore struct {
	mu          sync.Mutex
	purgeBefore []time.Time
	resetAt     []time.Time
	sessionsAt  []time.Time
	purgeErr    error
	purged      []models.PurgedDocument
	passes      chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		passes: make(chan struct{}, 16),
		purged: []models.PurgedDocument{{ID: uuid.New()}, {ID: uuid.New()}, {ID: uuid.New()}},
	}
}

func (f *fakeStore) PurgeUnsaved(_ context.Context, before time.Time) ([]models.PurgedDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purgeBefore = append(f.purgeBefore, before)
	if f.purgeErr != nil {
		return nil, f.purgeErr
	}
	return f.purged, nil
}

type fakeEvictor struct {
	deleted     []uuid.UUID
	invalidated []uuid.UUID
	failOn      uuid.UUID
}

func (e *fakeEvictor) Delete(_ context.Context, docID uuid.UUID) error {
	if docID == e.failOn {
		return errors.New("disk busy")
	}
	e.deleted = append(e.deleted, docID)
	return nil
}

func (e *fakeEvictor) InvalidateUserCache(userID uuid.UUID) {
	e.invalidated = append(e.invalidated, userID)
}

func (f *fakeStore) ResetMonthlyUsage(_ context.Context, periodStart time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetAt = append(f.resetAt, periodStart)
	return 2, nil
}

func (f *fakeStore) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	f.sessionsAt = append(f.sessionsAt, now)
	f.mu.Unlock()
	f.passes <- struct{}{}
	return 1, nil
}

func TestRetention_RunOnce(t *testing.T) {
	store := newFakeStore()
	r := NewRetention(store, store, 7*24*time.Hour, time.Hour)
	now := time.Date(2024, 3, 18, 10, 30, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	report, err := r.RunOnce(context.Background(), 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, &Report{PurgedDocuments: 3, ResetUsers: 2, ExpiredSessions: 1}, report)

	assert.Equal(t, []time.Time{time.Date(2024, 3, 11, 10, 30, 0, 0, time.UTC)}, store.purgeBefore)
	assert.Equal(t, []time.Time{time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}, store.resetAt)
}

func TestRetention_RunOnceEvictsPurgedDocuments(t *testing.T) {
	alice, bob := uuid.New(), uuid.New()
	store := newFakeStore()
	store.purged = []models.PurgedDocument{
		{ID: uuid.New(), UserID: alice},
		{ID: uuid.New(), UserID: alice},
		{ID: uuid.New(), UserID: bob},
	}
	ev := &fakeEvictor{failOn: store.purged[1].ID}
	r := NewRetention(store, store, time.Hour, time.Hour).WithPDFEvictor(ev).WithCacheInvalidator(ev)

	report, err := r.RunOnce(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(3), report.PurgedDocuments)
	assert.Equal(t, []uuid.UUID{store.purged[0].ID, store.purged[2].ID}, ev.deleted)
	assert.ElementsMatch(t, []uuid.UUID{alice, bob}, ev.invalidated)
	assert.Len(t, store.resetAt, 1)
}

func TestRetention_RunOnceWithoutPurgedSkipsEviction(t *testing.T) {
	store := newFakeStore()
	store.purged = nil
	ev := &fakeEvictor{}
	r := NewRetention(store, store, time.Hour, time.Hour).WithPDFEvictor(ev).WithCacheInvalidator(ev)

	report, err := r.RunOnce(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Zero(t, report.PurgedDocuments)
	assert.Empty(t, ev.deleted)
	assert.Empty(t, ev.invalidated)
}

func TestRetention_RunOnceStopsOnPurgeError(t *testing.T) {
	store := newFakeStore()
	store.purgeErr = errors.New("db down")
	r := NewRetention(store, store, time.Hour, time.Hour)

	_, err := r.RunOnce(context.Background(), time.Hour)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.purgeErr)
	assert.Empty(t, store.resetAt)
}

func TestRetention_RunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	store := newFakeStore()
	r := NewRetention(store, store, time.Hour, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	for i := 0; i < 2; i++ {
		select {
		case <-store.passes:
		case <-time.After(2 * time.Second):
			t.Fatal("воркер не выполнил проход")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("воркер не остановился")
	}
}

func TestMonthStart(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	in := time.Date(2024, 4, 1, 2, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), MonthStart(in))
}
