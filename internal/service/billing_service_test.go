package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/docmint-backend/internal/models"
	"github.com/ignatzorin/docmint-backend/internal/pkg/apperror"
	"github.com/ignatzorin/docmint-backend/internal/repository"
)

const testWebhookSecret = "whsec_test"

type memoryBillingUsers struct {
	users map[uuid.UUID]*models.User
	fail  error
}

func (m *memoryBillingUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *memoryBillingUsers) GetByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error) {
	for _, user := range m.users {
		if user.StripeCustomerID != nil && *user.StripeCustomerID == customerID {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memoryBillingUsers) ApplySubscriptionUpdate(ctx context.Context, userID uuid.UUID, upd models.SubscriptionUpdate) error {
	if m.fail != nil {
		return m.fail
	}
	user, ok := m.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.SubscriptionTier = upd.Tier
	if upd.Status != nil {
		user.SubscriptionStatus = upd.Status
	}
	if upd.StripeCustomerID != nil {
		user.StripeCustomerID = upd.StripeCustomerID
	}
	if upd.StripeSubscriptionID != nil {
		user.StripeSubscriptionID = upd.StripeSubscriptionID
	}
	if upd.EndsAt != nil {
		user.SubscriptionEndsAt = upd.EndsAt
	}
	return nil
}

type memorySubscriptions struct {
	byID map[string]*models.Subscription
}

func (m *memorySubscriptions) Upsert(ctx context.Context, sub *models.Subscription) error {
	m.byID[sub.StripeSubscriptionID] = sub
	return nil
}

type billingFixture struct {
	users    *memoryBillingUsers
	subs     *memorySubscriptions
	notifier *recordingNotifier
	svc      *BillingService
	now      time.Time
}

func newBillingFixture(t *testing.T) *billingFixture {
	f := &billingFixture{
		users:    &memoryBillingUsers{users: map[uuid.UUID]*models.User{}},
		subs:     &memorySubscriptions{byID: map[string]*models.Subscription{}},
		notifier: &recordingNotifier{},
		now:      time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewBillingService(f.users, f.subs, f.notifier, newTestCache(t), testWebhookSecret, 5*time.Minute)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *billingFixture) addUser() *models.User {
	user := &models.User{ID: uuid.New(), SubscriptionTier: models.TierFree}
	f.users.users[user.ID] = user
	return user
}

func (f *billingFixture) send(t *testing.T, eventType string, object map[string]any) error {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"id":   "evt_" + uuid.NewString(),
		"type": eventType,
		"data": map[string]any{"object": object},
	})
	require.NoError(t, err)
	return f.svc.HandleWebhook(context.Background(), payload, SignatureHeaderValue(payload, testWebhookSecret, f.now))
}

func TestBillingService_CheckoutCompleted_UpgradesToPro(t *testing.T) {
	f := newBillingFixture(t)
	user := f.addUser()

	err := f.send(t, EventCheckoutCompleted, map[string]any{
		"mode":         "subscription",
		"customer":     "cus_123",
		"subscription": "sub_123",
		"metadata":     map[string]string{"userId": user.ID.String()},
	})
	require.NoError(t, err)

	assert.Equal(t, models.TierPro, user.SubscriptionTier)
	assert.Equal(t, models.SubscriptionStatusActive, *user.SubscriptionStatus)
	assert.Equal(t, "cus_123", *user.StripeCustomerID)
	assert.Equal(t, "sub_123", *user.StripeSubscriptionID)
	require.Contains(t, f.subs.byID, "sub_123")
	assert.Equal(t, user.ID, f.subs.byID["sub_123"].UserID)
	assert.Len(t, f.notifier.events, 1)
}

func TestBillingService_CheckoutCompleted_ClientReferenceFallback(t *testing.T) {
	f := newBillingFixture(t)
	user := f.addUser()

	err := f.send(t, EventCheckoutCompleted, map[string]any{
		"mode":                "subscription",
		"customer":            "cus_9",
		"subscription":        "sub_9",
		"client_reference_id": user.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, models.TierPro, user.SubscriptionTier)
}

func TestBillingService_CheckoutPayment_Ignored(t *testing.T) {
	f := newBillingFixture(t)
	user := f.addUser()

	err := f.send(t, EventCheckoutCompleted, map[string]any{
		"mode":     "payment",
		"metadata": map[string]string{"userId": user.ID.String()},
	})
	require.NoError(t, err)
	assert.Equal(t, models.TierFree, user.SubscriptionTier)
	assert.Empty(t, f.notifier.events)
}

func TestBillingService_SubscriptionUpdated(t *testing.T) {
	cases := []struct {
		status string
		tier   string
	}{
		{models.SubscriptionStatusActive, models.TierPro},
		{models.SubscriptionStatusTrialing, models.TierPro},
		{models.SubscriptionStatusPastDue, models.TierFree},
		{models.SubscriptionStatusUnpaid, models.TierFree},
	}
	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			f := newBillingFixture(t)
			user := f.addUser()
			customer := "cus_" + tc.status
			user.StripeCustomerID = &customer
			periodEnd := f.now.Add(30 * 24 * time.Hour).Unix()

			err := f.send(t, EventSubscriptionUpdated, map[string]any{
				"id":                 "sub_1",
				"customer":           customer,
				"status":             tc.status,
				"current_period_end": periodEnd,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.tier, user.SubscriptionTier)
			assert.Equal(t, tc.status, *user.SubscriptionStatus)
			require.NotNil(t, user.SubscriptionEndsAt)
			assert.Equal(t, periodEnd, user.SubscriptionEndsAt.Unix())
		})
	}
}

func TestBillingService_SubscriptionDeleted_Downgrades(t *testing.T) {
	f := newBillingFixture(t)
	user := f.addUser()
	user.SubscriptionTier = models.TierPro

	err := f.send(t, EventSubscriptionDeleted, map[string]any{
		"id":       "sub_2",
		"customer": "cus_unknown",
		"status":   "canceled",
		"metadata": map[string]string{"userId": user.ID.String()},
	})
	require.NoError(t, err)
	assert.Equal(t, models.TierFree, user.SubscriptionTier)
	assert.Equal(t, models.SubscriptionStatusCanceled, *user.SubscriptionStatus)
	assert.Equal(t, models.SubscriptionStatusCanceled, f.subs.byID["sub_2"].Status)
}

func TestBillingService_UnknownEventAndUser(t *testing.T) {
	f := newBillingFixture(t)

	require.NoError(t, f.send(t, "invoice.paid", map[string]any{"id": "in_1"}))
	require.NoError(t, f.send(t, EventSubscriptionDeleted, map[string]any{
		"id":       "sub_3",
		"customer": "cus_nobody",
	}))
	assert.Empty(t, f.subs.byID)
	assert.Empty(t, f.notifier.events)
}

func TestBillingService_DatabaseFailure(t *testing.T) {
	f := newBillingFixture(t)
	user := f.addUser()
	f.users.fail = errors.New("connection refused")

	err := f.send(t, EventCheckoutCompleted, map[string]any{
		"mode":         "subscription",
		"subscription": "sub_4",
		"metadata":     map[string]string{"userId": user.ID.String()},
	})
	assert.Equal(t, apperror.ErrCodeInternal, apperror.CodeOf(err))
}

func TestBillingService_RejectsBadSignature(t *testing.T) {
	f := newBillingFixture(t)
	payload := []byte(`{"id":"evt_1","type":"customer.subscription.deleted","data":{"object":{}}}`)

	err := f.svc.HandleWebhook(context.Background(), payload, "")
	assert.Equal(t, apperror.ErrInvalidSignature, err)

	err = f.svc.HandleWebhook(context.Background(), payload, SignatureHeaderValue(payload, "other", f.now))
	assert.Equal(t, apperror.ErrInvalidSignature, err)

	stale := SignatureHeaderValue(payload, testWebhookSecret, f.now.Add(-10*time.Minute))
	err = f.svc.HandleWebhook(context.Background(), payload, stale)
	assert.Equal(t, apperror.ErrInvalidSignature, err)
}

func TestVerifySignature(t *testing.T) {
	now := time.Unix(1700000000, 0)
	payload := []byte(`{"ok":true}`)
	valid := SignatureHeaderValue(payload, "secret", now)

	assert.NoError(t, VerifySignature(payload, valid, "secret", 5*time.Minute, now))
	assert.NoError(t, VerifySignature(payload, valid+",v1=deadbeef", "secret", 5*time.Minute, now))
	assert.ErrorIs(t, VerifySignature(payload, "t=1700000000", "secret", time.Minute, now), errSignatureMalformed)
	assert.ErrorIs(t, VerifySignature([]byte(`{"ok":false}`), valid, "secret", time.Minute, now), errSignatureMismatch)
	assert.ErrorIs(t, VerifySignature(payload, valid, "secret", time.Minute, now.Add(2*time.Minute)), errSignatureExpired)
	assert.NoError(t, VerifySignature(payload, valid, "secret", 0, now.Add(time.Hour)))
}
