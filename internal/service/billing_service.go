package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/docmint-backend/internal/logger"
	"github.com/ignatzorin/docmint-backend/internal/models"
	"github.com/ignatzorin/docmint-backend/internal/pkg/apperror"
	"github.com/ignatzorin/docmint-backend/internal/repository"
	"github.com/ignatzorin/docmint-backend/internal/ws"
)

// Типы событий биллинга, которые меняют подписку.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// BillingUserRepository операции над пользователем, нужные вебхуку.
type BillingUserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error)
	ApplySubscriptionUpdate(ctx context.Context, userID uuid.UUID, upd models.SubscriptionUpdate) error
}

// SubscriptionStore хранит историю подписок.
type SubscriptionStore interface {
	Upsert(ctx context.Context, sub *models.Subscription) error
}

// WebhookEvent конверт события провайдера.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type checkoutSession struct {
	Mode              string            `json:"mode"`
	Customer          string            `json:"customer"`
	Subscription      string            `json:"subscription"`
	ClientReferenceID string            `json:"client_reference_id"`
	Metadata          map[string]string `json:"metadata"`
}

type billingSubscription struct {
	ID                string            `json:"id"`
	Customer          string            `json:"customer"`
	Status            string            `json:"status"`
	CurrentPeriodEnd  int64             `json:"current_period_end"`
	CancelAtPeriodEnd bool              `json:"cancel_at_period_end"`
	Metadata          map[string]string `json:"metadata"`
}

type eventHandler func(ctx context.Context, event *WebhookEvent) error

// errUnknownUser событие относится к пользователю, которого нет в базе.
var errUnknownUser = errors.New("billing: пользователь не найден")

// BillingService применяет события биллинга к подпискам пользователей.
type BillingService struct {
	users     BillingUserRepository
	subs      SubscriptionStore
	notifier  Notifier
	cache     *CacheService
	secret    string
	tolerance time.Duration
	now       func() time.Time
	handlers  map[string]eventHandler
}

// NewBillingService создаёт сервис вебхуков.
func NewBillingService(
	users BillingUserRepository,
	subs SubscriptionStore,
	notifier Notifier,
	cache *CacheService,
	secret string,
	tolerance time.Duration,
) *BillingService {
	s := &BillingService{
		users:     users,
		subs:      subs,
		notifier:  notifier,
		cache:     cache,
		secret:    secret,
		tolerance: tolerance,
		now:       time.Now,
	}
	s.handlers = map[string]eventHandler{
		EventCheckoutCompleted:   s.onCheckoutCompleted,
		EventSubscriptionUpdated: s.onSubscriptionUpdated,
		EventSubscriptionDeleted: s.onSubscriptionDeleted,
	}
	return s
}

// HandleWebhook проверяет подпись и применяет событие.
// Неизвестные типы событий и неизвестные пользователи подтверждаются без изменений.
func (s *BillingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if err := VerifySignature(payload, signature, s.secret, s.tolerance, s.now()); err != nil {
		logger.L().WithField("error", err.Error()).Warn("billing: вебхук отклонён")
		return apperror.ErrInvalidSignature
	}

	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeBadRequest, "некорректное тело события")
	}

	log := logger.L().WithFields(logrus.Fields{
		"event":    event.Type,
		"event_id": event.ID,
	})

	handler, ok := s.handlers[event.Type]
	if !ok {
		log.Debug("billing: событие пропущено")
		return nil
	}

	if err := handler(ctx, &event); err != nil {
		if errors.Is(err, errUnknownUser) {
			log.Warn("billing: пользователь события не найден")
			return nil
		}
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		log.WithField("error", err.Error()).Error("billing: не удалось применить событие")
		return apperror.Internal(err)
	}

	log.Info("billing: событие применено")
	return nil
}

func (s *BillingService) onCheckoutCompleted(ctx context.Context, event *WebhookEvent) error {
	var session checkoutSession
	if err := json.Unmarshal(event.Data.Object, &session); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeBadRequest, "некорректный объект checkout")
	}
	if session.Mode != "subscription" {
		return nil
	}

	ref := session.Metadata["userId"]
	if ref == "" {
		ref = session.ClientReferenceID
	}
	user, err := s.userByRef(ctx, ref)
	if err != nil {
		return err
	}

	status := models.SubscriptionStatusActive
	upd := models.SubscriptionUpdate{
		Tier:                 models.TierPro,
		Status:               &status,
		StripeCustomerID:     optional(session.Customer),
		StripeSubscriptionID: optional(session.Subscription),
	}
	return s.apply(ctx, user.ID, event.ID, upd, &billingSubscription{
		ID:       session.Subscription,
		Customer: session.Customer,
		Status:   status,
	})
}

func (s *BillingService) onSubscriptionUpdated(ctx context.Context, event *WebhookEvent) error {
	var sub billingSubscription
	if err := json.Unmarshal(event.Data.Object, &sub); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeBadRequest, "некорректный объект подписки")
	}

	user, err := s.userForSubscription(ctx, &sub)
	if err != nil {
		return err
	}

	tier := models.TierFree
	if sub.Status == models.SubscriptionStatusActive || sub.Status == models.SubscriptionStatusTrialing {
		tier = models.TierPro
	}
	status := sub.Status
	upd := models.SubscriptionUpdate{
		Tier:                 tier,
		Status:               &status,
		StripeCustomerID:     optional(sub.Customer),
		StripeSubscriptionID: optional(sub.ID),
		EndsAt:               periodEnd(sub.CurrentPeriodEnd),
	}
	return s.apply(ctx, user.ID, event.ID, upd, &sub)
}

func (s *BillingService) onSubscriptionDeleted(ctx context.Context, event *WebhookEvent) error {
	var sub billingSubscription
	if err := json.Unmarshal(event.Data.Object, &sub); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeBadRequest, "некорректный объект подписки")
	}

	user, err := s.userForSubscription(ctx, &sub)
	if err != nil {
		return err
	}

	status := models.SubscriptionStatusCanceled
	sub.Status = status
	upd := models.SubscriptionUpdate{
		Tier:   models.TierFree,
		Status: &status,
	}
	return s.apply(ctx, user.ID, event.ID, upd, &sub)
}

func (s *BillingService) apply(ctx context.Context, userID uuid.UUID, eventID string, upd models.SubscriptionUpdate, sub *billingSubscription) error {
	if err := s.users.ApplySubscriptionUpdate(ctx, userID, upd); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errUnknownUser
		}
		return err
	}

	if sub.ID != "" {
		record := &models.Subscription{
			UserID:               userID,
			StripeCustomerID:     sub.Customer,
			StripeSubscriptionID: sub.ID,
			Status:               sub.Status,
			CurrentPeriodEnd:     periodEnd(sub.CurrentPeriodEnd),
			CancelAtPeriodEnd:    sub.CancelAtPeriodEnd,
			LastEventID:          eventID,
		}
		if err := s.subs.Upsert(ctx, record); err != nil {
			return err
		}
	}

	s.cache.InvalidateUserCache(userID)
	s.notifier.Notify(userID, ws.EventSubscriptionUpdated, map[string]any{
		"tier":   upd.Tier,
		"status": upd.Status,
	})
	return nil
}

func (s *BillingService) userForSubscription(ctx context.Context, sub *billingSubscription) (*models.User, error) {
	if sub.Customer != "" {
		user, err := s.users.GetByStripeCustomerID(ctx, sub.Customer)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
	}
	return s.userByRef(ctx, sub.Metadata["userId"])
}

func (s *BillingService) userByRef(ctx context.Context, ref string) (*models.User, error) {
	userID, err := uuid.Parse(ref)
	if err != nil {
		return nil, errUnknownUser
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errUnknownUser
		}
		return nil, err
	}
	return user, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func periodEnd(unix int64) *time.Time {
	if unix <= 0 {
		return nil
	}
	t := time.Unix(unix, 0).UTC()
	return &t
}
