package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/docmint-backend/internal/models"
)

// SubscriptionRepository хранит историю подписок по событиям биллинга.
type SubscriptionRepository struct {
	db *sqlx.DB
}

// NewSubscriptionRepository создаёт экземпляр репозитория.
func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Upsert создаёт или обновляет запись подписки по идентификатору провайдера.
func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *models.Subscription) error {
	query := `
		INSERT INTO subscriptions
			(user_id, stripe_customer_id, stripe_subscription_id, status, current_period_end, cancel_at_period_end, last_event_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (stripe_subscription_id) DO UPDATE
		SET status = EXCLUDED.status,
			stripe_customer_id = EXCLUDED.stripe_customer_id,
			current_period_end = COALESCE(EXCLUDED.current_period_end, subscriptions.current_period_end),
			cancel_at_period_end = EXCLUDED.cancel_at_period_end,
			last_event_id = EXCLUDED.last_event_id,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query,
		sub.UserID, sub.StripeCustomerID, sub.StripeSubscriptionID, sub.Status,
		sub.CurrentPeriodEnd, sub.CancelAtPeriodEnd, sub.LastEventID,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return fmt.Errorf("subscription repository: upsert %w", err)
	}
	return nil
}
