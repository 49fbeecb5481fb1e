package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription история подписки у платёжного провайдера.
type Subscription struct {
	ID                   uuid.UUID  `db:"id" json:"id"`
	UserID               uuid.UUID  `db:"user_id" json:"userId"`
	StripeCustomerID     string     `db:"stripe_customer_id" json:"-"`
	StripeSubscriptionID string     `db:"stripe_subscription_id" json:"-"`
	Status               string     `db:"status" json:"status"`
	CurrentPeriodEnd     *time.Time `db:"current_period_end" json:"currentPeriodEnd,omitempty"`
	CancelAtPeriodEnd    bool       `db:"cancel_at_period_end" json:"cancelAtPeriodEnd"`
	LastEventID          string     `db:"last_event_id" json:"-"`
	CreatedAt            time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updatedAt"`
}

// IsActive активна ли подписка (в том числе пробный период).
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive || s.Status == SubscriptionStatusTrialing
}
