package models

import (
	"time"

	"github.com/google/uuid"
)

// User описывает владельца аккаунта, его тариф и счётчики использования.
type User struct {
	ID                   uuid.UUID  `db:"id" json:"id"`
	Email                string     `db:"email" json:"email"`
	Name                 string     `db:"name" json:"name"`
	PasswordHash         string     `db:"password_hash" json:"-"`
	SubscriptionTier     string     `db:"subscription_tier" json:"subscriptionTier"`
	SubscriptionStatus   *string    `db:"subscription_status" json:"subscriptionStatus,omitempty"`
	StripeCustomerID     *string    `db:"stripe_customer_id" json:"-"`
	StripeSubscriptionID *string    `db:"stripe_subscription_id" json:"-"`
	SubscriptionEndsAt   *time.Time `db:"subscription_ends_at" json:"subscriptionEndsAt,omitempty"`
	DocumentsGenerated   int        `db:"documents_generated" json:"documentsGenerated"`
	DocumentsSaved       int        `db:"documents_saved" json:"documentsSaved"`
	UsagePeriodStart     time.Time  `db:"usage_period_start" json:"usagePeriodStart"`
	DisclaimerAccepted   bool       `db:"disclaimer_accepted" json:"disclaimerAccepted"`
	DisclaimerAcceptedAt *time.Time `db:"disclaimer_accepted_at" json:"disclaimerAcceptedAt,omitempty"`
	LastLoginAt          *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt            time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updatedAt"`
}

// IsPro сообщает, оплачен ли у пользователя Pro тариф.
func (u *User) IsPro() bool {
	return u.SubscriptionTier == TierPro
}

// CanSaveDocument проверяет лимит сохранённых документов.
// Pro тариф не ограничен, бесплатный ограничен limit документами.
func (u *User) CanSaveDocument(limit int) bool {
	if u.IsPro() {
		return true
	}
	return u.DocumentsSaved < limit
}

// Session представляет сохранённую сессию пользователя.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"userId"`
	RefreshToken string    `db:"refresh_token" json:"-"`
	UserAgent    *string   `db:"user_agent" json:"userAgent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ipAddress,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// SubscriptionUpdate набор полей пользователя, который меняет событие биллинга.
// nil означает "не трогать".
type SubscriptionUpdate struct {
	Tier                 string
	Status               *string
	StripeCustomerID     *string
	StripeSubscriptionID *string
	EndsAt               *time.Time
}
