package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/docmint-backend/internal/models"
)

const userColumns = `id, email, name, password_hash, subscription_tier, subscription_status,
	stripe_customer_id, stripe_subscription_id, subscription_ends_at,
	documents_generated, documents_saved, usage_period_start,
	disclaimer_accepted, disclaimer_accepted_at, last_login_at, created_at, updated_at`

// UserRepository отвечает за работу с таблицами users и user_sessions.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт экземпляр репозитория.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create создаёт нового пользователя на бесплатном тарифе.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, name, password_hash, subscription_tier)
		VALUES ($1, $2, $3, 'free')
		RETURNING ` + userColumns

	if err := r.db.QueryRowxContext(ctx, query, user.Email, user.Name, user.PasswordHash).StructScan(user); err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("user repository: create %w", err)
	}

	return nil
}

// GetByEmail возвращает пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email", email)
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getOne(ctx, "id", id)
}

// GetByStripeCustomerID ищет пользователя по идентификатору клиента платёжного провайдера.
func (r *UserRepository) GetByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error) {
	return r.getOne(ctx, "stripe_customer_id", customerID)
}

func (r *UserRepository) getOne(ctx context.Context, field string, value interface{}) (*models.User, error) {
	var user models.User
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, userColumns, field)
	if err := r.db.GetContext(ctx, &user, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by %s %w", field, err)
	}
	return &user, nil
}

// CreateSession сохраняет новую сессию пользователя.
func (r *UserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO user_sessions (user_id, refresh_token, user_agent, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx,
		query,
		session.UserID,
		session.RefreshToken,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt); err != nil {
		return fmt.Errorf("user repository: create session %w", err)
	}

	return nil
}

// DeleteSession удаляет живую сессию по refresh токену.
// Возвращает ErrSessionNotFound, если сессии нет или она истекла.
func (r *UserRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE refresh_token = $1 AND expires_at > NOW()`, refreshToken)
	if err != nil {
		return fmt.Errorf("user repository: delete session %w", err)
	}
	return expectAffected(result, ErrSessionNotFound)
}

// DeleteExpiredSessions удаляет истёкшие сессии и возвращает их количество.
func (r *UserRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("user repository: delete expired sessions %w", err)
	}
	return result.RowsAffected()
}

// UpdateLastLoginAt обновляет время последнего входа пользователя.
func (r *UserRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("user repository: update last login at %w", err)
	}

	return nil
}

// AcceptDisclaimer отмечает, что пользователь принял отказ от ответственности.
func (r *UserRepository) AcceptDisclaimer(ctx context.Context, userID uuid.UUID, at time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET disclaimer_accepted = TRUE, disclaimer_accepted_at = $2, updated_at = NOW()
		WHERE id = $1
	`, userID, at)
	if err != nil {
		return fmt.Errorf("user repository: accept disclaimer %w", err)
	}
	return expectAffected(result, ErrUserNotFound)
}

// IncrementGenerated увеличивает счётчик сгенерированных документов.
func (r *UserRepository) IncrementGenerated(ctx context.Context, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users SET documents_generated = documents_generated + 1, updated_at = NOW()
		WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("user repository: increment generated %w", err)
	}
	return expectAffected(result, ErrUserNotFound)
}

// ApplySubscriptionUpdate записывает поля подписки, пришедшие из вебхука.
// Поля со значением nil сохраняют текущее значение.
func (r *UserRepository) ApplySubscriptionUpdate(ctx context.Context, userID uuid.UUID, upd models.SubscriptionUpdate) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			subscription_tier = $2,
			subscription_status = COALESCE($3, subscription_status),
			stripe_customer_id = COALESCE($4, stripe_customer_id),
			stripe_subscription_id = COALESCE($5, stripe_subscription_id),
			subscription_ends_at = COALESCE($6, subscription_ends_at),
			updated_at = NOW()
		WHERE id = $1
	`, userID, upd.Tier, upd.Status, upd.StripeCustomerID, upd.StripeSubscriptionID, upd.EndsAt)
	if err != nil {
		return fmt.Errorf("user repository: apply subscription update %w", err)
	}
	return expectAffected(result, ErrUserNotFound)
}

// ResetMonthlyUsage обнуляет счётчик генераций у пользователей,
// чей учётный период начался раньше periodStart.
func (r *UserRepository) ResetMonthlyUsage(ctx context.Context, periodStart time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users SET documents_generated = 0, usage_period_start = $1, updated_at = NOW()
		WHERE usage_period_start < $1
	`, periodStart)
	if err != nil {
		return 0, fmt.Errorf("user repository: reset monthly usage %w", err)
	}
	return result.RowsAffected()
}

// IncrementSavedTx увеличивает счётчик сохранённых документов внутри транзакции.
func IncrementSavedTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE users SET documents_saved = documents_saved + 1, updated_at = NOW()
		WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("user repository: increment saved %w", err)
	}
	return expectAffected(result, ErrUserNotFound)
}

// DecrementSavedTx уменьшает счётчик сохранённых документов внутри транзакции.
func DecrementSavedTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE users SET documents_saved = GREATEST(documents_saved - 1, 0), updated_at = NOW()
		WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("user repository: decrement saved %w", err)
	}
	return nil
}

func expectAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
