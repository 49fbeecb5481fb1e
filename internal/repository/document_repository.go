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
	"github.com/ignatzorin/docmint-backend/internal/repository/common"
)

// MaxListedDocuments предел выдачи списка сохранённых документов.
const MaxListedDocuments = 100

// DocumentRepository хранит сгенерированные документы.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository создаёт экземпляр репозитория.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create сохраняет новый документ и заполняет ID и временные метки.
func (r *DocumentRepository) Create(ctx context.Context, doc *models.GeneratedDocument) error {
	query := `
		INSERT INTO generated_documents
			(user_id, template_id, country, document_type, industry, title, content, field_values, is_saved, is_watermarked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query,
		doc.UserID, doc.TemplateID, doc.Country, doc.DocumentType, doc.Industry,
		doc.Title, doc.Content, doc.FieldValues, doc.IsSaved, doc.IsWatermarked,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return fmt.Errorf("document repository: create %w", err)
	}
	return nil
}

// GetForUser возвращает документ, только если он принадлежит пользователю.
func (r *DocumentRepository) GetForUser(ctx context.Context, id, userID uuid.UUID) (*models.GeneratedDocument, error) {
	return common.GetWhere[models.GeneratedDocument](
		ctx, r.db, "generated_documents", "id = $1 AND user_id = $2", ErrDocumentNotFound, id, userID,
	)
}

// ListSaved возвращает сохранённые документы пользователя, новые первыми.
func (r *DocumentRepository) ListSaved(ctx context.Context, userID uuid.UUID, limit int) ([]models.GeneratedDocument, error) {
	if limit <= 0 || limit > MaxListedDocuments {
		limit = MaxListedDocuments
	}
	docs := []models.GeneratedDocument{}
	query := `
		SELECT * FROM generated_documents
		WHERE user_id = $1 AND is_saved = TRUE
		ORDER BY created_at DESC
		LIMIT $2
	`
	if err := r.db.SelectContext(ctx, &docs, query, userID, limit); err != nil {
		return nil, fmt.Errorf("document repository: list saved %w", err)
	}
	return docs, nil
}

// ListSummaries возвращает краткие записи всех документов пользователя по возрастанию даты.
func (r *DocumentRepository) ListSummaries(ctx context.Context, userID uuid.UUID) ([]models.DocumentSummary, error) {
	summaries := []models.DocumentSummary{}
	query := `
		SELECT id, title, country, document_type, industry, is_saved, is_watermarked, created_at
		FROM generated_documents
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	if err := r.db.SelectContext(ctx, &summaries, query, userID); err != nil {
		return nil, fmt.Errorf("document repository: list summaries %w", err)
	}
	return summaries, nil
}

// MarkSaved помечает документ сохранённым и увеличивает счётчик пользователя в одной транзакции.
// Возвращает false, если документ уже был сохранён.
func (r *DocumentRepository) MarkSaved(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	changed := false
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var wasSaved bool
		err := tx.GetContext(ctx, &wasSaved,
			`SELECT is_saved FROM generated_documents WHERE id = $1 AND user_id = $2 FOR UPDATE`, id, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrDocumentNotFound
			}
			return err
		}
		if wasSaved {
			return nil
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE generated_documents SET is_saved = TRUE, updated_at = NOW() WHERE id = $1`, id); err != nil {
			return err
		}
		if err := IncrementSavedTx(ctx, tx, userID); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) || errors.Is(err, ErrUserNotFound) {
			return false, err
		}
		return false, fmt.Errorf("document repository: mark saved %w", err)
	}
	return changed, nil
}

// Delete удаляет документ пользователя. Если он был сохранён, счётчик уменьшается.
func (r *DocumentRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var wasSaved bool
		err := tx.GetContext(ctx, &wasSaved,
			`DELETE FROM generated_documents WHERE id = $1 AND user_id = $2 RETURNING is_saved`, id, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrDocumentNotFound
			}
			return err
		}
		if wasSaved {
			return DecrementSavedTx(ctx, tx, userID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return err
		}
		return fmt.Errorf("document repository: delete %w", err)
	}
	return nil
}

// Touch обновляет время последнего обращения к документу.
func (r *DocumentRepository) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE generated_documents SET last_accessed_at = $2 WHERE id = $1`, id, at); err != nil {
		return fmt.Errorf("document repository: touch %w", err)
	}
	return nil
}

// PurgeUnsaved удаляет несохранённые документы, созданные раньше before,
// и возвращает их идентификаторы вместе с владельцами.
func (r *DocumentRepository) PurgeUnsaved(ctx context.Context, before time.Time) ([]models.PurgedDocument, error) {
	var purged []models.PurgedDocument
	query := `
		DELETE FROM generated_documents
		WHERE is_saved = FALSE AND created_at < $1
		RETURNING id, user_id
	`
	if err := r.db.SelectContext(ctx, &purged, query, before); err != nil {
		return nil, fmt.Errorf("document repository: purge unsaved %w", err)
	}
	return purged, nil
}
