package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/docmint-backend/internal/models"
	"github.com/ignatzorin/docmint-backend/internal/repository/common"
)

// TemplateRepository хранит шаблоны документов.
type TemplateRepository struct {
	db *sqlx.DB
}

// NewTemplateRepository создаёт экземпляр репозитория.
func NewTemplateRepository(db *sqlx.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// GetActive возвращает активный шаблон для страны, типа документа и отрасли.
func (r *TemplateRepository) GetActive(ctx context.Context, key models.TemplateKey) (*models.DocumentTemplate, error) {
	return common.GetWhere[models.DocumentTemplate](
		ctx, r.db, "document_templates",
		"country = $1 AND document_type = $2 AND industry = $3 AND is_active = TRUE",
		ErrTemplateNotFound,
		key.Country, key.DocumentType, key.Industry,
	)
}

// GetByID возвращает шаблон по идентификатору.
func (r *TemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.DocumentTemplate, error) {
	return common.GetByID[models.DocumentTemplate](ctx, r.db, "document_templates", id, ErrTemplateNotFound)
}

// ListActive возвращает все активные шаблоны.
func (r *TemplateRepository) ListActive(ctx context.Context) ([]models.DocumentTemplate, error) {
	var templates []models.DocumentTemplate
	query := `
		SELECT * FROM document_templates
		WHERE is_active = TRUE
		ORDER BY country, document_type, industry
	`
	if err := r.db.SelectContext(ctx, &templates, query); err != nil {
		return nil, fmt.Errorf("template repository: list active %w", err)
	}
	return templates, nil
}

// InsertMissing вставляет шаблоны, которых ещё нет для их ключа.
// Существующие шаблоны не изменяются. Возвращает число вставленных строк.
func (r *TemplateRepository) InsertMissing(ctx context.Context, templates []models.DocumentTemplate) (int64, error) {
	var inserted int64
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		bi := common.NewBatchInserter(tx,
			`INSERT INTO document_templates (country, document_type, industry, name, description, fields, template_content, version, is_active)`,
			`ON CONFLICT (country, document_type, industry) DO NOTHING`,
			9, 50,
		)
		for _, t := range templates {
			version := t.Version
			if version <= 0 {
				version = 1
			}
			if err := bi.Add(ctx, t.Country, t.DocumentType, t.Industry, t.Name, t.Description, t.Fields, t.TemplateContent, version, true); err != nil {
				return err
			}
		}
		if err := bi.Flush(ctx); err != nil {
			return err
		}
		inserted = bi.Affected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("template repository: insert missing %w", err)
	}
	return inserted, nil
}
