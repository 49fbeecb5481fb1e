package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/docmint-backend/internal/models"
	"github.com/ignatzorin/docmint-backend/internal/repository/common"
)

// ChecklistRepository хранит комплаенс чек-листы.
type ChecklistRepository struct {
	db *sqlx.DB
}

// NewChecklistRepository создаёт экземпляр репозитория.
func NewChecklistRepository(db *sqlx.DB) *ChecklistRepository {
	return &ChecklistRepository{db: db}
}

// GetActive возвращает чек-лист для страны и отрасли.
func (r *ChecklistRepository) GetActive(ctx context.Context, country, industry string) (*models.ComplianceChecklist, error) {
	return common.GetWhere[models.ComplianceChecklist](
		ctx, r.db, "compliance_checklists",
		"country = $1 AND industry = $2 AND is_active = TRUE",
		ErrChecklistNotFound,
		country, industry,
	)
}

// InsertMissing вставляет чек-листы, которых ещё нет. Возвращает число вставленных строк.
func (r *ChecklistRepository) InsertMissing(ctx context.Context, checklists []models.ComplianceChecklist) (int64, error) {
	var inserted int64
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		bi := common.NewBatchInserter(tx,
			`INSERT INTO compliance_checklists (country, industry, name, description, items, tax_deadlines, resources, is_active)`,
			`ON CONFLICT (country, industry) DO NOTHING`,
			8, 50,
		)
		for _, c := range checklists {
			if err := bi.Add(ctx, c.Country, c.Industry, c.Name, c.Description, c.Items, c.TaxDeadlines, c.Resources, true); err != nil {
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
		return 0, fmt.Errorf("checklist repository: insert missing %w", err)
	}
	return inserted, nil
}
