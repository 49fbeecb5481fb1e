package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// ChecklistItem пункт комплаенс чек-листа.
type ChecklistItem struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
	Priority    string `json:"priority" yaml:"priority"`
	IsRequired  bool   `json:"isRequired" yaml:"isRequired"`
}

// TaxDeadline налоговый срок.
type TaxDeadline struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Frequency   string `json:"frequency" yaml:"frequency"`
	DueDate     string `json:"dueDate" yaml:"dueDate"`
	Penalty     string `json:"penalty,omitempty" yaml:"penalty,omitempty"`
}

// ChecklistResource ссылка на внешний ресурс.
type ChecklistResource struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
	Type  string `json:"type" yaml:"type"`
}

type ChecklistItems []ChecklistItem

func (i *ChecklistItems) Scan(src interface{}) error { return scanJSON(src, i) }

func (i ChecklistItems) Value() (driver.Value, error) {
	if i == nil {
		return valueJSON([]ChecklistItem{})
	}
	return valueJSON([]ChecklistItem(i))
}

type TaxDeadlines []TaxDeadline

func (d *TaxDeadlines) Scan(src interface{}) error { return scanJSON(src, d) }

func (d TaxDeadlines) Value() (driver.Value, error) {
	if d == nil {
		return valueJSON([]TaxDeadline{})
	}
	return valueJSON([]TaxDeadline(d))
}

type ChecklistResources []ChecklistResource

func (r *ChecklistResources) Scan(src interface{}) error { return scanJSON(src, r) }

func (r ChecklistResources) Value() (driver.Value, error) {
	if r == nil {
		return valueJSON([]ChecklistResource{})
	}
	return valueJSON([]ChecklistResource(r))
}

// ComplianceChecklist чек-лист для страны и отрасли.
type ComplianceChecklist struct {
	ID           uuid.UUID          `db:"id" json:"id"`
	Country      string             `db:"country" json:"country"`
	Industry     string             `db:"industry" json:"industry"`
	Name         string             `db:"name" json:"name"`
	Description  string             `db:"description" json:"description"`
	Items        ChecklistItems     `db:"items" json:"items"`
	TaxDeadlines TaxDeadlines       `db:"tax_deadlines" json:"taxDeadlines"`
	Resources    ChecklistResources `db:"resources" json:"resources"`
	IsActive     bool               `db:"is_active" json:"-"`
	CreatedAt    time.Time          `db:"created_at" json:"-"`
	UpdatedAt    time.Time          `db:"updated_at" json:"updatedAt"`
}
