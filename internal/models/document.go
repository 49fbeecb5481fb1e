package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// FieldValues ответы пользователя на поля шаблона: имя поля -> скаляр.
type FieldValues map[string]interface{}

// Scan реализует sql.Scanner.
func (v *FieldValues) Scan(src interface{}) error {
	return scanJSON(src, v)
}

// Value реализует driver.Valuer.
func (v FieldValues) Value() (driver.Value, error) {
	if v == nil {
		return valueJSON(map[string]interface{}{})
	}
	return valueJSON(map[string]interface{}(v))
}

// GeneratedDocument результат применения ответов к шаблону.
type GeneratedDocument struct {
	ID             uuid.UUID   `db:"id" json:"id"`
	UserID         uuid.UUID   `db:"user_id" json:"userId"`
	TemplateID     uuid.UUID   `db:"template_id" json:"templateId"`
	Country        string      `db:"country" json:"country"`
	DocumentType   string      `db:"document_type" json:"documentType"`
	Industry       string      `db:"industry" json:"industry"`
	Title          string      `db:"title" json:"title"`
	Content        string      `db:"content" json:"content"`
	FieldValues    FieldValues `db:"field_values" json:"fieldValues"`
	IsSaved        bool        `db:"is_saved" json:"isSaved"`
	IsWatermarked  bool        `db:"is_watermarked" json:"isWatermarked"`
	LastAccessedAt *time.Time  `db:"last_accessed_at" json:"lastAccessedAt,omitempty"`
	CreatedAt      time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updatedAt"`
}

// PurgedDocument строка, удалённая при очистке черновиков.
type PurgedDocument struct {
	ID     uuid.UUID `db:"id"`
	UserID uuid.UUID `db:"user_id"`
}

// DocumentSummary краткое представление документа для списков и аналитики.
type DocumentSummary struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	Country       string    `db:"country" json:"country"`
	DocumentType  string    `db:"document_type" json:"documentType"`
	Industry      string    `db:"industry" json:"industry"`
	IsSaved       bool      `db:"is_saved" json:"isSaved"`
	IsWatermarked bool      `db:"is_watermarked" json:"isWatermarked"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}
