package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// TemplateField описывает одно поле формы шаблона.
type TemplateField struct {
	Name        string   `json:"name" yaml:"name"`
	Label       string   `json:"label" yaml:"label"`
	Type        string   `json:"type" yaml:"type"`
	Required    bool     `json:"required" yaml:"required"`
	Placeholder string   `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty" yaml:"options,omitempty"`
	// Min и Max границы для числовых полей.
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// TemplateFields упорядоченный список полей, хранится в JSONB.
type TemplateFields []TemplateField

// Scan реализует sql.Scanner.
func (f *TemplateFields) Scan(src interface{}) error {
	return scanJSON(src, f)
}

// Value реализует driver.Valuer.
func (f TemplateFields) Value() (driver.Value, error) {
	if f == nil {
		return valueJSON([]TemplateField{})
	}
	return valueJSON([]TemplateField(f))
}

// Names возвращает имена полей в порядке объявления.
func (f TemplateFields) Names() []string {
	names := make([]string, 0, len(f))
	for _, field := range f {
		names = append(names, field.Name)
	}
	return names
}

// DocumentTemplate шаблон документа для страны, типа и отрасли.
type DocumentTemplate struct {
	ID              uuid.UUID      `db:"id" json:"id"`
	Country         string         `db:"country" json:"country"`
	DocumentType    string         `db:"document_type" json:"documentType"`
	Industry        string         `db:"industry" json:"industry"`
	Name            string         `db:"name" json:"name"`
	Description     string         `db:"description" json:"description"`
	Fields          TemplateFields `db:"fields" json:"fields"`
	TemplateContent string         `db:"template_content" json:"-"`
	Version         int            `db:"version" json:"version"`
	IsActive        bool           `db:"is_active" json:"isActive"`
	CreatedAt       time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updatedAt"`
}

// TemplateKey ключ поиска шаблона.
type TemplateKey struct {
	Country      string
	DocumentType string
	Industry     string
}

// Key возвращает ключ шаблона.
func (t *DocumentTemplate) Key() TemplateKey {
	return TemplateKey{Country: t.Country, DocumentType: t.DocumentType, Industry: t.Industry}
}

// String используется как ключ кэша.
func (k TemplateKey) String() string {
	return k.Country + "/" + k.DocumentType + "/" + k.Industry
}
