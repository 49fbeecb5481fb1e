package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/docmint-backend/internal/models"
)

func TestValidatePassword(t *testing.T) {
	cases := map[string]bool{
		"Password1":  true,
		"password1":  false,
		"PASSWORD1":  false,
		"Password":   false,
		"Pa1":        false,
		"Пароль123A": true,
	}
	for pass, ok := range cases {
		err := ValidatePassword(pass)
		if ok {
			assert.NoError(t, err, pass)
		} else {
			assert.Error(t, err, pass)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("Ann.Lee+docs@Example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("no-at-sign"))
	assert.Error(t, ValidateEmail("a@b@c.com"))
	assert.Error(t, ValidateEmail("user@localhost"))
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Jo"))
	assert.Error(t, ValidateName(" J "))
	assert.Error(t, ValidateName(""))
}

func TestValidateEnum(t *testing.T) {
	assert.NoError(t, ValidateEnum("country", "US", models.ValidCountries))
	assert.Error(t, ValidateEnum("country", "UK", models.ValidCountries))
	assert.Error(t, ValidateEnum("country", "", models.ValidCountries))
}

func invoiceFields() models.TemplateFields {
	return models.TemplateFields{
		{Name: "clientName", Label: "Client Name", Type: models.FieldTypeText, Required: true},
		{Name: "clientEmail", Label: "Client Email", Type: models.FieldTypeEmail},
		{Name: "amount", Label: "Amount", Type: models.FieldTypeNumber, Required: true},
		{Name: "dueDate", Label: "Due Date", Type: models.FieldTypeDate},
		{Name: "terms", Label: "Terms", Type: models.FieldTypeSelect, Options: []string{"Net 15", "Net 30"}},
	}
}

func TestValidateFieldValues_Valid(t *testing.T) {
	errs := ValidateFieldValues(invoiceFields(), map[string]interface{}{
		"clientName": "Acme",
		"amount":     "1500",
		"dueDate":    "2025-01-31",
		"terms":      "Net 30",
		"extra":      "allowed",
	})
	assert.True(t, errs.Empty(), "%v", errs)
}

func TestValidateFieldValues_MissingRequired(t *testing.T) {
	errs := ValidateFieldValues(invoiceFields(), map[string]interface{}{
		"clientName": "  ",
	})
	assert.Contains(t, errs, "clientName")
	assert.Contains(t, errs, "amount")
	assert.NotContains(t, errs, "clientEmail")
}

func TestValidateFieldValues_TypeErrors(t *testing.T) {
	errs := ValidateFieldValues(invoiceFields(), map[string]interface{}{
		"clientName":  "Acme",
		"clientEmail": "nope",
		"amount":      "ten",
		"dueDate":     "31/01/2025",
		"terms":       "Net 90",
		"nested":      map[string]interface{}{"a": 1},
	})
	for _, key := range []string{"clientEmail", "amount", "dueDate", "terms", "nested"} {
		assert.Contains(t, errs, key)
	}
}

func TestValidateFieldValues_NegativeNumber(t *testing.T) {
	errs := ValidateFieldValues(invoiceFields(), map[string]interface{}{
		"clientName": "Acme",
		"amount":     -5.0,
	})
	assert.Contains(t, errs, "amount")
}

func TestValidateFieldValues_NumberBounds(t *testing.T) {
	lo, hi := 0.0, 100.0
	fields := append(invoiceFields(), models.TemplateField{
		Name: "taxRate", Label: "Tax Rate", Type: models.FieldTypeNumber, Min: &lo, Max: &hi,
	})

	errs := ValidateFieldValues(fields, map[string]interface{}{
		"clientName": "Acme", "amount": 100.0, "taxRate": 250.0,
	})
	assert.Contains(t, errs, "taxRate")
	assert.NotContains(t, errs, "amount")

	errs = ValidateFieldValues(fields, map[string]interface{}{
		"clientName": "Acme", "amount": 100.0, "taxRate": "100",
	})
	assert.True(t, errs.Empty())
}
