package validation

import (
	"fmt"
	"strings"

	"github.com/ignatzorin/docmint-backend/internal/models"
	"github.com/ignatzorin/docmint-backend/internal/render"
)

// ValidateFieldValues проверяет ответы пользователя по схеме полей шаблона.
// Отсутствующие необязательные поля допустимы. Лишние ключи допустимы,
// но их значения должны быть скалярами.
func ValidateFieldValues(fields models.TemplateFields, values map[string]interface{}) Errors {
	errs := Errors{}

	known := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		known[field.Name] = struct{}{}

		raw, present := values[field.Name]
		if !present || isBlank(raw) {
			if field.Required {
				errs.Add(field.Name, fmt.Errorf("поле %q обязательно", field.Label))
			}
			continue
		}
		errs.Add(field.Name, validateFieldValue(field, raw))
	}

	for key, raw := range values {
		if _, ok := known[key]; ok {
			continue
		}
		if !isScalar(raw) {
			errs.Add(key, fmt.Errorf("значение должно быть строкой, числом или логическим значением"))
		}
	}

	return errs
}

func validateFieldValue(field models.TemplateField, raw interface{}) error {
	if !isScalar(raw) {
		return fmt.Errorf("значение должно быть строкой, числом или логическим значением")
	}

	str := render.Stringify(raw)
	switch field.Type {
	case models.FieldTypeEmail:
		return ValidateEmail(str)
	case models.FieldTypeNumber:
		n, ok := render.ToFloat(raw)
		if !ok {
			return fmt.Errorf("поле %q должно быть числом", field.Label)
		}
		if n < 0 {
			return fmt.Errorf("поле %q не может быть отрицательным", field.Label)
		}
		if field.Min != nil && n < *field.Min {
			return fmt.Errorf("поле %q должно быть не меньше %s", field.Label, render.Stringify(*field.Min))
		}
		if field.Max != nil && n > *field.Max {
			return fmt.Errorf("поле %q должно быть не больше %s", field.Label, render.Stringify(*field.Max))
		}
	case models.FieldTypeDate:
		return ValidateDate(strings.TrimSpace(str))
	case models.FieldTypeSelect:
		if len(field.Options) == 0 {
			return nil
		}
		for _, opt := range field.Options {
			if opt == str {
				return nil
			}
		}
		return fmt.Errorf("недопустимое значение поля %q", field.Label)
	case models.FieldTypeTextarea:
		return ValidateLength(field.Label, str, 0, MaxTextareaLength)
	default:
		return ValidateLength(field.Label, str, 0, MaxTextFieldLength)
	}
	return nil
}

func isBlank(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func isScalar(v interface{}) bool {
	switch v.(type) {
	case nil, string, bool, float64, float32, int, int32, int64:
		return true
	default:
		return false
	}
}
