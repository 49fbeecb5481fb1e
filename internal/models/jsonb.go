package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// scanJSON разбирает значение JSONB колонки в dest.
func scanJSON(src interface{}, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("models: неподдерживаемый тип JSONB колонки %T", src)
	}
}

// valueJSON сериализует значение для записи в JSONB колонку.
func valueJSON(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}
