// Package render подставляет ответы пользователя в тело шаблона документа.
//
// Поддерживается только плоская подстановка {{name}}: без циклов, условий и
// вложенных конструкций. Рендер никогда не возвращает ошибку.
package render

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// NotProvided подставляется вместо пустых и отсутствующих значений.
const NotProvided = "[NOT PROVIDED]"

// Имена полей, участвующих в расчёте налога.
const (
	FieldAmount      = "amount"
	FieldTaxRate     = "taxRate"
	FieldTax         = "tax"
	FieldTotal       = "total"
	FieldTaxAmount   = "taxAmount"
	FieldTotalAmount = "totalAmount"
)

// Render заменяет каждое вхождение {{key}} значением key из values.
// Токены без соответствующего ключа остаются в тексте как есть.
func Render(body string, values map[string]interface{}) string {
	vals := WithDerived(values)
	if len(vals) == 0 {
		return body
	}

	keys := make([]string, 0, len(vals))
	for k := range vals {
		if k == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "{{"+k+"}}", Stringify(vals[k]))
	}

	// Один проход: подставленные значения повторно не сканируются.
	return strings.NewReplacer(pairs...).Replace(body)
}

// WithDerived возвращает копию values с рассчитанными tax и total,
// если в наборе есть числовой amount и ключ taxRate.
// Пустой taxRate считается нулевой ставкой.
func WithDerived(values map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(values)+4)
	for k, v := range values {
		out[k] = v
	}

	amount, ok := ToFloat(values[FieldAmount])
	if !ok {
		return out
	}
	rawRate, hasRate := values[FieldTaxRate]
	if !hasRate {
		return out
	}
	rate, ok := ToFloat(rawRate)
	if !ok {
		if Stringify(rawRate) != NotProvided {
			return out
		}
		rate = 0
	}

	tax, total := Totals(amount, rate)
	out[FieldTax] = formatMoney(tax)
	out[FieldTotal] = formatMoney(total)
	out[FieldTaxAmount] = formatMoney(tax)
	out[FieldTotalAmount] = formatMoney(total)
	return out
}

// Complete добавляет пустые значения для полей шаблона, которых нет в values,
// чтобы на их месте в документе оказался NotProvided. Исходная карта не меняется.
func Complete(values map[string]interface{}, fieldNames []string) map[string]interface{} {
	out := make(map[string]interface{}, len(values)+len(fieldNames))
	for k, v := range values {
		out[k] = v
	}
	for _, name := range fieldNames {
		if _, ok := out[name]; !ok {
			out[name] = ""
		}
	}
	return out
}

// Totals считает налог и итог с округлением до двух знаков.
func Totals(amount, ratePercent float64) (tax, total float64) {
	tax = round2(amount * ratePercent / 100)
	total = round2(amount + tax)
	return tax, total
}

// Stringify приводит скалярное значение к строке.
// nil, пустая строка и строка из пробелов превращаются в NotProvided.
func Stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return NotProvided
	case string:
		if strings.TrimSpace(val) == "" {
			return NotProvided
		}
		return val
	case float64:
		return formatFloat(val)
	case float32:
		return formatFloat(float64(val))
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case json.Number:
		if val.String() == "" {
			return NotProvided
		}
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// ToFloat пытается прочитать число из значения поля.
func ToFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, !math.IsNaN(val) && !math.IsInf(val, 0)
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// formatFloat печатает целые числа без дробной части: 100, а не 100.000000.
func formatFloat(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
