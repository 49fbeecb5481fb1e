package render

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_SimpleSubstitution(t *testing.T) {
	out := Render("Hello {{name}}", map[string]interface{}{"name": "Ann"})
	assert.Equal(t, "Hello Ann", out)
}

func TestRender_ReplacesEveryOccurrence(t *testing.T) {
	out := Render("{{name}} and {{name}} again", map[string]interface{}{"name": "Bob"})
	assert.Equal(t, "Bob and Bob again", out)
}

func TestRender_TotalFromAmountAndTaxRate(t *testing.T) {
	out := Render("Total: {{total}}", map[string]interface{}{"amount": 100, "taxRate": 10})
	assert.Equal(t, "Total: 110.00", out)
}

func TestRender_DerivedAliasesForInvoice(t *testing.T) {
	body := "Subtotal: ${{amount}}\nTax ({{taxRate}}%): ${{taxAmount}}\nTOTAL: ${{totalAmount}}"
	out := Render(body, map[string]interface{}{"amount": "1500", "taxRate": "8.25"})
	assert.Equal(t, "Subtotal: $1500\nTax (8.25%): $123.75\nTOTAL: $1623.75", out)
}

func TestRender_EmptyValueBecomesPlaceholder(t *testing.T) {
	cases := []interface{}{"", "   ", nil}
	for _, v := range cases {
		out := Render("Client: {{clientName}}", map[string]interface{}{"clientName": v})
		assert.Equal(t, "Client: "+NotProvided, out, "value %#v", v)
	}
}

func TestRender_MissingTemplateFieldBecomesPlaceholder(t *testing.T) {
	values := Complete(map[string]interface{}{"a": "x"}, []string{"a", "b"})
	out := Render("{{a}}-{{b}}", values)
	assert.Equal(t, "x-"+NotProvided, out)
}

func TestRender_OrphanTokensLeftVerbatim(t *testing.T) {
	out := Render("{{known}} {{unknown}}", map[string]interface{}{"known": "yes"})
	assert.Equal(t, "yes {{unknown}}", out)
}

func TestRender_ExtraKeysTolerated(t *testing.T) {
	out := Render("Plain text", map[string]interface{}{"extra": "ignored"})
	assert.Equal(t, "Plain text", out)
}

func TestRender_ValuesAreNotRescanned(t *testing.T) {
	out := Render("{{a}} {{b}}", map[string]interface{}{"a": "{{b}}", "b": "B"})
	assert.Equal(t, "{{b}} B", out)
}

func TestRender_NumberFormatting(t *testing.T) {
	out := Render("{{n}} {{f}} {{j}}", map[string]interface{}{
		"n": float64(5000),
		"f": 12.5,
		"j": json.Number("42"),
	})
	assert.Equal(t, "5000 12.5 42", out)
}

func TestRender_EmptyTaxRateMeansZero(t *testing.T) {
	out := Render("{{tax}}|{{total}}", map[string]interface{}{"amount": 250, "taxRate": ""})
	assert.Equal(t, "0.00|250.00", out)
}

func TestRender_NoDerivedWithoutTaxRate(t *testing.T) {
	out := Render("{{total}}", map[string]interface{}{"amount": 250})
	assert.Equal(t, "{{total}}", out)
}

func TestRender_NonNumericAmountSkipsDerived(t *testing.T) {
	out := Render("{{total}}", map[string]interface{}{"amount": "lots", "taxRate": 5})
	assert.Equal(t, "{{total}}", out)
}

func TestRender_DoesNotMutateInput(t *testing.T) {
	values := map[string]interface{}{"amount": 10, "taxRate": 10}
	Render("{{total}}", values)
	_, has := values["total"]
	assert.False(t, has)
	assert.Len(t, values, 2)
}

func TestRender_Idempotent(t *testing.T) {
	body := "{{a}} {{b}} {{c}} {{total}} {{d}}"
	values := map[string]interface{}{"a": "1", "b": 2, "c": nil, "amount": 99.99, "taxRate": 7}
	first := Render(body, values)
	for i := 0; i < 50; i++ {
		require.Equal(t, first, Render(body, values))
	}
}

func TestTotals_RoundingProperty(t *testing.T) {
	amounts := []float64{0, 0.01, 1, 9.99, 100, 1234.56, 99999.99}
	rates := []float64{0, 0.5, 5, 7.25, 18, 33.333, 100}
	for _, a := range amounts {
		for _, r := range rates {
			tax, total := Totals(a, r)
			wantTax := round2(a * r / 100)
			assert.Equal(t, wantTax, tax, "tax amount=%v rate=%v", a, r)
			assert.Equal(t, round2(a+wantTax), total, "total amount=%v rate=%v", a, r)

			out := Render("{{tax}}/{{total}}", map[string]interface{}{"amount": a, "taxRate": r})
			assert.Equal(t, fmt.Sprintf("%.2f/%.2f", wantTax, round2(a+wantTax)), out)
		}
	}
}

func TestToFloat(t *testing.T) {
	f, ok := ToFloat(" 12.5 ")
	assert.True(t, ok)
	assert.Equal(t, 12.5, f)

	_, ok = ToFloat("abc")
	assert.False(t, ok)

	_, ok = ToFloat(true)
	assert.False(t, ok)
}
