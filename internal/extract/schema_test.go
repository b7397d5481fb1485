package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validateDoc(t *testing.T, doc string) error {
	t.Helper()
	schema, err := compileSchema(InvoiceSchema())
	require.NoError(t, err)

	var v any
	require.NoError(t, json.Unmarshal([]byte(doc), &v))
	return schema.Validate(v)
}

func TestInvoiceSchema_Compiles(t *testing.T) {
	_, err := compileSchema(InvoiceSchema())
	require.NoError(t, err)
}

func TestInvoiceSchema_AcceptsFullDocument(t *testing.T) {
	err := validateDoc(t, `{
		"invoice_date": "07.03.2025",
		"invoice_number": "RE-1234-2025",
		"document_type": "Honorarnote",
		"doctor": {"title": "Dr.", "first_name": "Eva", "last_name": "Huber",
			"specialty": "Allgemeinmedizin", "practice_name": null,
			"practice_address": "Hauptstraße 1, 1010 Wien",
			"phone": null, "email": null, "uid": "ATU12345678"},
		"patient": {"first_name": "Max", "last_name": "Muster",
			"date_of_birth": "22.07.1965", "social_security_number": "1234 150378"},
		"diagnosis": "Gastritis (K29)",
		"treatments": [
			{"code": "Ö1", "description": "Ordination", "amount": 80},
			{"code": null, "description": "Infusion", "amount": 105.5}
		],
		"total_amount": 185.5,
		"payment_method": "bank transfer",
		"iban": "AT611904300234573201"
	}`)
	assert.NoError(t, err)
}

func TestInvoiceSchema_AcceptsAllNulls(t *testing.T) {
	assert.NoError(t, validateDoc(t, `{
		"invoice_date": null, "invoice_number": null, "document_type": null,
		"doctor": null, "patient": null, "diagnosis": null,
		"treatments": null, "total_amount": null,
		"payment_method": null, "iban": null
	}`))
	// Omitted fields are as acceptable as explicit nulls.
	assert.NoError(t, validateDoc(t, `{}`))
}

func TestInvoiceSchema_RejectsWrongTypes(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "total as string", doc: `{"total_amount": "185,50"}`},
		{name: "treatments as object", doc: `{"treatments": {"a": 1}}`},
		{name: "treatment amount as string", doc: `{"treatments": [{"amount": "80"}]}`},
		{name: "payment method outside enum", doc: `{"payment_method": "Überweisung"}`},
		{name: "doctor as string", doc: `{"doctor": "Dr. Huber"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, validateDoc(t, tt.doc))
		})
	}
}
