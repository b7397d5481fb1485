package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// InvoiceSchema is the structural contract for the model's answer, as a
// generic map. It is serialized into the system prompt for the model to
// follow and compiled locally to validate what comes back. Field
// descriptions double as extraction hints.
func InvoiceSchema() map[string]any {
	return map[string]any{
		"$defs": map[string]any{
			"Doctor": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":            nullableString("Academic or medical title, e.g. 'Dr.', 'Prim.', 'Univ.-Prof. Dr.'"),
					"first_name":       nullableString("First name of the doctor"),
					"last_name":        nullableString("Last name of the doctor"),
					"specialty":        nullableString("Medical specialty, e.g. 'Allgemeinmedizin', 'Innere Medizin', 'Dermatologie'"),
					"practice_name":    nullableString("Name of the medical practice if explicitly stated, not the doctor's name"),
					"practice_address": nullableString("Full address including street, number, postal code and city"),
					"phone":            nullableString("Phone number of the practice"),
					"email":            nullableString("Email address of the practice"),
					"uid":              nullableString("Austrian VAT number, format: ATU + 8 digits, e.g. 'ATU12345678'"),
				},
			},
			"Patient": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"first_name":             nullableString("First name of the patient"),
					"last_name":              nullableString("Last name of the patient"),
					"date_of_birth":          nullableString("Date of birth, format DD.MM.YYYY"),
					"social_security_number": nullableString("Austrian SVNR, format: '1234 150378'"),
				},
			},
			"Treatment": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"code":        nullableString("Medical service code e.g. 'Ö1', 'L100'. Use null if not present."),
					"description": nullableString("Description of the medical service performed"),
					"amount":      nullableNumber("Cost of this treatment as decimal. Never include the total sum row."),
				},
			},
		},
		"type": "object",
		"properties": map[string]any{
			"invoice_date":   nullableString("Date the invoice was issued, format DD.MM.YYYY"),
			"invoice_number": nullableString("Invoice reference number, e.g. 'RE-1234-2025'"),
			"document_type":  nullableString("Typically one of: 'Rechnung', 'Honorarnote', 'Arzthonorar', 'Privatrechnung'"),
			"doctor": map[string]any{
				"anyOf":       []any{map[string]any{"$ref": "#/$defs/Doctor"}, map[string]any{"type": "null"}},
				"description": "Details of the issuing doctor",
			},
			"patient": map[string]any{
				"anyOf":       []any{map[string]any{"$ref": "#/$defs/Patient"}, map[string]any{"type": "null"}},
				"description": "Details of the patient",
			},
			"diagnosis": nullableString("Medical diagnosis, include ICD-10 code if present, e.g. 'Gastritis (K29)'"),
			"treatments": map[string]any{
				"type":        []any{"array", "null"},
				"items":       map[string]any{"$ref": "#/$defs/Treatment"},
				"description": "List of treatments. Never include the total sum row as a treatment item.",
			},
			"total_amount": nullableNumber("Total invoice amount as decimal. ALWAYS take this value directly from the invoice. NEVER calculate it yourself."),
			"payment_method": map[string]any{
				"type":        []any{"string", "null"},
				"enum":        []any{"cash", "bank transfer", nil},
				"description": "ONLY 'cash' or 'bank transfer'. No other text, no IBAN, no account details.",
			},
			"iban": nullableString("IBAN if payment method is bank transfer"),
		},
	}
}

func nullableString(description string) map[string]any {
	return map[string]any{"type": []any{"string", "null"}, "description": description}
}

func nullableNumber(description string) map[string]any {
	return map[string]any{"type": []any{"number", "null"}, "description": description}
}

// compileSchema builds the validator once at extractor construction.
func compileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("invoice.schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("invoice.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}
