package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/arznote/arznote/internal/invoice"
	"github.com/arznote/arznote/internal/llm"
)

// ErrNotConformant is returned when the model answered but its output does
// not parse and validate as an invoice. This is a normal, representable
// outcome (the document was too hard), never a hard failure; service-level
// problems surface as llm.ErrUnavailable instead.
var ErrNotConformant = errors.New("model response does not conform to invoice schema")

const systemPromptHeader = `You are an expert in extracting information from Austrian private doctor's invoices (Wahlarztrechnungen).
Rules:
- If a field is not present in the invoice, use null
- NEVER calculate the total amount yourself. Always take it directly from the invoice
- NEVER include the total sum row as a treatment item
- If a treatment description looks like a misspelling of "Summe" or "Gesamt" (e.g. 'Sunne'), treat it as the total amount instead
- Date of birth format: DD.MM.YYYY as it appears on the invoice, e.g. '22.07.1965'
- Invoice date format: DD.MM.YYYY as it appears on the invoice
- payment_method: ONLY 'cash' or 'bank transfer', nothing else

Extract the following JSON structure:
`

// StructuredExtractor sends invoice text to the extraction model and parses
// the schema-constrained response into a typed invoice.
type StructuredExtractor struct {
	client       *llm.Client
	schema       *jsonschema.Schema
	systemPrompt string
}

// NewStructuredExtractor compiles the invoice schema and renders the fixed
// system prompt once.
func NewStructuredExtractor(client *llm.Client) (*StructuredExtractor, error) {
	schemaMap := InvoiceSchema()
	schema, err := compileSchema(schemaMap)
	if err != nil {
		return nil, err
	}
	schemaJSON, err := json.MarshalIndent(schemaMap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render schema prompt: %w", err)
	}
	return &StructuredExtractor{
		client:       client,
		schema:       schema,
		systemPrompt: systemPromptHeader + string(schemaJSON),
	}, nil
}

// Extract issues one deterministic JSON-mode request and strictly parses the
// answer. The model identifier is caller-selectable; empty means the client
// default. No retries: a single unusable answer yields ErrNotConformant.
func (e *StructuredExtractor) Extract(ctx context.Context, text, model string) (*invoice.Invoice, error) {
	raw, err := e.client.ChatJSON(ctx, model, e.systemPrompt, "Here is the invoice text:\n\n"+text)
	if errors.Is(err, llm.ErrEmptyResponse) {
		return nil, fmt.Errorf("%w: empty response", ErrNotConformant)
	}
	if err != nil {
		return nil, err
	}

	body := []byte(llm.JSONBody(raw))

	var generic any
	if err := json.Unmarshal(body, &generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConformant, err)
	}
	if err := e.schema.Validate(generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConformant, err)
	}

	var inv invoice.Invoice
	if err := json.Unmarshal(body, &inv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConformant, err)
	}
	inv.Normalize()
	return &inv, nil
}
