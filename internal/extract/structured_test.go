package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arznote/arznote/internal/config"
	"github.com/arznote/arznote/internal/llm"
)

// newExtractorWithAnswer spins up a fake chat endpoint that always answers
// with the given content and returns an extractor wired to it.
func newExtractorWithAnswer(t *testing.T, content string, lastReq *map[string]any) (*StructuredExtractor, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if lastReq != nil {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			*lastReq = body
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}))

	client, err := llm.NewClient(&config.ProviderConfig{
		BaseURL: srv.URL, APIKey: "test", Model: "qwen3:4b",
	})
	require.NoError(t, err)
	ex, err := NewStructuredExtractor(client)
	require.NoError(t, err)
	return ex, srv.Close
}

const sampleAnswer = `{
	"invoice_date": "07.03.2025",
	"invoice_number": "RE-1234-2025",
	"document_type": "Honorarnote",
	"doctor": {"title": "Dr.", "first_name": "Eva", "last_name": "Huber",
		"specialty": "Allgemeinmedizin", "practice_name": null,
		"practice_address": "Hauptstraße 1, 1010 Wien",
		"phone": null, "email": null, "uid": "ATU12345678"},
	"patient": {"first_name": "Max", "last_name": "Muster",
		"date_of_birth": "1965-07-22", "social_security_number": "1234 150378"},
	"diagnosis": "Gastritis (K29)",
	"treatments": [{"code": "Ö1", "description": "Ordination", "amount": 80}],
	"total_amount": 80,
	"payment_method": "cash",
	"iban": null
}`

func TestStructuredExtractor_Extract(t *testing.T) {
	var lastReq map[string]any
	ex, done := newExtractorWithAnswer(t, sampleAnswer, &lastReq)
	defer done()

	inv, err := ex.Extract(context.Background(), "Honorarnote ...", "")
	require.NoError(t, err)
	require.NotNil(t, inv)

	require.NotNil(t, inv.InvoiceDate)
	assert.Equal(t, 2025, inv.InvoiceDate.Year())
	require.NotNil(t, inv.Patient)
	require.NotNil(t, inv.Patient.DateOfBirth)
	assert.Equal(t, 1965, inv.Patient.DateOfBirth.Year())
	require.Len(t, inv.Treatments, 1)
	assert.Equal(t, 80.0, *inv.Treatments[0].Amount)
	assert.Equal(t, "cash", *inv.PaymentMethod)

	// The system prompt must carry the extraction rules and the schema.
	msgs := lastReq["messages"].([]any)
	system := msgs[0].(map[string]any)["content"].(string)
	assert.Contains(t, system, "Wahlarztrechnungen")
	assert.Contains(t, system, "NEVER calculate the total amount yourself")
	assert.Contains(t, system, `"$defs"`)
	user := msgs[1].(map[string]any)["content"].(string)
	assert.Contains(t, user, "Here is the invoice text:")
}

func TestStructuredExtractor_WrappedAnswer(t *testing.T) {
	// Fences and reasoning noise around the JSON must not break parsing.
	ex, done := newExtractorWithAnswer(t, "<think>ok</think>```json\n"+sampleAnswer+"\n```", nil)
	defer done()

	inv, err := ex.Extract(context.Background(), "text", "")
	require.NoError(t, err)
	assert.NotNil(t, inv)
}

func TestStructuredExtractor_InvalidDateBecomesAbsent(t *testing.T) {
	ex, done := newExtractorWithAnswer(t, `{"invoice_date": "31.02.2025", "patient": {"date_of_birth": "im Sommer 1965"}}`, nil)
	defer done()

	inv, err := ex.Extract(context.Background(), "text", "")
	require.NoError(t, err)
	assert.Nil(t, inv.InvoiceDate)
	assert.Nil(t, inv.Patient.DateOfBirth)
}

func TestStructuredExtractor_NotConformant(t *testing.T) {
	tests := []struct {
		name   string
		answer string
	}{
		{name: "malformed json", answer: `{"invoice_date": `},
		{name: "prose only", answer: "I could not find an invoice in this text."},
		{name: "wrong type", answer: `{"total_amount": "185,50"}`},
		{name: "payment outside enum", answer: `{"payment_method": "Überweisung"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, done := newExtractorWithAnswer(t, tt.answer, nil)
			defer done()

			inv, err := ex.Extract(context.Background(), "text", "")
			assert.ErrorIs(t, err, ErrNotConformant)
			assert.Nil(t, inv)
		})
	}
}

func TestStructuredExtractor_ServiceDownIsNotConformance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such model", http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := llm.NewClient(&config.ProviderConfig{BaseURL: srv.URL, APIKey: "test", Model: "qwen3:4b"})
	require.NoError(t, err)
	ex, err := NewStructuredExtractor(client)
	require.NoError(t, err)

	_, err = ex.Extract(context.Background(), "text", "")
	assert.ErrorIs(t, err, llm.ErrUnavailable)
	assert.NotErrorIs(t, err, ErrNotConformant)
}

func TestStructuredExtractor_ModelSelection(t *testing.T) {
	var lastReq map[string]any
	ex, done := newExtractorWithAnswer(t, `{}`, &lastReq)
	defer done()

	_, err := ex.Extract(context.Background(), "text", "qwen3:8b")
	require.NoError(t, err)
	assert.Equal(t, "qwen3:8b", lastReq["model"])

	_, err = ex.Extract(context.Background(), "text", "")
	require.NoError(t, err)
	assert.Equal(t, "qwen3:4b", lastReq["model"])
}
