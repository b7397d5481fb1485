// Package pipeline sequences classification, text extraction, structured
// extraction and validation for one PDF document.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/arznote/arznote/internal/extract"
	"github.com/arznote/arznote/internal/invoice"
	"github.com/arznote/arznote/internal/reader"
	"github.com/arznote/arznote/internal/validate"
)

// InvoiceExtractor is the structured-extraction step the pipeline depends on.
type InvoiceExtractor interface {
	Extract(ctx context.Context, text, model string) (*invoice.Invoice, error)
}

// Result is the outcome of one pipeline run. Invoice is nil when the model's
// answer was not schema-conformant; the report is then empty. That case is a
// representable outcome, not an error.
type Result struct {
	Invoice    *invoice.Invoice
	Validation validate.Report
	PDFType    reader.Type
}

// Pipeline runs the extraction steps in order. One instance serves
// concurrent requests; it holds no per-request state.
type Pipeline struct {
	digital    extract.TextExtractor
	scan       extract.TextExtractor
	structured InvoiceExtractor
	detect     func(data []byte) (reader.Type, error)
}

// New wires a pipeline from its three extraction stages.
func New(digital, scan extract.TextExtractor, structured InvoiceExtractor) *Pipeline {
	return &Pipeline{
		digital:    digital,
		scan:       scan,
		structured: structured,
		detect:     reader.DetectType,
	}
}

// Process runs classification, text extraction, structured extraction and
// validation in order.
// Errors are reserved for unreadable documents and unavailable services;
// a document the model could not parse comes back as a nil Invoice with an
// empty report.
func (p *Pipeline) Process(ctx context.Context, data []byte, model string) (Result, error) {
	pdfType, err := p.detect(data)
	if err != nil {
		return Result{Validation: validate.EmptyReport()}, err
	}

	var text string
	switch pdfType {
	case reader.TypeDigital:
		text, err = p.digital.Extract(ctx, data)
	default:
		text, err = p.scan.Extract(ctx, data)
	}
	if err != nil {
		return Result{Validation: validate.EmptyReport(), PDFType: pdfType},
			fmt.Errorf("extract text (%s): %w", pdfType, err)
	}

	inv, err := p.structured.Extract(ctx, text, model)
	if errors.Is(err, extract.ErrNotConformant) {
		return Result{Validation: validate.EmptyReport(), PDFType: pdfType}, nil
	}
	if err != nil {
		return Result{Validation: validate.EmptyReport(), PDFType: pdfType}, err
	}

	return Result{
		Invoice:    inv,
		Validation: validate.Check(inv),
		PDFType:    pdfType,
	}, nil
}
