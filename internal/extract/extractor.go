// Package extract produces text from classified PDFs and turns that text
// into a typed invoice via a schema-constrained model call.
package extract

import (
	"context"

	"github.com/arznote/arznote/internal/llm"
	"github.com/arznote/arznote/internal/reader"
)

// ocrInstruction is the fixed prompt for the vision model. German, like the
// invoices it reads.
const ocrInstruction = "Extrahiere mir den ganzen Text"

// TextExtractor produces a plain/markdown text rendition of a PDF document.
// The two implementations cover the two document classes; the pipeline picks
// one based on classification instead of branching inline.
type TextExtractor interface {
	Extract(ctx context.Context, doc []byte) (string, error)
}

// DigitalExtractor converts the text layer of a born-digital PDF to
// layout-preserving markdown. Deterministic, no service calls.
type DigitalExtractor struct{}

// Extract implements TextExtractor.
func (DigitalExtractor) Extract(_ context.Context, doc []byte) (string, error) {
	return reader.ToMarkdown(doc)
}

// ScanExtractor rasterizes the first page of a scanned PDF and reads it with
// the vision OCR model. The model's text answer is returned verbatim.
type ScanExtractor struct {
	ocr *llm.Client
}

// NewScanExtractor wires the OCR-path extractor to its vision client.
func NewScanExtractor(ocr *llm.Client) *ScanExtractor {
	return &ScanExtractor{ocr: ocr}
}

// Extract implements TextExtractor. OCR service failures surface as
// llm.ErrUnavailable so operators can tell "service down" from "document
// too hard to parse".
func (s *ScanExtractor) Extract(ctx context.Context, doc []byte) (string, error) {
	png, err := reader.FirstPagePNG(doc, reader.RasterScale)
	if err != nil {
		return "", err
	}
	return s.ocr.DescribeImage(ctx, "", ocrInstruction, png)
}
