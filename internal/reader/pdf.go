// Package reader turns raw PDF byte streams into the inputs the extraction
// pipeline needs: a digital/scan classification, a layout-preserving
// markdown rendition of the text layer, and a first-page raster for OCR.
package reader

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnreadable is returned when the byte stream cannot be opened as a PDF.
// Callers must be able to tell a corrupt upload apart from a scan with no
// text layer.
var ErrUnreadable = errors.New("unreadable pdf document")

// Type labels the two document classes the pipeline distinguishes.
type Type string

const (
	// TypeDigital marks a born-digital PDF with an extractable text layer.
	TypeDigital Type = "digital"
	// TypeScan marks an image-only PDF that needs OCR.
	TypeScan Type = "scan"
)

// textThreshold is the minimum number of extractable characters for a PDF
// to count as digital. Scans carry no text layer, or only a few stray
// characters from watermarks and stamps.
const textThreshold = 30

// DetectType classifies a PDF as digital or scan by measuring how much text
// its pages yield.
func DetectType(data []byte) (Type, error) {
	text, err := PlainText(data)
	if err != nil {
		return "", err
	}
	if len(strings.TrimSpace(text)) >= textThreshold {
		return TypeDigital, nil
	}
	return TypeScan, nil
}

// PlainText concatenates the raw text content of all pages. Pages that fail
// to decode are skipped; only a document that cannot be opened at all is an
// error.
func PlainText(data []byte) (string, error) {
	r, err := open(data)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(content)
	}
	return sb.String(), nil
}

func open(data []byte) (r *pdf.Reader, err error) {
	// The underlying parser panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			r = nil
			err = fmt.Errorf("%w: %v", ErrUnreadable, rec)
		}
	}()

	r, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return r, nil
}
