package reader

import (
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Horizontal gaps are measured in multiples of the current font size.
// A small gap is a word boundary, a wide one a column boundary.
const (
	wordGapFactor   = 0.3
	columnGapFactor = 3.0
	headingFactor   = 1.3
)

// ToMarkdown renders the PDF's text layer as markdown-flavoured plain text.
// Reading order is reconstructed row by row; wide horizontal gaps become
// table-style cell separators and oversized rows become headings, so that
// the downstream language model sees the invoice's visual structure.
// The conversion is deterministic and never calls an external service.
func ToMarkdown(data []byte) (string, error) {
	r, err := open(data)
	if err != nil {
		return "", err
	}

	var pages []string
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		md, err := pageMarkdown(page)
		if err != nil || md == "" {
			// Fall back to the raw text layer for pages the row
			// reconstruction cannot handle.
			if content, perr := page.GetPlainText(nil); perr == nil {
				md = content
			}
		}
		if strings.TrimSpace(md) != "" {
			pages = append(pages, md)
		}
	}
	return strings.Join(pages, "\n\n---\n\n"), nil
}

func pageMarkdown(page pdf.Page) (string, error) {
	rows, err := page.GetTextByRow()
	if err != nil {
		return "", err
	}

	body := bodyFontSize(rows)

	var sb strings.Builder
	// Rows come ordered top of page first (descending Y position).
	sort.Slice(rows, func(i, j int) bool { return rows[i].Position > rows[j].Position })

	for _, row := range rows {
		texts := append([]pdf.Text(nil), row.Content...)
		sort.Slice(texts, func(i, j int) bool { return texts[i].X < texts[j].X })

		line, cells, maxSize := assembleRow(texts)
		if strings.TrimSpace(line) == "" {
			continue
		}
		if cells > 1 {
			sb.WriteString("| " + line + " |\n")
			continue
		}
		if body > 0 && maxSize > headingFactor*body {
			sb.WriteString("## " + line + "\n")
			continue
		}
		sb.WriteString(line + "\n")
	}
	return sb.String(), nil
}

// assembleRow joins the positioned text fragments of one row into a line,
// inserting spaces at word gaps and " | " separators at column gaps.
func assembleRow(texts []pdf.Text) (line string, cells int, maxSize float64) {
	var sb strings.Builder
	cells = 1

	var prev *pdf.Text
	for i := range texts {
		t := texts[i]
		if t.S == "" {
			continue
		}
		if t.FontSize > maxSize {
			maxSize = t.FontSize
		}
		if prev != nil {
			gap := t.X - (prev.X + prev.W)
			size := prev.FontSize
			if size <= 0 {
				size = t.FontSize
			}
			switch {
			case size > 0 && gap > columnGapFactor*size:
				sb.WriteString(" | ")
				cells++
			case size > 0 && gap > wordGapFactor*size:
				sb.WriteString(" ")
			}
		}
		sb.WriteString(t.S)
		prev = &texts[i]
	}
	return strings.TrimSpace(sb.String()), cells, maxSize
}

// bodyFontSize estimates the dominant font size of a page, used as the
// baseline for heading detection.
func bodyFontSize(rows pdf.Rows) float64 {
	counts := map[float64]int{}
	for _, row := range rows {
		for _, t := range row.Content {
			if t.FontSize > 0 {
				counts[t.FontSize]++
			}
		}
	}
	var best float64
	var bestCount int
	for size, n := range counts {
		if n > bestCount {
			best, bestCount = size, n
		}
	}
	return best
}
