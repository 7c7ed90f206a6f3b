// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// lineTolerance is the vertical distance, in points, beyond which two text
// runs are placed on separate lines.
const lineTolerance = 1.0

// PDFExtractor extracts page text in-process with github.com/ledongthuc/pdf.
type PDFExtractor struct{}

// NewPDFExtractor returns an in-process extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract reads every page of the PDF. Plain text is tried first; pages that
// yield none fall back to their positioned text runs.
func (x *PDFExtractor) Extract(ctx context.Context, r io.ReaderAt, size int64) (pages []types.Page, err error) {
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if rec := recover(); rec != nil {
			pages, err = nil, fmt.Errorf("%w: %v", ErrNotPDF, rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPDF, err)
	}

	n := reader.NumPage()
	pages = make([]types.Page, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages = append(pages, newPage(i, pageText(reader.Page(i))))
	}
	return pages, nil
}

// pageText returns the text of p, or "" for null or unreadable pages.
func pageText(p pdf.Page) (text string) {
	if p.V.IsNull() {
		return ""
	}
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	if plain, err := p.GetPlainText(nil); err == nil && strings.TrimSpace(plain) != "" {
		return plain
	}
	return runsText(p.Content().Text)
}

// runsText joins positioned text runs, breaking lines when the baseline moves.
func runsText(runs []pdf.Text) string {
	var b strings.Builder
	for i, t := range runs {
		if i > 0 && math.Abs(t.Y-runs[i-1].Y) > lineTolerance {
			b.WriteByte('\n')
		}
		b.WriteString(t.S)
	}
	return b.String()
}
