// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest turns PDF documents into segmented pages with pluggable
// extraction backends, and stores pages as YAML page files.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-digest/internal/textnorm"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// pageFileExt is the extension of page files written by ExtractBatch.
const pageFileExt = ".yaml"

// ErrNotPDF is returned when the input does not parse as a PDF document.
var ErrNotPDF = errors.New("input is not a valid PDF document")

// Extractor turns a PDF document into pages. Page numbers are 1-based and
// stable: a page with no text still yields an empty Page.
type Extractor interface {
	Extract(ctx context.Context, r io.ReaderAt, size int64) ([]types.Page, error)
}

// Status is the outcome of extracting one file in a batch.
type Status string

const (
	StatusExtracted Status = "extracted"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// BatchResult holds the outcome of a batch extraction run.
type BatchResult struct {
	Extracted int
	Skipped   int
	Failed    int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Extracted + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed extraction.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// newPage builds a page from raw extracted text.
func newPage(number int, raw string) types.Page {
	text := strings.TrimSpace(textnorm.Clean(raw))
	return types.Page{
		Number:    number,
		Text:      text,
		Sentences: textnorm.SplitSentences(text),
	}
}

// Truncate keeps the first maxPages pages and cuts each page's text to
// maxPageChars runes, re-splitting sentences of cut pages. A zero limit
// disables that cut. The input slice is not modified.
func Truncate(pages []types.Page, maxPages, maxPageChars int) []types.Page {
	if maxPages > 0 && len(pages) > maxPages {
		pages = pages[:maxPages]
	}
	out := make([]types.Page, len(pages))
	for i, p := range pages {
		out[i] = p
		if maxPageChars <= 0 {
			continue
		}
		runes := []rune(p.Text)
		if len(runes) <= maxPageChars {
			continue
		}
		out[i] = newPage(p.Number, string(runes[:maxPageChars]))
	}
	return out
}

// ExtractFile opens the PDF at path and extracts its pages with e.
func ExtractFile(ctx context.Context, e Extractor, path string) ([]types.Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat PDF %s: %w", path, err)
	}

	pages, err := e.Extract(ctx, f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}
	return pages, nil
}

// DocumentID derives a document identifier from a file path.
func DocumentID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// ExtractDocument extracts one PDF into a page file under pagesDir. If the
// page file already exists, extraction is skipped.
func ExtractDocument(ctx context.Context, e Extractor, pdfPath, pagesDir string, w io.Writer) Status {
	id := DocumentID(pdfPath)
	outPath := filepath.Join(pagesDir, id+pageFileExt)

	if _, err := os.Stat(outPath); err == nil {
		fmt.Fprintf(w, "skipped:   %s (already exists)\n", id)
		return StatusSkipped
	}

	if err := os.MkdirAll(pagesDir, 0o755); err != nil {
		fmt.Fprintf(w, "failed:    %s (%v)\n", id, err)
		return StatusFailed
	}

	pages, err := ExtractFile(ctx, e, pdfPath)
	if err != nil {
		fmt.Fprintf(w, "failed:    %s (%v)\n", id, err)
		return StatusFailed
	}

	doc := types.Document{
		ID:          id,
		Source:      pdfPath,
		ExtractedAt: time.Now().UTC().Truncate(time.Second),
		Pages:       pages,
	}
	if err := WritePages(outPath, doc); err != nil {
		fmt.Fprintf(w, "failed:    %s (%v)\n", id, err)
		return StatusFailed
	}

	fmt.Fprintf(w, "extracted: %s (%d pages, %d sentences)\n", id, len(pages), types.CountSentences(pages))
	return StatusExtracted
}

// ExtractBatch extracts every PDF in pdfPaths into pagesDir, printing
// per-file status to w and returning a summary.
func ExtractBatch(ctx context.Context, e Extractor, pdfPaths []string, pagesDir string, w io.Writer) BatchResult {
	var result BatchResult
	for _, p := range pdfPaths {
		switch ExtractDocument(ctx, e, p, pagesDir, w) {
		case StatusExtracted:
			result.Extracted++
		case StatusSkipped:
			result.Skipped++
		case StatusFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d extracted, %d skipped, %d failed (total: %d)\n",
		result.Extracted, result.Skipped, result.Failed, result.Total())
	return result
}

// WritePages marshals doc to a YAML page file at path.
func WritePages(path string, doc types.Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling pages: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadPages reads a page file written by WritePages.
func LoadPages(path string) (types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Document{}, fmt.Errorf("reading page file %s: %w", path, err)
	}
	var doc types.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return types.Document{}, fmt.Errorf("parsing page file %s: %w", path, err)
	}
	return doc, nil
}

// IsPageFile reports whether path names a YAML page file rather than a PDF.
func IsPageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Load returns the pages of path, extracting them with e when path is a PDF
// and reading them back when it is a page file.
func Load(ctx context.Context, e Extractor, path string) ([]types.Page, error) {
	if IsPageFile(path) {
		doc, err := LoadPages(path)
		if err != nil {
			return nil, err
		}
		return doc.Pages, nil
	}
	return ExtractFile(ctx, e, path)
}
