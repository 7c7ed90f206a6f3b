// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/paper-digest/internal/abstractive"
	"github.com/pdiddy/paper-digest/internal/container"
	"github.com/pdiddy/paper-digest/internal/digest"
	"github.com/pdiddy/paper-digest/internal/ingest"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// newExtractor builds the extractor for the configured backend.
func newExtractor(cfg types.IngestConfig) (ingest.Extractor, error) {
	switch cfg.Backend {
	case types.BackendPDF, "":
		return ingest.NewPDFExtractor(), nil
	case types.BackendPdftotext:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		return ingest.NewContainerExtractor(rt, cfg.PdftotextImage)
	default:
		return nil, fmt.Errorf("unknown ingest backend %q", cfg.Backend)
	}
}

// newGenerator returns the abstractive client, or nil when no API key is
// configured.
func newGenerator(cfg types.AbstractiveConfig) (digest.Generator, error) {
	client, err := abstractive.NewClient(cfg)
	if errors.Is(err, abstractive.ErrMissingAPIKey) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

// loadPages reads pages from a PDF or a page file and applies the
// configured truncation.
func loadPages(ctx context.Context, path string) ([]types.Page, error) {
	var e ingest.Extractor
	if !ingest.IsPageFile(path) {
		var err error
		if e, err = newExtractor(appConfig.Ingest); err != nil {
			return nil, err
		}
	}
	pages, err := ingest.Load(ctx, e, path)
	if err != nil {
		return nil, err
	}
	return ingest.Truncate(pages, appConfig.Ingest.MaxPages, appConfig.Ingest.MaxPageChars), nil
}
