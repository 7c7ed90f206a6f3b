// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"context"
	"errors"

	"github.com/pdiddy/paper-digest/internal/rank"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// ErrNoGenerator is recorded as the LLM error when an abstractive rewrite is
// requested but no generator is configured.
var ErrNoGenerator = errors.New("abstractive summaries are not configured: set an API key")

// Generator rewrites extractive evidence into a coherent summary. A hosted
// language model sits behind it; the extractive core never depends on it.
type Generator interface {
	Generate(ctx context.Context, evidence []types.SummaryItem, model string, tokenLimit int) (string, error)
}

// Request holds per-document options for Service.Summarize.
type Request struct {
	// MaxWords is the word budget for the extractive summary.
	MaxWords int

	// Abstractive asks for an LLM rewrite of the extractive summary.
	Abstractive bool

	// Model and TokenLimit override the generator defaults when set.
	Model      string
	TokenLimit int
}

// Service builds digest envelopes for segmented documents.
type Service struct {
	opts rank.Options
	gen  Generator
}

// NewService returns a Service ranking with cfg. gen may be nil, in which
// case abstractive requests report ErrNoGenerator in the digest.
func NewService(cfg types.SummarizeConfig, gen Generator) *Service {
	return &Service{
		opts: rank.Options{Damping: cfg.Damping, MaxIter: cfg.MaxIter, Tolerance: cfg.Tolerance},
		gen:  gen,
	}
}

// Summarize ranks, selects, and aligns pages into a digest. When an
// abstractive rewrite is requested, the rewrite is split into sentences and
// aligned to pages too. A failed rewrite is reported in LLMError and never
// fails the call; the only error returned is ctx's.
func (s *Service) Summarize(ctx context.Context, pages []types.Page, req Request) (types.Digest, error) {
	if err := ctx.Err(); err != nil {
		return types.Digest{}, err
	}

	if len(pages) == 0 {
		return types.Digest{
			Summary: []types.SummaryItem{},
			Stats:   types.Stats{MaxWords: req.MaxWords},
		}, nil
	}

	sel := RankAndSelectWith(pages, req.MaxWords, s.opts)
	aligned := Align(sel.Items, pages)

	d := types.Digest{
		Summary: aligned,
		Stats: types.Stats{
			NumPages:     len(pages),
			NumSentences: len(aligned),
			MaxWords:     req.MaxWords,
		},
	}
	if sel.Diagnostics.Sentences > 0 {
		diag := sel.Diagnostics
		d.Diagnostics = &diag
	}

	if !req.Abstractive || len(aligned) == 0 {
		return d, nil
	}
	if s.gen == nil {
		d.LLMError = ErrNoGenerator.Error()
		return d, nil
	}

	text, err := s.gen.Generate(ctx, aligned, req.Model, req.TokenLimit)
	if err != nil {
		d.LLMError = err.Error()
		return d, nil
	}
	d.LLMSummary = text
	d.LLMSentences = Align(SentenceItems(SplitSentences(text)), pages)
	return d, nil
}
