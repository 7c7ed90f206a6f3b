// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package digest is the extractive summarization core: it ranks a
// document's sentences with TextRank, selects the best ones under a word
// budget in document order, and aligns summary sentences back to pages.
//
// Every call builds and discards its own vectors and similarity matrix;
// nothing is shared between calls, so callers may run documents in
// parallel without coordination.
package digest

import (
	"errors"
	"strings"

	"github.com/pdiddy/paper-digest/internal/align"
	"github.com/pdiddy/paper-digest/internal/rank"
	"github.com/pdiddy/paper-digest/internal/selector"
	"github.com/pdiddy/paper-digest/internal/textnorm"
	"github.com/pdiddy/paper-digest/internal/tfidf"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// Selection is the result of RankAndSelect.
type Selection struct {
	Items       []types.SummaryItem
	Diagnostics types.RankDiagnostics
}

// RankAndSelect ranks every sentence of pages and returns the sentences that
// fit in budget words, in document order, each tagged with its page and score.
func RankAndSelect(pages []types.Page, budget int) Selection {
	return RankAndSelectWith(pages, budget, rank.Options{})
}

// RankAndSelectWith is RankAndSelect with explicit ranking options.
func RankAndSelectWith(pages []types.Page, budget int, opts rank.Options) Selection {
	doc := collect(pages)
	if len(doc) == 0 {
		return Selection{Items: []types.SummaryItem{}}
	}

	texts := make([]string, len(doc))
	for i, ref := range doc {
		texts[i] = ref.Text
	}

	diag := types.RankDiagnostics{Sentences: len(doc)}
	var scores []float64
	var v tfidf.Vectorizer
	vecs, err := v.FitTransform(texts)
	switch {
	case errors.Is(err, tfidf.ErrEmptyVocabulary):
		scores = rank.Uniform(len(doc))
		diag.Fallback = true
		diag.Converged = true
	default:
		res := rank.TextRank(vecs, opts)
		scores = res.Scores
		diag.Iterations = res.Iterations
		diag.Converged = res.Converged
	}

	scored := make([]types.ScoredSentence, len(doc))
	for i, ref := range doc {
		scored[i] = types.ScoredSentence{SentenceRef: ref, Score: scores[i]}
	}

	chosen := selector.Select(scored, budget)
	diag.WordsUsed = selector.WordsUsed(chosen)

	items := make([]types.SummaryItem, len(chosen))
	for i, s := range chosen {
		items[i] = types.SummaryItem{Text: s.Text, Page: s.Page, Score: s.Score}
	}
	return Selection{Items: items, Diagnostics: diag}
}

// Align reassigns each item's page by content similarity to pages.
func Align(items []types.SummaryItem, pages []types.Page) []types.SummaryItem {
	return align.Align(items, pages)
}

// SplitSentences splits raw text, such as an externally written summary,
// into sentences ready for Align.
func SplitSentences(raw string) []string {
	return textnorm.SplitSentences(raw)
}

// SentenceItems wraps sentences as summary items without page or score.
func SentenceItems(sentences []string) []types.SummaryItem {
	items := make([]types.SummaryItem, 0, len(sentences))
	for _, s := range sentences {
		items = append(items, types.SummaryItem{Text: s})
	}
	return items
}

// collect flattens pages into trimmed, non-empty sentence refs in document order.
func collect(pages []types.Page) []types.SentenceRef {
	var refs []types.SentenceRef
	for _, p := range pages {
		for _, s := range p.Sentences {
			clean := strings.TrimSpace(s)
			if clean == "" {
				continue
			}
			refs = append(refs, types.SentenceRef{Page: p.Number, Text: clean})
		}
	}
	return refs
}
