// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package align re-attaches summary sentences to the page they most likely
// came from. Page hints already carried by a sentence are not trusted: the
// page is recomputed from TF-IDF cosine similarity against each page's text.
package align

import (
	"errors"
	"strings"

	"github.com/pdiddy/paper-digest/internal/tfidf"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// Align returns items with Page set to the most similar page. Ties go to the
// earliest page. Score keeps the item's own score when it has one and
// otherwise takes the best similarity.
//
// When the pages carry no usable text, items are returned unchanged except
// that a missing page hint becomes page 1.
func Align(items []types.SummaryItem, pages []types.Page) []types.SummaryItem {
	if len(items) == 0 {
		return []types.SummaryItem{}
	}

	corpus := make([]string, len(pages))
	hasText := false
	for i, p := range pages {
		corpus[i] = strings.TrimSpace(strings.Join(p.Sentences, " "))
		if corpus[i] != "" {
			hasText = true
		}
	}
	if !hasText {
		return passThrough(items)
	}

	var v tfidf.Vectorizer
	pageVecs, err := v.FitTransform(corpus)
	if errors.Is(err, tfidf.ErrEmptyVocabulary) {
		return passThrough(items)
	}

	out := make([]types.SummaryItem, len(items))
	for i, item := range items {
		q := v.Transform(item.Text)
		best, bestSim := 0, tfidf.Cosine(q, pageVecs[0])
		for j := 1; j < len(pageVecs); j++ {
			if sim := tfidf.Cosine(q, pageVecs[j]); sim > bestSim {
				best, bestSim = j, sim
			}
		}

		score := item.Score
		if score == 0 {
			score = bestSim
		}
		out[i] = types.SummaryItem{
			Text:  item.Text,
			Page:  pageNumber(pages[best], best),
			Score: score,
		}
	}
	return out
}

// pageNumber falls back to the 1-based position for pages built without a number.
func pageNumber(p types.Page, idx int) int {
	if p.Number > 0 {
		return p.Number
	}
	return idx + 1
}

func passThrough(items []types.SummaryItem) []types.SummaryItem {
	out := make([]types.SummaryItem, len(items))
	for i, item := range items {
		out[i] = item
		if out[i].Page <= 0 {
			out[i].Page = 1
		}
	}
	return out
}
