// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selector picks the highest-scoring sentences that fit a word
// budget and returns them in their original document order.
package selector

import (
	"sort"

	"github.com/pdiddy/paper-digest/internal/textnorm"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// Select takes sentences in document order and returns the subset chosen
// under budget words, still in document order.
//
// Sentences are visited by score descending (ties keep document order) and
// accepted while the running word count stays within budget. The walk stops
// at the first sentence that does not fit; later, shorter sentences are not
// tried. Sentences are identified by (page, text): a repeat of an accepted
// sentence on the same page is skipped without counting against the budget,
// and each accepted sentence is emitted once, at its first occurrence.
func Select(doc []types.ScoredSentence, budget int) []types.ScoredSentence {
	if budget <= 0 || len(doc) == 0 {
		return nil
	}

	ranked := make([]types.ScoredSentence, len(doc))
	copy(ranked, doc)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	chosen := make(map[types.SentenceRef]bool)
	words := 0
	for _, s := range ranked {
		if chosen[s.SentenceRef] {
			continue
		}
		w := textnorm.WordCount(s.Text)
		if words+w > budget {
			break
		}
		chosen[s.SentenceRef] = true
		words += w
	}
	if len(chosen) == 0 {
		return nil
	}

	out := make([]types.ScoredSentence, 0, len(chosen))
	for _, s := range doc {
		if chosen[s.SentenceRef] {
			out = append(out, s)
			delete(chosen, s.SentenceRef)
		}
	}
	return out
}

// WordsUsed returns the total word count of sentences.
func WordsUsed(sentences []types.ScoredSentence) int {
	n := 0
	for _, s := range sentences {
		n += textnorm.WordCount(s.Text)
	}
	return n
}
