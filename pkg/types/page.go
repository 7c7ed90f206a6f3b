// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-digest pipeline:
// segmented pages, sentence identities, scored sentences, and the summary
// items returned to callers.
package types

// Page is one page of a segmented document. Pages are produced once by the
// ingestion stage and are not modified afterwards.
type Page struct {
	// Number is the 1-based page number in the source document.
	Number int `json:"page" yaml:"page"`

	// Text is the full extracted text of the page.
	Text string `json:"text" yaml:"text"`

	// Sentences holds the page text split into sentences, in reading order.
	Sentences []string `json:"sentences" yaml:"sentences"`
}

// SentenceRef identifies a sentence occurrence by page and text. Two refs
// are equal iff both fields are equal, so identical sentences repeated on
// the same page collapse to a single ref.
type SentenceRef struct {
	Page int
	Text string
}

// ScoredSentence is a sentence with its ranking score.
type ScoredSentence struct {
	SentenceRef
	Score float64
}

// SummaryItem is a sentence of a summary tagged with its source page.
//
// A zero Page means the item carries no page hint and a zero Score means it
// carries no score. Ranking scores are always strictly positive, so the zero
// value is never a real score.
type SummaryItem struct {
	Text  string  `json:"text" yaml:"text"`
	Page  int     `json:"page" yaml:"page"`
	Score float64 `json:"score" yaml:"score"`
}

// CountSentences returns the total number of sentences across pages.
func CountSentences(pages []Page) int {
	n := 0
	for _, p := range pages {
		n += len(p.Sentences)
	}
	return n
}
