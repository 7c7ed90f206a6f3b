// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Stats describes the document a digest was built from.
type Stats struct {
	// NumPages is the number of pages in the source document.
	NumPages int `json:"num_pages" yaml:"num_pages"`

	// NumSentences is the number of sentences in the returned summary.
	NumSentences int `json:"num_sentences" yaml:"num_sentences"`

	// MaxWords is the word budget the summary was selected under.
	MaxWords int `json:"max_words" yaml:"max_words"`
}

// RankDiagnostics reports how the sentence ranking behaved for one document.
type RankDiagnostics struct {
	// Sentences is the number of candidate sentences ranked.
	Sentences int `json:"sentences" yaml:"sentences"`

	// Iterations is the number of power-iteration steps performed.
	Iterations int `json:"iterations" yaml:"iterations"`

	// Converged reports whether the iteration met its tolerance before the cap.
	Converged bool `json:"converged" yaml:"converged"`

	// Fallback reports whether uniform scores were used because no
	// vocabulary could be built from the sentences.
	Fallback bool `json:"fallback" yaml:"fallback"`

	// WordsUsed is the word count of the selected sentences.
	WordsUsed int `json:"words_used" yaml:"words_used"`
}

// Digest is the response envelope for a summarized document.
type Digest struct {
	// Summary is the extractive summary in document order, page-aligned.
	Summary []SummaryItem `json:"summary" yaml:"summary"`

	// Stats carries page and sentence counts and the budget used.
	Stats Stats `json:"stats" yaml:"stats"`

	// Diagnostics is omitted when the document had no sentences.
	Diagnostics *RankDiagnostics `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`

	// LLMSummary is the abstractive rewrite of the summary, when requested.
	LLMSummary string `json:"llm_summary,omitempty" yaml:"llm_summary,omitempty"`

	// LLMSentences is LLMSummary split into sentences and aligned to pages.
	LLMSentences []SummaryItem `json:"llm_sentences,omitempty" yaml:"llm_sentences,omitempty"`

	// LLMError records why the abstractive rewrite failed. The extractive
	// summary is still returned.
	LLMError string `json:"llm_error,omitempty" yaml:"llm_error,omitempty"`
}
