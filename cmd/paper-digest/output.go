// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pdiddy/paper-digest/pkg/types"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printItems writes one summary sentence per line prefixed by its page.
func printItems(w io.Writer, items []types.SummaryItem) {
	for _, it := range items {
		fmt.Fprintf(w, "[p. %d] %s\n", it.Page, it.Text)
	}
}

// printDigest writes a digest in reading form.
func printDigest(w io.Writer, d types.Digest) {
	if len(d.Summary) == 0 {
		fmt.Fprintln(w, "No summary: the document has no extractable sentences within the budget.")
	}
	printItems(w, d.Summary)

	fmt.Fprintf(w, "\n%d sentences from %d pages (budget: %d words)\n",
		d.Stats.NumSentences, d.Stats.NumPages, d.Stats.MaxWords)
	if diag := d.Diagnostics; diag != nil {
		state := "converged"
		switch {
		case diag.Fallback:
			state = "uniform fallback"
		case !diag.Converged:
			state = "iteration cap reached"
		}
		fmt.Fprintf(w, "ranked %d sentences in %d iterations (%s), %d words used\n",
			diag.Sentences, diag.Iterations, state, diag.WordsUsed)
	}

	if d.LLMSummary != "" {
		fmt.Fprintf(w, "\nAbstractive summary:\n\n%s\n", d.LLMSummary)
	}
	if d.LLMError != "" {
		fmt.Fprintf(w, "\nabstractive summary failed: %s\n", d.LLMError)
	}
}
