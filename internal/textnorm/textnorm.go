// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textnorm splits raw page text into sentences with a punctuation
// boundary heuristic. It uses no language model and tolerates malformed
// input such as inline equations or reference markers by preferring
// under-splitting to empty sentences.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// CollapseWhitespace replaces every whitespace run with a single space and
// trims the result.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SplitSentences splits raw text into sentences. A boundary follows a '.',
// '!' or '?' that is followed by whitespace; the punctuation stays with the
// preceding sentence. A trailing fragment without terminal punctuation is
// returned as the last sentence. Empty input yields nil.
func SplitSentences(raw string) []string {
	text := CollapseWhitespace(raw)
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		if !isTerminal(text[i]) || text[i+1] != ' ' {
			continue
		}
		if s := strings.TrimSpace(text[start : i+1]); s != "" {
			sentences = append(sentences, s)
		}
		start = i + 2
		i++
	}
	if start < len(text) {
		if s := strings.TrimSpace(text[start:]); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func isTerminal(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

// WordCount returns the number of whitespace-separated words in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// Clean folds s to Unicode NFKC and drops control characters other than
// whitespace. Extracted PDF text often carries ligatures (U+FB01) and
// non-breaking spaces that would otherwise split or hide words.
func Clean(s string) string {
	s = norm.NFKC.String(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
