// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tfidf

import (
	"strings"
	"unicode"
)

// Tokenize lower-cases text and returns runs of two or more word
// characters (letters, digits, underscore) that are not stop words.
func Tokenize(text string) []string {
	var tokens []string
	var b strings.Builder
	flush := func() {
		if b.Len() == 0 {
			return
		}
		tok := b.String()
		b.Reset()
		if len([]rune(tok)) < 2 || IsStopWord(tok) {
			return
		}
		tokens = append(tokens, tok)
	}
	for _, r := range strings.ToLower(text) {
		if isWordRune(r) {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
