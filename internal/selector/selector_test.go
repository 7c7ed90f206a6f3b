// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/paper-digest/pkg/types"
)

func scored(page int, text string, score float64) types.ScoredSentence {
	return types.ScoredSentence{SentenceRef: types.SentenceRef{Page: page, Text: text}, Score: score}
}

func texts(in []types.ScoredSentence) []string {
	var out []string
	for _, s := range in {
		out = append(out, s.Text)
	}
	return out
}

func TestSelect(t *testing.T) {
	doc := []types.ScoredSentence{
		scored(1, "one two three", 0.10),
		scored(1, "four five", 0.40),
		scored(2, "six seven eight nine", 0.30),
		scored(2, "ten", 0.20),
	}

	tests := []struct {
		name   string
		budget int
		want   []string
	}{
		{name: "zero budget", budget: 0, want: nil},
		{name: "negative budget", budget: -5, want: nil},
		{name: "top sentence only", budget: 2, want: []string{"four five"}},
		{name: "restores document order", budget: 6, want: []string{"four five", "six seven eight nine"}},
		{name: "greedy stop does not skip ahead", budget: 5, want: []string{"four five"}},
		{name: "everything fits", budget: 100, want: []string{"one two three", "four five", "six seven eight nine", "ten"}},
		{name: "first ranked sentence too long", budget: 1, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Select(doc, tt.budget)
			assert.Equal(t, tt.want, texts(got))
			assert.LessOrEqual(t, WordsUsed(got), max(tt.budget, 0))
		})
	}
}

func TestSelectEmpty(t *testing.T) {
	assert.Empty(t, Select(nil, 100))
	assert.Empty(t, Select([]types.ScoredSentence{}, 100))
}

func TestSelectTiesKeepDocumentOrder(t *testing.T) {
	doc := []types.ScoredSentence{
		scored(1, "a b", 0.25),
		scored(1, "c d", 0.25),
		scored(2, "e f", 0.25),
		scored(2, "g h", 0.25),
	}
	assert.Equal(t, []string{"a b", "c d"}, texts(Select(doc, 5)))
}

func TestSelectSamePageDuplicatesCollapse(t *testing.T) {
	doc := []types.ScoredSentence{
		scored(1, "repeated line", 0.5),
		scored(1, "other words here", 0.1),
		scored(1, "repeated line", 0.4),
		scored(2, "repeated line", 0.05),
	}
	got := Select(doc, 2)
	assert.Equal(t, []types.ScoredSentence{doc[0]}, got)
	assert.LessOrEqual(t, WordsUsed(got), 2)

	// The repeat neither consumes budget nor ends the walk.
	got = Select(doc, 5)
	assert.Equal(t, []types.ScoredSentence{doc[0], doc[1]}, got)
	assert.Equal(t, 5, WordsUsed(got))
}

func TestSelectDoesNotMutateInput(t *testing.T) {
	doc := []types.ScoredSentence{scored(1, "low", 0.1), scored(1, "high", 0.9)}
	Select(doc, 10)
	assert.Equal(t, "low", doc[0].Text)
}
