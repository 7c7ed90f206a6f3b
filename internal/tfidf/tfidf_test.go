// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tfidf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "stop words and short tokens removed", in: "The model uses a B attention.", want: []string{"model", "uses", "attention"}},
		{name: "lower-cased", in: "GLUE Benchmark", want: []string{"glue", "benchmark"}},
		{name: "digits and underscores kept", in: "x_1 reached 89.2 on task_2", want: []string{"x_1", "reached", "89", "task_2"}},
		{name: "only stop words", in: "the and of it", want: nil},
		{name: "empty", in: "", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.in))
		})
	}
}

func TestFitEmptyVocabulary(t *testing.T) {
	for _, docs := range [][]string{nil, {""}, {"", "   "}, {"the of and", "it is"}} {
		var v Vectorizer
		err := v.Fit(docs)
		assert.ErrorIs(t, err, ErrEmptyVocabulary, "docs %q", docs)
		assert.Equal(t, 0, v.VocabularySize())
		assert.True(t, v.Transform("attention").IsZero())
	}
}

func TestFitTransformNormalized(t *testing.T) {
	var v Vectorizer
	vecs, err := v.FitTransform([]string{
		"The model uses attention.",
		"Attention is efficient.",
		"Results improve accuracy.",
	})
	require.NoError(t, err)
	require.Len(t, vecs, 3)

	for i, vec := range vecs {
		var sum float64
		for _, w := range vec.Weights {
			sum += w * w
		}
		assert.InDelta(t, 1.0, sum, 1e-12, "vector %d", i)
		assert.InDelta(t, 1.0, Cosine(vec, vec), 1e-12)
	}
	assert.Greater(t, Cosine(vecs[0], vecs[1]), 0.0)
	assert.Equal(t, 0.0, Cosine(vecs[0], vecs[2]))
}

func TestIDFWeighting(t *testing.T) {
	var v Vectorizer
	require.NoError(t, v.Fit([]string{"alpha beta", "alpha gamma"}))

	// alpha appears in both documents, beta in one: beta must weigh more.
	vec := v.Transform("alpha beta")
	require.Len(t, vec.Weights, 2)
	alpha, beta := vec.Weights[0], vec.Weights[1]
	assert.Greater(t, beta, alpha)

	wantRatio := (math.Log(3.0/2.0) + 1) / 1.0
	assert.InDelta(t, wantRatio, beta/alpha, 1e-12)
}

func TestTransformSeparateSentence(t *testing.T) {
	var v Vectorizer
	pages, err := v.FitTransform([]string{
		"The model uses attention. Results improve accuracy.",
		"Attention is efficient. Conclusion: the method works.",
	})
	require.NoError(t, err)

	q := v.Transform("Attention is efficient.")
	assert.Greater(t, Cosine(q, pages[1]), Cosine(q, pages[0]))
	assert.True(t, v.Transform("completely unrelated words").IsZero())
}

func TestCosineZeroVector(t *testing.T) {
	a := Vector{Indices: []int{0}, Weights: []float64{1}}
	assert.Equal(t, 0.0, Cosine(a, Vector{}))
	assert.Equal(t, 0.0, Cosine(Vector{}, Vector{}))
}
