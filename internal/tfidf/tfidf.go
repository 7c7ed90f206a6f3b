// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tfidf builds document-local TF-IDF vectors with English stop-word
// removal. A Vectorizer is fitted on exactly the texts it is given and can
// then project other texts into the same space, so vectors from one fit
// can be compared by cosine similarity.
package tfidf

import (
	"errors"
	"math"
	"sort"
)

// ErrEmptyVocabulary is returned by Fit when no term survives tokenization,
// e.g. every text is empty or made only of stop words.
var ErrEmptyVocabulary = errors.New("empty vocabulary: texts contain only stop words or no words")

// Vector is a sparse, L2-normalized term-weight vector. Indices are sorted
// ascending and refer to the fitted vocabulary.
type Vector struct {
	Indices []int
	Weights []float64
}

// IsZero reports whether the vector has no non-zero weight.
func (v Vector) IsZero() bool {
	return len(v.Indices) == 0
}

// Vectorizer holds a fitted vocabulary and its inverse document frequencies.
// The zero value is unfitted; Transform on it returns zero vectors.
type Vectorizer struct {
	vocab map[string]int
	idf   []float64
}

// Fit learns the vocabulary and smoothed idf weights from docs:
// idf(t) = ln((1+n)/(1+df(t))) + 1.
func (v *Vectorizer) Fit(docs []string) error {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, tok := range Tokenize(doc) {
			if !seen[tok] {
				df[tok]++
				seen[tok] = true
			}
		}
	}
	if len(df) == 0 {
		v.vocab, v.idf = nil, nil
		return ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	v.vocab = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	for i, t := range terms {
		v.vocab[t] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}
	return nil
}

// VocabularySize returns the number of fitted terms.
func (v *Vectorizer) VocabularySize() int {
	return len(v.idf)
}

// Transform projects doc into the fitted space. Terms outside the
// vocabulary are ignored, so the result may be a zero vector.
func (v *Vectorizer) Transform(doc string) Vector {
	counts := make(map[int]float64)
	for _, tok := range Tokenize(doc) {
		if idx, ok := v.vocab[tok]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return Vector{}
	}

	indices := make([]int, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	weights := make([]float64, len(indices))
	var norm float64
	for i, idx := range indices {
		w := counts[idx] * v.idf[idx]
		weights[i] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	for i := range weights {
		weights[i] /= norm
	}
	return Vector{Indices: indices, Weights: weights}
}

// FitTransform fits on docs and returns one vector per doc, in order.
func (v *Vectorizer) FitTransform(docs []string) ([]Vector, error) {
	if err := v.Fit(docs); err != nil {
		return nil, err
	}
	out := make([]Vector, len(docs))
	for i, doc := range docs {
		out[i] = v.Transform(doc)
	}
	return out, nil
}

// Cosine returns the cosine similarity of a and b, or 0 when either is a
// zero vector.
func Cosine(a, b Vector) float64 {
	if a.IsZero() || b.IsZero() {
		return 0
	}
	var dot, na, nb float64
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			dot += a.Weights[i] * b.Weights[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	for _, w := range a.Weights {
		na += w * w
	}
	for _, w := range b.Weights {
		nb += w * w
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
