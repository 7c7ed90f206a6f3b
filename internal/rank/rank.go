// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank scores sentences by TextRank: damped power iteration over a
// row-normalized cosine-similarity graph. Iteration count and tolerance are
// fixed, so the cost is bounded and the result deterministic.
package rank

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/pdiddy/paper-digest/internal/tfidf"
)

const (
	DefaultDamping   = 0.85
	DefaultMaxIter   = 50
	DefaultTolerance = 1e-4

	// rowEpsilon keeps isolated sentences (all-zero rows) from dividing by zero.
	rowEpsilon = 1e-12
)

// Options tunes the power iteration. Zero fields take the defaults.
type Options struct {
	Damping   float64
	MaxIter   int
	Tolerance float64
}

func (o Options) withDefaults() Options {
	if o.Damping <= 0 || o.Damping >= 1 {
		o.Damping = DefaultDamping
	}
	if o.MaxIter <= 0 {
		o.MaxIter = DefaultMaxIter
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	return o
}

// Result holds the scores and how the iteration ended. Scores sum to 1
// when every sentence has at least one similar neighbour; isolated
// sentences keep only their teleport share.
type Result struct {
	Scores     []float64
	Iterations int
	Converged  bool
}

// Similarity returns the n x n cosine-similarity matrix of vectors with a
// zero diagonal. It returns nil for no vectors.
func Similarity(vectors []tfidf.Vector) *mat.Dense {
	n := len(vectors)
	if n == 0 {
		return nil
	}
	sim := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			c := tfidf.Cosine(vectors[i], vectors[j])
			sim.Set(i, j, c)
			sim.Set(j, i, c)
		}
	}
	return sim
}

// TextRank scores vectors by Propagate over their similarity graph. No
// vectors yield an empty Result.
func TextRank(vectors []tfidf.Vector, opts Options) Result {
	if len(vectors) == 0 {
		return Result{}
	}
	return Propagate(Similarity(vectors), opts)
}

// Propagate runs damped power iteration on a square similarity matrix.
// The diagonal is ignored. Each row is divided by (row sum + 1e-12), scores
// start at 1/n and are updated as (1-d)/n + d * Mᵀ·s until the L1 change
// drops below the tolerance or the iteration cap is reached; in the latter
// case the last iterate is returned.
func Propagate(sim mat.Matrix, opts Options) Result {
	if sim == nil {
		return Result{}
	}
	if d, ok := sim.(*mat.Dense); ok && d == nil {
		return Result{}
	}
	n, c := sim.Dims()
	if n == 0 || n != c {
		return Result{}
	}
	opts = opts.withDefaults()

	norm := mat.NewDense(n, n, nil)
	row := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				row[j] = 0
				continue
			}
			row[j] = sim.At(i, j)
		}
		sum := floats.Sum(row) + rowEpsilon
		floats.Scale(1/sum, row)
		norm.SetRow(i, row)
	}

	score := mat.NewVecDense(n, Uniform(n))
	next := mat.NewVecDense(n, nil)
	diff := make([]float64, n)
	teleport := (1 - opts.Damping) / float64(n)

	res := Result{}
	for it := 1; it <= opts.MaxIter; it++ {
		next.MulVec(norm.T(), score)
		next.ScaleVec(opts.Damping, next)
		for i := 0; i < n; i++ {
			next.SetVec(i, next.AtVec(i)+teleport)
		}
		res.Iterations = it

		floats.SubTo(diff, next.RawVector().Data, score.RawVector().Data)
		converged := floats.Norm(diff, 1) < opts.Tolerance
		score.CopyVec(next)
		if converged {
			res.Converged = true
			break
		}
	}

	res.Scores = make([]float64, n)
	copy(res.Scores, score.RawVector().Data)
	return res
}

// Uniform returns n scores of 1/n, the fallback ordering when sentences
// cannot be vectorized.
func Uniform(n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = 1 / float64(n)
	}
	return out
}
