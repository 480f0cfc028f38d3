// SPDX-License-Identifier: MIT

package eigenface

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/eigenface/matrix"
)

// Match is the outcome of a nearest-neighbour query.
type Match struct {
	Index    int     // position of the best entry in the gallery
	Label    string  // its label ("" for unlabeled galleries)
	Distance float64 // Euclidean distance in weight space
	Accepted bool    // Distance <= the gallery threshold
}

// Gallery is a recognition base: weight vectors of known faces with their
// labels. Immutable after construction and safe for concurrent queries.
type Gallery struct {
	basis     *Basis
	weights   [][]float64
	labels    []string
	threshold float64
}

// NewGallery projects images onto basis (see ProjectAll) and pairs them with
// labels. labels may be nil for an unlabeled gallery; otherwise it must have
// one entry per image.
//
// Options: WithWorkers, WithThreshold.
func NewGallery(ctx context.Context, basis *Basis, images []Image, labels []string, opts ...Option) (*Gallery, error) {
	if basis == nil {
		return nil, opErrorf(opGallery, ErrNilBasis)
	}
	if len(images) == 0 {
		return nil, opErrorf(opGallery, ErrEmptyBase)
	}
	if labels != nil && len(labels) != len(images) {
		return nil, fmt.Errorf("%s: %d labels for %d images: %w", opGallery, len(labels), len(images), ErrLabelMismatch)
	}
	weights, err := basis.ProjectAll(ctx, images, opts...)
	if err != nil {
		return nil, opErrorf(opGallery, err)
	}

	return newGallery(basis, weights, labels, gatherOptions(opts...)), nil
}

// NewGalleryFromWeights builds a gallery from precomputed weight vectors,
// each of length basis.K().
func NewGalleryFromWeights(basis *Basis, weights [][]float64, labels []string, opts ...Option) (*Gallery, error) {
	if basis == nil {
		return nil, opErrorf(opGallery, ErrNilBasis)
	}
	if len(weights) == 0 {
		return nil, opErrorf(opGallery, ErrEmptyBase)
	}
	if labels != nil && len(labels) != len(weights) {
		return nil, fmt.Errorf("%s: %d labels for %d entries: %w", opGallery, len(labels), len(weights), ErrLabelMismatch)
	}
	k := basis.K()
	for i, w := range weights {
		if len(w) != k {
			return nil, fmt.Errorf("%s: entry %d has %d weights, want %d: %w", opGallery, i, len(w), k, ErrShapeMismatch)
		}
	}

	return newGallery(basis, weights, labels, gatherOptions(opts...)), nil
}

func newGallery(basis *Basis, weights [][]float64, labels []string, o Options) *Gallery {
	own := make([][]float64, len(weights))
	for i, w := range weights {
		own[i] = append([]float64(nil), w...)
	}
	var names []string
	if labels != nil {
		names = append(make([]string, 0, len(labels)), labels...)
	}

	return &Gallery{basis: basis, weights: own, labels: names, threshold: o.threshold}
}

// Len returns the number of gallery entries.
func (g *Gallery) Len() int { return len(g.weights) }

// Weights returns a copy of the weight vector of entry i.
func (g *Gallery) Weights(i int) []float64 { return append([]float64(nil), g.weights[i]...) }

// Label returns the label of entry i, or "" when the gallery is unlabeled.
func (g *Gallery) Label(i int) string {
	if g.labels == nil {
		return ""
	}
	return g.labels[i]
}

// Recognize projects query and returns its nearest gallery entry.
func (g *Gallery) Recognize(query Image) (Match, error) {
	w, err := g.basis.Project(query)
	if err != nil {
		return Match{}, err
	}

	return g.Nearest(w)
}

// Nearest returns the entry closest to w in Euclidean distance.
// Ties resolve to the lowest index. The best match is always reported;
// Accepted tells whether it lies within the threshold.
// Complexity: O(M·K) for M entries.
func (g *Gallery) Nearest(w []float64) (Match, error) {
	dists, err := g.Distances(w)
	if err != nil {
		return Match{}, err
	}
	best := 0
	for i := 1; i < len(dists); i++ {
		if dists[i] < dists[best] {
			best = i
		}
	}

	return Match{
		Index:    best,
		Label:    g.Label(best),
		Distance: dists[best],
		Accepted: dists[best] <= g.threshold,
	}, nil
}

// Distances returns the Euclidean distance from w to every entry.
func (g *Gallery) Distances(w []float64) ([]float64, error) {
	if len(w) != g.basis.K() {
		return nil, fmt.Errorf("%s: %d weights for %d faces: %w", opNearest, len(w), g.basis.K(), ErrShapeMismatch)
	}
	for i, v := range w {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%s: weight %d is %g: %w", opNearest, i, v, matrix.ErrNaNInf)
		}
	}
	out := make([]float64, len(g.weights))
	for i, row := range g.weights {
		out[i] = floats.Distance(w, row, 2)
	}

	return out, nil
}

// Recognize is the one-shot form of Gallery.Recognize for callers holding
// precomputed base weights.
func Recognize(query Image, basis *Basis, baseWeights [][]float64, labels []string, opts ...Option) (Match, error) {
	g, err := NewGalleryFromWeights(basis, baseWeights, labels, opts...)
	if err != nil {
		return Match{}, err
	}

	return g.Recognize(query)
}
