// SPDX-License-Identifier: MIT

package eigenface

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/eigenface/matrix"
)

// Build computes the mean face and the k leading eigenfaces of corpus.
//
// Implementation:
//   - Stage 1 (Validate): N ≥ 2 images of one shape, finite pixels, rank policy.
//   - Stage 2 (Center): flatten into an N×D matrix X, subtract the mean face
//     column-wise to get C.
//   - Stage 3 (Reduce): L = C·Cᵀ, the N×N reduced covariance matrix. It has
//     the same nonzero spectrum as the D×D covariance CᵀC.
//   - Stage 4 (Solve): symmetric eigendecomposition of L, pairs sorted by
//     descending eigenvalue (stable), first k kept.
//   - Stage 5 (Lift): U = V_kᵀ·C, so row i is Cᵀ·v_i, an eigenvector of CᵀC
//     with squared norm λ_i.
//   - Stage 6 (Normalize): scale rows to unit norm, then flip each so its
//     largest-magnitude component is positive.
//
// Rank policy:
//   - k < 1 or k > N: ErrInvalidRank.
//   - k == N: clamped to N-1 with a warning (RankClamp, default) or
//     ErrInvalidRank (RankStrict).
//
// Errors:
//   - ErrEmptyCorpus, ErrCorpusTooSmall, ErrShapeMismatch, ErrInvalidRank,
//     ErrDegenerateBasis, matrix.ErrNaNInf, matrix.ErrMatrixEigenFailed,
//     ErrSolverFailed; all wrapped with "Build".
//
// Determinism:
//   - Same corpus and options give bit-identical bases; the canonical sign
//     removes the ± ambiguity of eigenvectors across solvers.
//
// Complexity:
//   - Time O(N²·D + sweeps·N³), Space O(N·D + N²).
func Build(corpus []Image, k int, opts ...Option) (*Basis, error) {
	o := gatherOptions(opts...)

	// Stage 1: validate
	n := len(corpus)
	if n == 0 {
		return nil, opErrorf(opBuild, ErrEmptyCorpus)
	}
	if n == 1 {
		return nil, opErrorf(opBuild, ErrCorpusTooSmall)
	}
	shape := corpus[0].Shape
	for i, img := range corpus {
		if err := checkImage(img); err != nil {
			return nil, fmt.Errorf("%s: image %d: %w", opBuild, i, err)
		}
		if !img.Shape.Equal(shape) {
			return nil, fmt.Errorf("%s: image %d has shape %v, want %v: %w", opBuild, i, img.Shape, shape, ErrShapeMismatch)
		}
	}
	k, err := resolveRank(k, n, o)
	if err != nil {
		return nil, opErrorf(opBuild, err)
	}

	// Stage 2: flatten and center
	rows := make([][]float64, n)
	for i, img := range corpus {
		rows[i] = img.Pix
	}
	X, err := matrix.NewDenseFromRows(rows)
	if err != nil {
		return nil, opErrorf(opBuild, err)
	}
	if err = matrix.ValidateFinite(X); err != nil {
		return nil, opErrorf(opBuild, err)
	}
	C, mean, err := matrix.CenterColumns(X)
	if err != nil {
		return nil, opErrorf(opBuild, err)
	}

	// Stage 3: reduced covariance
	L, err := matrix.Gram(C)
	if err != nil {
		return nil, opErrorf(opBuild, err)
	}

	// Stage 4: eigendecomposition, descending
	pairs, err := solve(L, o)
	if err != nil {
		return nil, opErrorf(opBuild, err)
	}
	order := descendingOrder(pairs.vals)
	var trace float64
	for _, v := range pairs.vals {
		trace += v
	}
	lambda1 := pairs.vals[order[0]]
	// λ₁ is measured against the raw signal energy ‖X‖²_F: a corpus of
	// identical images centers to rounding noise, not to exact zeros.
	energy, err := matrix.Frobenius(X)
	if err != nil {
		return nil, opErrorf(opBuild, err)
	}
	if lambda1 <= o.degenerateTol*energy*energy {
		return nil, fmt.Errorf("%s: λ₁=%g, corpus has no variance: %w", opBuild, lambda1, ErrDegenerateBasis)
	}
	eigenvalues := make([]float64, k)
	for i := 0; i < k; i++ {
		lambda := pairs.vals[order[i]]
		if lambda <= o.degenerateTol*lambda1 {
			return nil, fmt.Errorf("%s: eigenvalue %d is %g (λ₁=%g): %w", opBuild, i, lambda, lambda1, ErrDegenerateBasis)
		}
		eigenvalues[i] = lambda
	}

	// Stage 5: lift U = V_kᵀ·C; rows of Vᵀ are the eigenvectors
	Qt, err := matrix.Transpose(pairs.vecs)
	if err != nil {
		return nil, opErrorf(opBuild, err)
	}
	top := make([][]float64, k)
	for i := range top {
		if top[i], err = Qt.Row(order[i]); err != nil {
			return nil, opErrorf(opBuild, err)
		}
	}
	Vt, err := matrix.NewDenseFromRows(top)
	if err != nil {
		return nil, opErrorf(opBuild, err)
	}
	U, err := matrix.Mul(Vt, C)
	if err != nil {
		return nil, opErrorf(opBuild, err)
	}

	// Stage 6: normalize and fix signs
	Un, norms, err := matrix.NormalizeRowsL2(U)
	if err != nil {
		return nil, opErrorf(opBuild, err)
	}
	faces := make([]Image, k)
	for i := 0; i < k; i++ {
		if norms[i] == 0 {
			return nil, fmt.Errorf("%s: eigenface %d has zero norm: %w", opBuild, i, ErrDegenerateBasis)
		}
		row, err := Un.Row(i)
		if err != nil {
			return nil, opErrorf(opBuild, err)
		}
		canonicalSign(row)
		faces[i] = Image{Shape: cloneShape(shape), Pix: row}
	}

	o.logger.WithFields(logrus.Fields{
		"images":  n,
		"pixels":  X.Cols(),
		"k":       k,
		"solver":  o.solver.String(),
		"lambda1": lambda1,
	}).Debug("eigenface basis built")

	return &Basis{
		Mean:          Image{Shape: cloneShape(shape), Pix: mean},
		Faces:         faces,
		Eigenvalues:   eigenvalues,
		TotalVariance: trace,
	}, nil
}

// resolveRank applies the rank policy to a requested k for n images.
func resolveRank(k, n int, o Options) (int, error) {
	switch {
	case k < 1 || k > n:
		return 0, fmt.Errorf("k=%d for %d images: %w", k, n, ErrInvalidRank)
	case k == n && o.rankPolicy == RankStrict:
		return 0, fmt.Errorf("k=%d needs k ≤ %d: %w", k, n-1, ErrInvalidRank)
	case k == n:
		o.logger.WithFields(logrus.Fields{
			"requested": k,
			"clamped":   n - 1,
		}).Warn("eigenface: rank clamped to N-1, a centered corpus has no N-th component")
		return n - 1, nil
	}

	return k, nil
}

func cloneShape(s Shape) Shape {
	out := make(Shape, len(s))
	copy(out, s)

	return out
}
