// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide the statistical transforms the eigenface pipeline composes:
//     column centering (mean image removal) and L2 row normalization
//     (unit-norm eigenfaces).
//
// Exposed API:
//   - CenterColumns(X)   -> (Xc, means)  // subtract per-column mean
//   - NormalizeRowsL2(X) -> (Y, norms)   // L2 row normalization (zero rows unchanged)
//
// Determinism & Performance:
//   - Fixed i→j traversal for all explicit loops.
//   - Tight loops live in the ew* micro-kernels.

package matrix

import "math"

const (
	opCenterColumns   = "CenterColumns"
	opNormalizeRowsL2 = "NormalizeRowsL2"
)

// centerColumns subtracts the per-column mean from every element.
// Implementation:
//   - Stage 1: Validate X (non-nil).
//   - Stage 2: Accumulate column sums row by row, then scale by 1/r.
//   - Stage 3: Apply ewBroadcastSubCols to produce a centered copy.
//
// Returns:
//   - *Dense: centered copy (r×c).
//   - []float64: column means (len=c).
//
// Complexity:
//   - Time O(r*c), Space O(r*c) for output (+ O(c) means).
//
// Notes:
//   - With samples in rows, the means vector is the mean sample; reuse it to
//     un-center later.
func centerColumns(X Matrix) (*Dense, []float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}
	d, err := toDense(X)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}
	r, c := d.r, d.c

	means := make([]float64, c)
	for i := 0; i < r; i++ {
		base := i * c
		for j := 0; j < c; j++ {
			means[j] += d.data[base+j]
		}
	}
	invR := 1.0 / float64(r)
	for j := range means {
		means[j] *= invR
	}

	Xc, err := ewBroadcastSubCols(d, means)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}

	return Xc, means, nil
}

// normalizeRowsL2 divides every row by its Euclidean norm.
// Implementation:
//   - Stage 1: Validate X.
//   - Stage 2: Compute row norms.
//   - Stage 3: scale = 1/norm for non-zero rows, 1 for zero rows (left unchanged).
//   - Stage 4: Apply ewScaleRows.
//
// Returns the normalized copy and the ORIGINAL norms, so callers can detect
// degenerate rows (norm == 0) and decide their own policy.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func normalizeRowsL2(X Matrix) (*Dense, []float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, matrixErrorf(opNormalizeRowsL2, err)
	}
	d, err := toDense(X)
	if err != nil {
		return nil, nil, matrixErrorf(opNormalizeRowsL2, err)
	}
	r, c := d.r, d.c

	norms := make([]float64, r)
	scale := make([]float64, r)
	var sq float64
	for i := 0; i < r; i++ {
		sq = 0.0
		for _, v := range d.data[i*c : (i+1)*c] {
			sq += v * v
		}
		norms[i] = math.Sqrt(sq)
		if norms[i] > 0 {
			scale[i] = 1.0 / norms[i]
		} else {
			scale[i] = 1.0
		}
	}

	Y, err := ewScaleRows(d, scale)
	if err != nil {
		return nil, nil, matrixErrorf(opNormalizeRowsL2, err)
	}

	return Y, norms, nil
}
