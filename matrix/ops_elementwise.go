// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide small, private element-wise and broadcast kernels (ew*) shared by
//     the statistics transforms (centering, row normalization).
//   - Keep all loops deterministic and cache-friendly.
//
// Determinism & Performance:
//   - Fixed loop orders (i→j or flat 0..n-1).
//   - No hidden allocations beyond the output Dense; O(r*c) time and space.

package matrix

// ewBroadcastSubCols computes out[i,j] = X[i,j] - colMeans[j].
// Time: O(r*c). Space: O(r*c). Deterministic i→j loops.
func ewBroadcastSubCols(X Matrix, colMeans []float64) (*Dense, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf("broadcastSubCols", err)
	}
	r, c := X.Rows(), X.Cols()
	if len(colMeans) != c {
		return nil, matrixErrorf("broadcastSubCols", ErrDimensionMismatch)
	}
	d, err := toDense(X)
	if err != nil {
		return nil, matrixErrorf("broadcastSubCols", err)
	}
	out, err := NewDense(r, c)
	if err != nil {
		return nil, matrixErrorf("broadcastSubCols", err)
	}

	for i := 0; i < r; i++ {
		base := i * c
		for j := 0; j < c; j++ {
			out.data[base+j] = d.data[base+j] - colMeans[j]
		}
	}

	return out, nil
}

// ewScaleRows computes out[i,j] = X[i,j] * scale[i].
// Time: O(r*c). Space: O(r*c). Used for L2 row normalization.
func ewScaleRows(X Matrix, scale []float64) (*Dense, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf("scaleRows", err)
	}
	r, c := X.Rows(), X.Cols()
	if len(scale) != r {
		return nil, matrixErrorf("scaleRows", ErrDimensionMismatch)
	}
	d, err := toDense(X)
	if err != nil {
		return nil, matrixErrorf("scaleRows", err)
	}
	out, err := NewDense(r, c)
	if err != nil {
		return nil, matrixErrorf("scaleRows", err)
	}

	for i := 0; i < r; i++ {
		base := i * c
		sf := scale[i]
		for j := 0; j < c; j++ {
			out.data[base+j] = d.data[base+j] * sf
		}
	}

	return out, nil
}
