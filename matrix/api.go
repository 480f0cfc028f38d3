// SPDX-License-Identifier: MIT
// Package matrix: public API facades.
//
// Purpose:
//   - Provide thin entry points for common tasks across the package.
//   - Each facade delegates to the canonical implementation; no logic duplication.
//
// Determinism & Policy:
//   - Facades never change the loop orders or numeric policy of underlying kernels.
//   - Validation is performed in the kernels; facades only compose or forward.

package matrix

// NewIdentity returns I_n (n×n identity).
// Complexity: O(n^2) zeroing + O(n) diagonal writes.
func NewIdentity(n int) (*Dense, error) {
	I, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		I.data[i*n+i] = 1.0
	}

	return I, nil
}

// EigenSym runs Eigen with the numeric policy resolved from opts
// (WithEpsilon, WithMaxSweeps).
func EigenSym(m Matrix, opts ...Option) ([]float64, Matrix, error) {
	o := gatherOptions(opts...)

	return Eigen(m, o.eps, o.maxSweeps)
}

// CenterColumns subtracts the per-column mean (see centerColumns).
// Complexity: O(r*c).
func CenterColumns(X Matrix) (*Dense, []float64, error) { return centerColumns(X) }

// NormalizeRowsL2 scales each row to unit Euclidean norm; zero rows are left
// unchanged and reported through the returned norms.
func NormalizeRowsL2(X Matrix) (*Dense, []float64, error) { return normalizeRowsL2(X) }
