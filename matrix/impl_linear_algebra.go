// SPDX-License-Identifier: MIT
// Package matrix provides the linear-algebra kernels the eigenface pipeline is
// built from: matrix product, transpose, matrix-vector product, the Gram
// product X·Xᵀ and a cyclic Jacobi eigensolver for symmetric matrices.
// All functions perform strict fail-fast validation and never mutate inputs.
//
// Notes:
//   - Every kernel has a *Dense fast path over the flat row-major buffer.
//     Non-Dense inputs are first copied into a Dense through At.
//   - Errors are plain sentinels wrapped via matrixErrorf(op, err).

package matrix

import (
	"fmt"
	"math"
)

// ZeroSum is the initial value for accumulations.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping.
const (
	opMul       = "Mul"
	opTranspose = "Transpose"
	opGram      = "Gram"
	opEigen     = "Eigen"
	opFrobenius = "Frobenius"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Mul performs standard matrix multiplication C = A × B.
// Implementation:
//   - Stage 1: ValidateMulCompatible(a, b); allocate the r×c result.
//   - Stage 2: i→k→j accumulation over flat buffers; zero a[i,k] entries are skipped.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (wrapped with "Mul").
//
// Determinism:
//   - Fixed i→k→j order; identical inputs give bit-identical outputs.
//
// Complexity:
//   - Time O(r·n·c), Space O(r·c).
func Mul(a, b Matrix) (Matrix, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	da, err := toDense(a)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	db, err := toDense(b)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	aRows, aCols, bCols := da.r, da.c, db.c
	res, err := NewDense(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	var (
		i, j, k                          int
		av                               float64
		rowOffsetA, rowOffsetB, rowOffsR int
	)
	for i = 0; i < aRows; i++ {
		rowOffsetA = i * aCols
		rowOffsR = i * bCols
		for k = 0; k < aCols; k++ {
			av = da.data[rowOffsetA+k]
			if av == 0 {
				continue
			}
			rowOffsetB = k * bCols
			for j = 0; j < bCols; j++ {
				res.data[rowOffsR+j] += av * db.data[rowOffsetB+j]
			}
		}
	}

	return res, nil
}

// Transpose returns a new matrix with rows and columns swapped (mᵀ).
// Complexity: Time O(r·c), Space O(r·c).
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	d, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	res, err := NewDense(d.c, d.r)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	for i := 0; i < d.r; i++ {
		base := i * d.c
		for j := 0; j < d.c; j++ {
			res.data[j*d.r+i] = d.data[base+j]
		}
	}

	return res, nil
}

// Gram computes G = X·Xᵀ (r×r) without materializing Xᵀ.
// Implementation:
//   - Stage 1: Validate X and allocate G.
//   - Stage 2: For i ≤ j compute the row dot product once and mirror it,
//     so G is exactly symmetric (bitwise), which the Jacobi solver relies on.
//
// Behavior highlights:
//   - For a centered data matrix with r samples and c features this is the
//     reduced covariance matrix: same nonzero spectrum as XᵀX (c×c) at
//     O(r²c) cost instead of O(rc²).
//
// Complexity:
//   - Time O(r²·c), Space O(r²).
func Gram(X Matrix) (Matrix, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opGram, err)
	}
	d, err := toDense(X)
	if err != nil {
		return nil, matrixErrorf(opGram, err)
	}
	r, c := d.r, d.c
	g, err := NewDense(r, r)
	if err != nil {
		return nil, matrixErrorf(opGram, err)
	}

	var acc float64
	for i := 0; i < r; i++ {
		ri := d.data[i*c : (i+1)*c]
		for j := i; j < r; j++ {
			rj := d.data[j*c : (j+1)*c]
			acc = ZeroSum
			for k := range ri {
				acc += ri[k] * rj[k]
			}
			g.data[i*r+j] = acc
			g.data[j*r+i] = acc
		}
	}

	return g, nil
}

// Frobenius returns ‖m‖_F = sqrt(Σ m[i,j]²).
// Complexity: O(r·c).
func Frobenius(m Matrix) (float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return 0, matrixErrorf(opFrobenius, err)
	}
	d, err := toDense(m)
	if err != nil {
		return 0, matrixErrorf(opFrobenius, err)
	}
	var sq float64
	for _, v := range d.data {
		sq += v * v
	}

	return math.Sqrt(sq), nil
}

// Eigen computes eigenvalues and eigenvectors of a symmetric matrix via
// cyclic Jacobi sweeps.
// Implementation:
//   - Stage 1: Validate a square, finite, symmetric input within tol·‖A‖_F.
//   - Stage 2: Sweep the strict upper triangle in fixed p→q order, zeroing each
//     A[p,q] with one rotation and accumulating it into Q.
//   - Stage 3: Stop once off(A) = sqrt(Σ_{i≠j} A[i,j]²) ≤ tol·‖A‖_F.
//
// Inputs:
//   - m: symmetric Matrix; n := m.Rows().
//   - tol: RELATIVE convergence threshold (typ. 1e-12 for float64).
//   - maxSweeps: safety cap on full sweeps (n(n−1)/2 rotations each).
//
// Returns:
//   - []float64: eigenvalues (diagonal of the rotated matrix), unsorted.
//   - Matrix: Q whose COLUMNS are the matching unit eigenvectors.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (non-square), ErrNaNInf (non-finite
//     input or tol), ErrAsymmetry, ErrMatrixEigenFailed (budget exhausted).
//
// Determinism:
//   - Fixed sweep order and fixed update order produce stable results.
//
// Complexity:
//   - Time O(sweeps · n³), Space O(n²).
//
// Notes:
//   - Rotations use t = sign(θ)/(|θ|+√(θ²+1)), the smaller root, so the
//     diagonal updates A[p,p] −= t·A[p,q], A[q,q] += t·A[p,q] stay accurate.
//   - A zero matrix converges in zero sweeps with Q = I.
func Eigen(m Matrix, tol float64, maxSweeps int) ([]float64, Matrix, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	if math.IsNaN(tol) || math.IsInf(tol, 0) {
		return nil, nil, matrixErrorf(opEigen, ErrNaNInf)
	}
	tol = math.Abs(tol)
	if err := ValidateFinite(m); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	norm, err := Frobenius(m)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	threshold := tol * norm
	if err = ValidateSymmetric(m, threshold); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}

	// Working copy A and orthogonal accumulator Q = I.
	src, err := toDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	a := src.Clone().(*Dense)
	n := a.r
	q, err := NewIdentity(n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}

	var (
		sweep, p, r, i     int
		app, aqq, apq      float64
		aip, aiq, qip, qiq float64
		theta, t, c, s     float64
	)
	for sweep = 0; ; sweep++ {
		if offDiagonalNorm(a) <= threshold {
			break
		}
		if sweep >= maxSweeps {
			return nil, nil, matrixErrorf(opEigen, ErrMatrixEigenFailed)
		}
		for p = 0; p < n-1; p++ {
			for r = p + 1; r < n; r++ {
				apq = a.data[p*n+r]
				if apq == 0 {
					continue
				}
				app = a.data[p*n+p]
				aqq = a.data[r*n+r]

				theta = (aqq - app) / (2 * apq)
				t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
				c = 1.0 / math.Sqrt(t*t+1)
				s = t * c

				for i = 0; i < n; i++ {
					if i == p || i == r {
						continue
					}
					aip = a.data[i*n+p]
					aiq = a.data[i*n+r]
					a.data[i*n+p] = c*aip - s*aiq
					a.data[p*n+i] = a.data[i*n+p]
					a.data[i*n+r] = s*aip + c*aiq
					a.data[r*n+i] = a.data[i*n+r]
				}
				a.data[p*n+p] = app - t*apq
				a.data[r*n+r] = aqq + t*apq
				a.data[p*n+r], a.data[r*n+p] = 0, 0

				for i = 0; i < n; i++ {
					qip = q.data[i*n+p]
					qiq = q.data[i*n+r]
					q.data[i*n+p] = c*qip - s*qiq
					q.data[i*n+r] = s*qip + c*qiq
				}
			}
		}
	}

	eigs := make([]float64, n)
	for i = 0; i < n; i++ {
		eigs[i] = a.data[i*n+i]
	}

	return eigs, q, nil
}

// offDiagonalNorm returns sqrt(Σ_{i≠j} a[i,j]²) of a square Dense.
func offDiagonalNorm(a *Dense) float64 {
	n := a.r
	var sq, v float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v = a.data[i*n+j]
			sq += 2 * v * v
		}
	}

	return math.Sqrt(sq)
}
