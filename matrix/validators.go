// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for common validation checks.
//  - Keep kernels minimal by delegating shape/nil/symmetry/finite checks here.
//  - Return tagged sentinel errors so call sites can wrap uniformly.
//
// Determinism & Performance:
//  - All checks are pure, deterministic and allocate nothing.
//  - Symmetry check runs O(n²) on the upper triangle only.

package matrix

import (
	"fmt"
	"math"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures the matrix reference is non-nil.
// Returns ErrNilMatrix if m == nil. Complexity: O(1).
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSameShape ensures matrices a and b have equal dimensions.
// Assumes a and b are not nil (caller must ensure).
func ValidateSameShape(a, b Matrix) error {
	if a.Rows() != b.Rows() {
		return validatorErrorf("ValidateSameShape: Rows", ErrDimensionMismatch)
	}
	if a.Cols() != b.Cols() {
		return validatorErrorf("ValidateSameShape: Columns", ErrDimensionMismatch)
	}

	return nil
}

// ValidateSquare checks that m is non-nil and square (Rows == Cols).
func ValidateSquare(m Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateSquare", ErrNilMatrix)
	}
	if m.Rows() != m.Cols() {
		return validatorErrorf("ValidateSquare", ErrDimensionMismatch)
	}

	return nil
}

// ValidateVecLen ensures the vector is non-nil and has length n.
// Time: O(1). Space: O(1).
func ValidateVecLen(x []float64, n int) error {
	if x == nil {
		return validatorErrorf("ValidateVecLen", ErrNilMatrix) // nil argument reuses the nil sentinel
	}
	if len(x) != n {
		return validatorErrorf("ValidateVecLen", ErrDimensionMismatch)
	}

	return nil
}

// ValidateMulCompatible checks a and b are non-nil and a.Cols() == b.Rows().
func ValidateMulCompatible(a, b Matrix) error {
	if a == nil || b == nil {
		return validatorErrorf("ValidateMulCompatible", ErrNilMatrix)
	}
	if a.Cols() != b.Rows() {
		return validatorErrorf("ValidateMulCompatible", ErrDimensionMismatch)
	}

	return nil
}

// ValidateFinite rejects matrices containing NaN or ±Inf.
// Complexity: O(r*c); the Dense fast path scans the flat buffer once.
func ValidateFinite(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	if d, ok := m.(*Dense); ok {
		for _, v := range d.data {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return validatorErrorf("ValidateFinite", ErrNaNInf)
			}
		}
		return nil
	}
	var v float64
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			v, _ = m.At(i, j) // indices are in range by construction
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return validatorErrorf("ValidateFinite", ErrNaNInf)
			}
		}
	}

	return nil
}

// ValidateSymmetric checks A is symmetric within tolerance tol:
// |A[i,j] - A[j,i]| ≤ tol for all i<j.
//
// Inputs: square Matrix m, finite tolerance tol (negative values are abs-ed).
// Complexity: O(n^2). Space: O(1).
// Returns ErrNilMatrix/ErrDimensionMismatch on structural issues, ErrNaNInf on
// a bad tol, ErrAsymmetry on violation.
func ValidateSymmetric(m Matrix, tol float64) error {
	if err := ValidateSquare(m); err != nil {
		return validatorErrorf("ValidateSymmetric", err)
	}
	if math.IsNaN(tol) || math.IsInf(tol, 0) {
		return validatorErrorf("ValidateSymmetric", ErrNaNInf)
	}
	tol = math.Abs(tol)

	n := m.Rows()
	if n <= 1 {
		return nil
	}

	var aij, aji float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			aij, _ = m.At(i, j)
			aji, _ = m.At(j, i)
			if math.Abs(aij-aji) > tol {
				return validatorErrorf("ValidateSymmetric", ErrAsymmetry)
			}
		}
	}

	return nil
}
