// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// This file defines ONLY package-level sentinel errors used across the matrix
// package. Kernels return these sentinels (optionally wrapped with an op tag)
// and tests match them via errors.Is. No kernel panics on user input.

package matrix

import "errors"

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." so that wrapped chains coming
// out of the eigenface pipeline stay greppable. Kernels wrap with
// matrixErrorf(op, ErrX); callers match with errors.Is.
//
// ERROR PRIORITY (enforced in tests):
// nil -> shape/index -> NaN/Inf -> dimension mismatch -> structural violations
// -> convergence.

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// Public indexers (At/Set/Row) return this, never panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g. Mul where a.Cols != b.Rows, or a vector of the wrong length.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrAsymmetry signals that a matrix expected to be symmetric violated symmetry
	// within the configured tolerance.
	ErrAsymmetry = errors.New("matrix: matrix is not symmetric within eps")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required
	// (ingestion, tolerances).
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil Matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrRaggedRows indicates that a row-slice input had rows of different lengths.
	ErrRaggedRows = errors.New("matrix: ragged rows")

	// ErrMatrixEigenFailed indicates that the Jacobi routine did not reach the
	// requested off-diagonal tolerance within the sweep budget.
	ErrMatrixEigenFailed = errors.New("matrix: eigen decomposition failed")
)

// ErrIndexOutOfBounds is the historical name of ErrOutOfRange.
var ErrIndexOutOfBounds = ErrOutOfRange // Deprecated: use ErrOutOfRange.

// ErrNotSymmetric is the historical name of ErrAsymmetry.
var ErrNotSymmetric = ErrAsymmetry // Deprecated: use ErrAsymmetry.
