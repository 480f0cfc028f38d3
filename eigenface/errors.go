// SPDX-License-Identifier: MIT
// Package eigenface: sentinel error set.
// Operations return these sentinels wrapped with an op tag ("Build: ...");
// callers match them with errors.Is. Numeric failures from the matrix kernels
// (matrix.ErrNaNInf, matrix.ErrMatrixEigenFailed) pass through unchanged.

package eigenface

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCorpus is returned by Build when the corpus holds no images.
	ErrEmptyCorpus = errors.New("eigenface: empty corpus")

	// ErrCorpusTooSmall is returned by Build when the corpus holds a single
	// image: a centered corpus of one sample has no variance to decompose.
	ErrCorpusTooSmall = errors.New("eigenface: corpus needs at least two images")

	// ErrShapeMismatch indicates an image (or weight vector) whose dimensions
	// do not match the corpus or basis it is used with.
	ErrShapeMismatch = errors.New("eigenface: shape mismatch")

	// ErrDegenerateBasis indicates that a requested eigenface has a zero (or
	// numerically negligible) eigenvalue and cannot be normalized.
	ErrDegenerateBasis = errors.New("eigenface: degenerate basis")

	// ErrInvalidRank indicates a requested number of eigenfaces outside [1, N-1].
	ErrInvalidRank = errors.New("eigenface: invalid rank")

	// ErrEmptyBase is returned when a recognition gallery has no entries.
	ErrEmptyBase = errors.New("eigenface: empty recognition base")

	// ErrLabelMismatch indicates labels that are not 1:1 with gallery entries.
	ErrLabelMismatch = errors.New("eigenface: labels do not match base")

	// ErrNilBasis indicates a nil *Basis receiver or argument.
	ErrNilBasis = errors.New("eigenface: nil basis")

	// ErrSolverFailed indicates that the LAPACK-backed eigensolver did not converge.
	ErrSolverFailed = errors.New("eigenface: eigensolver failed")
)

// Operation tags used by opErrorf.
const (
	opBuild       = "Build"
	opNewBasis    = "NewBasis"
	opNewImage    = "NewImage"
	opProject     = "Project"
	opProjectAll  = "ProjectAll"
	opReconstruct = "Reconstruct"
	opTruncate    = "Truncate"
	opGallery     = "NewGallery"
	opNearest     = "Nearest"
)

// opErrorf wraps err with an operation tag, preserving it for errors.Is.
func opErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
