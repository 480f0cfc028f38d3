// SPDX-License-Identifier: MIT

// Package eigenface computes eigenface subspaces and uses them to reconstruct
// and recognize faces.
//
// What:
//
//   - Build derives the mean face and the K leading eigenfaces of a corpus of
//     same-shape images through the reduced covariance matrix L = C·Cᵀ
//     (N×N for N images) instead of the D×D pixel covariance.
//   - Basis.Project maps an image to its K weights; Basis.Reconstruct maps
//     weights back to an image.
//   - Gallery finds the nearest known face in weight space.
//
// Why:
//
//   - For N images of D pixels with N ≪ D, the reduced problem costs
//     O(N²·D + N³) instead of O(D³) and yields the same nonzero spectrum.
//
// Determinism:
//
//   - Eigenvectors are only defined up to sign; every eigenface is flipped
//     so that its largest-magnitude pixel is positive. Repeated builds and
//     both solvers (SolverJacobi, SolverLAPACK) agree.
//
// Errors:
//
//   - Sentinels (ErrEmptyCorpus, ErrShapeMismatch, ErrInvalidRank, ...) are
//     wrapped with the failing operation and matched with errors.Is.
//
// Example:
//
//	basis, err := eigenface.Build(corpus, 20)
//	if err != nil { ... }
//	gallery, err := eigenface.NewGallery(ctx, basis, corpus, labels)
//	match, err := gallery.Recognize(query)
package eigenface
