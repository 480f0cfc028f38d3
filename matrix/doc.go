// Package matrix offers the dense linear-algebra kernels behind the eigenface
// pipeline.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with bounds-checked At/Set that return
//     errors instead of panicking.
//   - Products: Mul, Transpose and Gram (X·Xᵀ without materializing Xᵀ).
//   - Eigen / EigenSym, a cyclic Jacobi eigensolver for symmetric matrices with
//     a relative convergence threshold and a sweep budget.
//   - Statistics: CenterColumns (mean removal) and NormalizeRowsL2.
//   - Validators and sentinel errors shared by every kernel.
//
// All kernels are deterministic: fixed loop orders, no map iteration and no
// hidden randomness. Inputs are never mutated.
//
// Dense matrices are best for the small reduced problems (N×N with N the
// number of training images) and the N×D data blocks the pipeline builds.
package matrix
