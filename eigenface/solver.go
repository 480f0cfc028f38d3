// SPDX-License-Identifier: MIT

package eigenface

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/eigenface/matrix"
)

// eigenpairs holds an unsorted symmetric eigendecomposition:
// vals[j] belongs to column j of vecs.
type eigenpairs struct {
	vals []float64
	vecs matrix.Matrix
}

// solve dispatches to the configured eigensolver.
func solve(L matrix.Matrix, o Options) (eigenpairs, error) {
	switch o.solver {
	case SolverLAPACK:
		return solveLAPACK(L)
	default:
		vals, vecs, err := matrix.EigenSym(L, matrix.WithEpsilon(o.tol), matrix.WithMaxSweeps(o.maxSweeps))
		if err != nil {
			return eigenpairs{}, err
		}
		return eigenpairs{vals: vals, vecs: vecs}, nil
	}
}

// solveLAPACK copies L into a gonum SymDense and factorizes it with
// mat.EigenSym. Only the upper triangle of L is read.
func solveLAPACK(L matrix.Matrix) (eigenpairs, error) {
	n := L.Rows()
	sym := mat.NewSymDense(n, nil)
	var (
		i, j int
		v    float64
		err  error
	)
	for i = 0; i < n; i++ {
		for j = i; j < n; j++ {
			if v, err = L.At(i, j); err != nil {
				return eigenpairs{}, err
			}
			sym.SetSym(i, j, v)
		}
	}

	var es mat.EigenSym
	if ok := es.Factorize(sym, true); !ok {
		return eigenpairs{}, fmt.Errorf("lapack: n=%d: %w", n, ErrSolverFailed)
	}
	vals := es.Values(nil)
	var ev mat.Dense
	es.VectorsTo(&ev)

	rows := make([][]float64, n)
	for i = range rows {
		rows[i] = mat.Row(nil, i, &ev)
	}
	vecs, err := matrix.NewDenseFromRows(rows)
	if err != nil {
		return eigenpairs{}, err
	}

	return eigenpairs{vals: vals, vecs: vecs}, nil
}

// descendingOrder returns column indices sorted by descending eigenvalue.
// The sort is stable, so equal eigenvalues keep solver order.
func descendingOrder(vals []float64) []int {
	idx := make([]int, len(vals))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return vals[idx[a]] > vals[idx[b]] })

	return idx
}

// canonicalSign flips v in place so its largest-magnitude component is
// positive. Ties resolve to the first index.
func canonicalSign(v []float64) {
	best, bestAbs := 0, -1.0
	for i, x := range v {
		ax := x
		if ax < 0 {
			ax = -ax
		}
		if ax > bestAbs {
			best, bestAbs = i, ax
		}
	}
	if len(v) == 0 || v[best] >= 0 {
		return
	}
	for i := range v {
		v[i] = -v[i]
	}
}
