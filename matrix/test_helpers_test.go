// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic test fixtures and utilities for kernels.
//   • Keep all data finite and well-formed to avoid numeric-policy interference.

package matrix_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/eigenface/matrix"
)

// hide wraps any Matrix to hide its concrete type from type assertions,
// forcing kernels onto their generic (At/Set) path.
type hide struct{ matrix.Matrix }

// MustDense allocates an r×c *Dense or fails the test.
func MustDense(t *testing.T, r, c int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	if err != nil {
		t.Fatalf("NewDense(%d,%d): %v", r, c, err)
	}

	return m
}

// NewFilledDense builds an r×c *Dense from a row-major flat slice.
func NewFilledDense(t *testing.T, r, c int, vals []float64) *matrix.Dense {
	t.Helper()
	if len(vals) != r*c {
		t.Fatalf("NewFilledDense: want %d values, got %d", r*c, len(vals))
	}
	d := MustDense(t, r, c)
	var i, j int // loop iterators
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			MustSet(t, d, i, j, vals[i*c+j])
		}
	}

	return d
}

// RandFilledDense returns an r×c Dense filled with U[-1,1) values from seed.
func RandFilledDense(t *testing.T, r, c int, seed int64) *matrix.Dense {
	t.Helper()
	m := MustDense(t, r, c)
	rng := rand.New(rand.NewSource(seed))
	var i, j int
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			MustSet(t, m, i, j, rng.Float64()*2-1)
		}
	}

	return m
}

// RandSymmetric returns a random symmetric n×n matrix (B + Bᵀ)/2.
func RandSymmetric(t *testing.T, n int, seed int64) *matrix.Dense {
	t.Helper()
	b := RandFilledDense(t, n, n, seed)
	s := MustDense(t, n, n)
	var i, j int
	for i = 0; i < n; i++ {
		for j = i; j < n; j++ {
			v := 0.5 * (MustAt(t, b, i, j) + MustAt(t, b, j, i))
			MustSet(t, s, i, j, v)
			MustSet(t, s, j, i, v)
		}
	}

	return s
}

func MustSet(t *testing.T, m matrix.Matrix, i, j int, v float64) {
	t.Helper()
	if err := m.Set(i, j, v); err != nil {
		t.Fatalf("Set(%d,%d,%v): %v", i, j, v, err)
	}
}

func MustAt(t *testing.T, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	if err != nil {
		t.Fatalf("At(%d,%d): %v", i, j, err)
	}

	return v
}

// CompareExact asserts bitwise equality of m against a row-major literal.
func CompareExact(t *testing.T, want [][]float64, m matrix.Matrix) {
	t.Helper()
	r, c := m.Rows(), m.Cols()
	if len(want) != r {
		t.Fatalf("CompareExact: Rows = %d; want %d", r, len(want))
	}
	var i, j int // loop iterators
	var v float64
	for i = 0; i < r; i++ {
		if len(want[i]) != c {
			t.Fatalf("CompareExact: Cols[%d] = %d; want %d", i, c, len(want[i]))
		}
		for j = 0; j < c; j++ {
			if v = MustAt(t, m, i, j); v != want[i][j] {
				t.Fatalf("m[%d,%d]=%v; want %v", i, j, v, want[i][j])
			}
		}
	}
}

// CompareClose asserts |a-b| ≤ atol + rtol*|b| element-wise.
func CompareClose(t *testing.T, a, b matrix.Matrix, rtol, atol float64) {
	t.Helper()
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		t.Fatalf("CompareClose: shapes %dx%d vs %dx%d", a.Rows(), a.Cols(), b.Rows(), b.Cols())
	}
	var av, bv float64
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			av, bv = MustAt(t, a, i, j), MustAt(t, b, i, j)
			if math.Abs(av-bv) > atol+rtol*math.Abs(bv) {
				t.Fatalf("CompareClose [%d,%d]: got=%g want=%g (rtol=%g atol=%g)", i, j, av, bv, rtol, atol)
			}
		}
	}
}

func sliceClose(t *testing.T, a, b []float64, rtol, atol float64) {
	t.Helper()
	if len(a) != len(b) {
		t.Fatalf("slice lengths: %d vs %d", len(a), len(b))
	}
	var diff float64
	for i := range a {
		diff = math.Abs(a[i] - b[i])
		if diff > (atol + rtol*math.Abs(b[i])) {
			t.Fatalf("sliceClose idx=%d: got=%g want=%g (rtol=%g atol=%g)", i, a[i], b[i], rtol, atol)
		}
	}
}

func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("want %v; got %v", target, err)
	}
}

func ExpectPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic, got nil")
		}
	}()
	fn()
}

func RowL2Norm(m matrix.Matrix, i int) float64 {
	var j int
	var s, v float64
	for j = 0; j < m.Cols(); j++ {
		v, _ = m.At(i, j)
		s += v * v
	}

	return math.Sqrt(s)
}

func mustDenseB(b *testing.B, r, c int) *matrix.Dense {
	d, err := matrix.NewDense(r, c)
	if err != nil {
		b.Fatalf("NewDense(%d,%d): %v", r, c, err)
	}
	return d
}

func fillDenseRand(b *testing.B, d *matrix.Dense, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	rows, cols := d.Rows(), d.Cols()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			_ = d.Set(i, j, rng.Float64()*2-1) // [-1,1]
		}
	}
}
