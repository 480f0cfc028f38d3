// SPDX-License-Identifier: MIT
package eigenface_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/eigenface/eigenface"
)

// testShape is small enough for fast tests and has D > N for every corpus used.
var testShape = eigenface.Shape{4, 5}

// RandCorpus returns n random images of shape with pixels in [0,1).
func RandCorpus(t *testing.T, n int, shape eigenface.Shape, seed int64) []eigenface.Image {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	out := make([]eigenface.Image, n)
	for i := range out {
		pix := make([]float64, shape.Size())
		for j := range pix {
			pix[j] = rng.Float64()
		}
		img, err := eigenface.NewImage(shape, pix)
		require.NoError(t, err)
		out[i] = img
	}

	return out
}

// MustBuild builds a basis or fails the test.
func MustBuild(t *testing.T, corpus []eigenface.Image, k int, opts ...eigenface.Option) *eigenface.Basis {
	t.Helper()
	b, err := eigenface.Build(corpus, k, opts...)
	require.NoError(t, err)

	return b
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}

	return s
}

func mse(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}

	return s / float64(len(a))
}

func sliceClose(t *testing.T, got, want []float64, atol float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range got {
		if math.Abs(got[i]-want[i]) > atol {
			t.Fatalf("idx=%d: got=%g want=%g (atol=%g)", i, got[i], want[i], atol)
		}
	}
}
