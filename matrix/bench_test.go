// Package matrix_test provides benchmarks for the eigenface kernels,
// using deterministic random fill for Dense matrices.
package matrix_test

import (
	"fmt"
	"testing"

	"github.com/katalvlaran/eigenface/matrix"
)

// benchSamples are corpus sizes (rows) benchmarked against a fixed pixel count.
var benchSamples = []int{16, 64, 128}

const benchPixels = 4096

// sinks to defeat dead-code elimination
var (
	sinkM matrix.Matrix
	sinkV []float64
)

func BenchmarkGram(b *testing.B) {
	b.ReportAllocs()
	for _, n := range benchSamples {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			X := mustDenseB(b, n, benchPixels)
			fillDenseRand(b, X, 1337)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				m, err := matrix.Gram(X)
				if err != nil {
					b.Fatal(err)
				}
				sinkM = m
			}
		})
	}
}

func BenchmarkEigen(b *testing.B) {
	b.ReportAllocs()
	for _, n := range benchSamples {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			X := mustDenseB(b, n, 64)
			fillDenseRand(b, X, 4242)
			L, err := matrix.Gram(X)
			if err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				vals, Q, err := matrix.EigenSym(L)
				if err != nil {
					b.Fatal(err)
				}
				sinkV, sinkM = vals, Q
			}
		})
	}
}

func BenchmarkMul(b *testing.B) {
	b.ReportAllocs()
	for _, n := range benchSamples {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			V := mustDenseB(b, n, n)
			C := mustDenseB(b, n, benchPixels)
			fillDenseRand(b, V, 1)
			fillDenseRand(b, C, 2)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				m, err := matrix.Mul(V, C)
				if err != nil {
					b.Fatal(err)
				}
				sinkM = m
			}
		})
	}
}
