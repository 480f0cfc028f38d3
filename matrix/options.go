// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for the numeric policy of the
// spectral kernels. This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal) that enforces invariants.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - No dead switches: each option impacts behavior and is covered by tests.
//   - Safe by construction: panic only on invalid parameters (programmer error).
package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultEpsilon is the relative tolerance used by EigenSym: the Jacobi
	// iteration stops once the off-diagonal Frobenius norm drops below
	// eps·‖A‖_F, and symmetry is checked against the same bound.
	DefaultEpsilon = 1e-12

	// DefaultMaxSweeps caps the number of cyclic Jacobi sweeps. Cyclic Jacobi
	// converges quadratically; well-conditioned inputs need 6..12 sweeps.
	DefaultMaxSweeps = 64
)

// ---------- Internal panic messages ----------

const (
	panicEpsilonInvalid   = "matrix: WithEpsilon: eps must be finite, non-negative"
	panicMaxSweepsInvalid = "matrix: WithMaxSweeps: sweeps must be > 0"
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; public entry points accept `...Option`.
type Options struct {
	eps       float64 // >= 0; DefaultEpsilon
	maxSweeps int     // > 0; DefaultMaxSweeps
}

// WithEpsilon sets the relative numeric tolerance eps.
//
// Panics with a stable message when eps is NaN, ±Inf or negative.
// Complexity: O(1).
func WithEpsilon(eps float64) Option {
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps < 0 {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithMaxSweeps sets the cyclic Jacobi sweep budget.
// Panics when sweeps <= 0.
func WithMaxSweeps(sweeps int) Option {
	if sweeps <= 0 {
		panic(panicMaxSweepsInvalid)
	}

	return func(o *Options) { o.maxSweeps = sweeps }
}

// defaultOptions returns the documented defaults.
func defaultOptions() Options {
	return Options{
		eps:       DefaultEpsilon,
		maxSweeps: DefaultMaxSweeps,
	}
}

// gatherOptions applies user-provided setters on top of defaults.
func gatherOptions(user ...Option) Options {
	o := defaultOptions()
	for _, set := range user {
		if set != nil {
			set(&o) // apply in order; last-writer-wins semantics
		}
	}

	return o
}
