// SPDX-License-Identifier: MIT

// Package eigenface: functional configuration for Build, batched projection
// and recognition. This file defines:
//   - Solver and RankPolicy enums,
//   - Option / Options with documented defaults,
//   - WithX constructors that panic on nonsensical values (programmer error),
//   - gatherOptions, which resolves setters against the defaults.
//
// One Option type serves every entry point; options that do not apply to a
// given call are ignored.
package eigenface

import (
	"io"
	"math"
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/eigenface/matrix"
)

// Solver selects the symmetric eigensolver used by Build.
type Solver int

const (
	// SolverJacobi uses the cyclic Jacobi kernel from the matrix package.
	SolverJacobi Solver = iota
	// SolverLAPACK uses gonum's LAPACK-backed mat.EigenSym.
	SolverLAPACK
)

func (s Solver) String() string {
	switch s {
	case SolverJacobi:
		return "jacobi"
	case SolverLAPACK:
		return "lapack"
	default:
		return "unknown"
	}
}

// RankPolicy decides what Build does when asked for k == N eigenfaces.
// A centered corpus of N images has rank at most N-1.
type RankPolicy int

const (
	// RankClamp clamps k == N to N-1 and logs a warning.
	RankClamp RankPolicy = iota
	// RankStrict rejects k == N with ErrInvalidRank.
	RankStrict
)

// ---------- Defaults ----------

const (
	// DefaultTolerance is the relative Jacobi convergence threshold
	// (off-diagonal norm against ‖L‖_F).
	DefaultTolerance = matrix.DefaultEpsilon

	// DefaultMaxSweeps caps Jacobi sweeps.
	DefaultMaxSweeps = matrix.DefaultMaxSweeps

	// DefaultDegenerateTolerance: eigenvalues ≤ tol·λ₁ are treated as zero.
	DefaultDegenerateTolerance = 1e-10
)

// ---------- Internal panic messages ----------

const (
	panicSolverInvalid     = "eigenface: WithSolver: unknown solver"
	panicToleranceInvalid  = "eigenface: WithTolerance: tol must be finite, non-negative"
	panicSweepsInvalid     = "eigenface: WithMaxSweeps: sweeps must be > 0"
	panicRankPolicyInvalid = "eigenface: WithRankPolicy: unknown policy"
	panicDegenerateInvalid = "eigenface: WithDegenerateTolerance: tol must be finite, in [0,1)"
	panicWorkersInvalid    = "eigenface: WithWorkers: workers must be > 0"
	panicLoggerNil         = "eigenface: WithLogger: logger must not be nil"
	panicThresholdInvalid  = "eigenface: WithThreshold: threshold must be non-negative and not NaN"
)

// Option mutates Options.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	solver        Solver
	tol           float64
	maxSweeps     int
	rankPolicy    RankPolicy
	degenerateTol float64
	workers       int
	threshold     float64
	logger        logrus.FieldLogger
}

// WithSolver selects the eigensolver. Default SolverJacobi.
func WithSolver(s Solver) Option {
	if s != SolverJacobi && s != SolverLAPACK {
		panic(panicSolverInvalid)
	}

	return func(o *Options) { o.solver = s }
}

// WithTolerance sets the relative Jacobi convergence tolerance.
func WithTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.tol = tol }
}

// WithMaxSweeps caps the number of Jacobi sweeps.
func WithMaxSweeps(sweeps int) Option {
	if sweeps <= 0 {
		panic(panicSweepsInvalid)
	}

	return func(o *Options) { o.maxSweeps = sweeps }
}

// WithRankPolicy selects how k == N is handled. Default RankClamp.
func WithRankPolicy(p RankPolicy) Option {
	if p != RankClamp && p != RankStrict {
		panic(panicRankPolicyInvalid)
	}

	return func(o *Options) { o.rankPolicy = p }
}

// WithDegenerateTolerance sets the relative eigenvalue floor below which an
// eigenface is rejected with ErrDegenerateBasis.
func WithDegenerateTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 || tol >= 1 {
		panic(panicDegenerateInvalid)
	}

	return func(o *Options) { o.degenerateTol = tol }
}

// WithWorkers bounds the goroutines used by ProjectAll and NewGallery.
// Default runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	if n <= 0 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// WithThreshold sets the acceptance distance for recognition matches.
// Default +Inf: every best match is accepted.
func WithThreshold(t float64) Option {
	if math.IsNaN(t) || t < 0 {
		panic(panicThresholdInvalid)
	}

	return func(o *Options) { o.threshold = t }
}

// WithLogger injects a logger. The default discards everything.
func WithLogger(l logrus.FieldLogger) Option {
	if l == nil {
		panic(panicLoggerNil)
	}

	return func(o *Options) { o.logger = l }
}

// defaultOptions returns the documented defaults.
func defaultOptions() Options {
	return Options{
		solver:        SolverJacobi,
		tol:           DefaultTolerance,
		maxSweeps:     DefaultMaxSweeps,
		rankPolicy:    RankClamp,
		degenerateTol: DefaultDegenerateTolerance,
		workers:       runtime.GOMAXPROCS(0),
		threshold:     math.Inf(1),
		logger:        discardLogger(),
	}
}

// gatherOptions applies user-provided setters on top of defaults.
func gatherOptions(user ...Option) Options {
	o := defaultOptions()
	for _, set := range user {
		if set != nil {
			set(&o)
		}
	}

	return o
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return l
}
