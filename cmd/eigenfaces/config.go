// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/eigenface/eigenface"
	"github.com/katalvlaran/eigenface/imageio"
)

// Config holds every tunable of the CLI. Values come from DefaultConfig,
// then an optional YAML file (--config), then command-line flags.
type Config struct {
	Components int     `yaml:"components"`  // eigenfaces to compute (K)
	Limit      int     `yaml:"limit"`       // images loaded per directory, 0 = all
	BaseLimit  int     `yaml:"base_limit"`  // recognition base cap
	Grayscale  bool    `yaml:"grayscale"`   // load {H,W} instead of {H,W,3}
	Strict     bool    `yaml:"strict"`      // fail on unreadable files
	Solver     string  `yaml:"solver"`      // jacobi | lapack
	Tolerance  float64 `yaml:"tolerance"`   // relative Jacobi tolerance
	MaxSweeps  int     `yaml:"max_sweeps"`  // Jacobi sweep budget
	RankPolicy string  `yaml:"rank_policy"` // clamp | strict
	Workers    int     `yaml:"workers"`     // projection goroutines, 0 = GOMAXPROCS
	Threshold  float64 `yaml:"threshold"`   // recognition acceptance distance, 0 = none
	Output     string  `yaml:"output"`      // directory for generated images
	Columns    int     `yaml:"columns"`     // grid columns
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Components: 15,
		Limit:      400,
		BaseLimit:  10000,
		Solver:     eigenface.SolverJacobi.String(),
		Tolerance:  eigenface.DefaultTolerance,
		MaxSweeps:  eigenface.DefaultMaxSweeps,
		RankPolicy: "clamp",
		Output:     "out",
		Columns:    5,
	}
}

// LoadConfig returns DefaultConfig overlaid with the YAML file at path.
// An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return cfg, fmt.Errorf("unsupported config file extension %q, use .yaml", ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling the yaml config file: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate rejects values the library would refuse (or panic on).
func (c Config) Validate() error {
	switch {
	case c.Components < 1:
		return configErr("components must be >= 1, got %d", c.Components)
	case c.Limit < 0:
		return configErr("limit must be >= 0, got %d", c.Limit)
	case c.BaseLimit < 0:
		return configErr("base_limit must be >= 0, got %d", c.BaseLimit)
	case c.Tolerance < 0 || !isFinite(c.Tolerance):
		return configErr("tolerance must be finite and >= 0, got %g", c.Tolerance)
	case c.MaxSweeps < 1:
		return configErr("max_sweeps must be >= 1, got %d", c.MaxSweeps)
	case c.Workers < 0:
		return configErr("workers must be >= 0, got %d", c.Workers)
	case c.Threshold < 0 || math.IsNaN(c.Threshold):
		return configErr("threshold must be >= 0, got %g", c.Threshold)
	case c.Columns < 1:
		return configErr("columns must be >= 1, got %d", c.Columns)
	case c.Output == "":
		return configErr("output must not be empty")
	}
	if _, err := c.solver(); err != nil {
		return err
	}
	if _, err := c.rankPolicy(); err != nil {
		return err
	}

	return nil
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func configErr(format string, args ...any) error {
	return fmt.Errorf("invalid config: "+format, args...)
}

func (c Config) solver() (eigenface.Solver, error) {
	switch strings.ToLower(c.Solver) {
	case "jacobi", "":
		return eigenface.SolverJacobi, nil
	case "lapack":
		return eigenface.SolverLAPACK, nil
	default:
		return 0, configErr("solver must be jacobi or lapack, got %q", c.Solver)
	}
}

func (c Config) rankPolicy() (eigenface.RankPolicy, error) {
	switch strings.ToLower(c.RankPolicy) {
	case "clamp", "":
		return eigenface.RankClamp, nil
	case "strict":
		return eigenface.RankStrict, nil
	default:
		return 0, configErr("rank_policy must be clamp or strict, got %q", c.RankPolicy)
	}
}

// BuildOptions maps the config onto eigenface options. Call Validate first.
func (c Config) BuildOptions(log logrus.FieldLogger) []eigenface.Option {
	solver, _ := c.solver()
	policy, _ := c.rankPolicy()
	opts := []eigenface.Option{
		eigenface.WithSolver(solver),
		eigenface.WithTolerance(c.Tolerance),
		eigenface.WithMaxSweeps(c.MaxSweeps),
		eigenface.WithRankPolicy(policy),
		eigenface.WithLogger(log),
	}
	if c.Workers > 0 {
		opts = append(opts, eigenface.WithWorkers(c.Workers))
	}
	if c.Threshold > 0 {
		opts = append(opts, eigenface.WithThreshold(c.Threshold))
	}

	return opts
}

// LoaderOptions maps the config onto imageio options.
func (c Config) LoaderOptions(log logrus.FieldLogger) []imageio.Option {
	return []imageio.Option{
		imageio.WithLimit(c.Limit),
		imageio.WithGrayscale(c.Grayscale),
		imageio.WithStrict(c.Strict),
		imageio.WithLoaderLogger(log),
	}
}

// corpusFlags are shared by every command that builds a basis. Zero values
// leave the config untouched.
type corpusFlags struct {
	Components int     `short:"k" long:"components" description:"number of eigenfaces"`
	Limit      int     `long:"limit" description:"maximum images to load per directory"`
	Grayscale  bool    `long:"gray" description:"load images as grayscale"`
	Strict     bool    `long:"strict" description:"fail on unreadable or mismatched files"`
	Solver     string  `long:"solver" description:"eigensolver" choice:"jacobi" choice:"lapack"`
	Workers    int     `long:"workers" description:"projection goroutines"`
	Threshold  float64 `long:"threshold" description:"recognition acceptance distance"`
	Output     string  `short:"o" long:"output" description:"output directory"`
	Columns    int     `long:"columns" description:"grid columns"`
}

// apply overrides cfg with every flag that was set to a non-zero value.
func (f corpusFlags) apply(cfg *Config) {
	if f.Components > 0 {
		cfg.Components = f.Components
	}
	if f.Limit > 0 {
		cfg.Limit = f.Limit
	}
	if f.Grayscale {
		cfg.Grayscale = true
	}
	if f.Strict {
		cfg.Strict = true
	}
	if f.Solver != "" {
		cfg.Solver = f.Solver
	}
	if f.Workers > 0 {
		cfg.Workers = f.Workers
	}
	if f.Threshold > 0 {
		cfg.Threshold = f.Threshold
	}
	if f.Output != "" {
		cfg.Output = f.Output
	}
	if f.Columns > 0 {
		cfg.Columns = f.Columns
	}
}
