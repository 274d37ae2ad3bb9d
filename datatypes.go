// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Minimax Estimation of Partially-Observed VAR Processes
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"PartialVAR_Estimation/estimator"
	"PartialVAR_Estimation/logging"
)

// ExperimentConfig is one experiment point as read from a YAML file.
type ExperimentConfig struct {
	// Master seed for theta generation, simulation and replications
	Seed uint64 `yaml:"seed"`

	Process      ProcessConfig     `yaml:"process"`
	Estimator    EstimatorConfig   `yaml:"estimator"`
	Replications ReplicationConfig `yaml:"replications"`
	Log          logging.Config    `yaml:"log"`
}

// ProcessConfig describes theta and the sampling process.
// Theta is either given row by row or drawn at random.
type ProcessConfig struct {
	Dim     int                `yaml:"dim"`
	Theta   [][]float64        `yaml:"theta"`
	Random  *RandomThetaConfig `yaml:"random"`
	Sigma   float64            `yaml:"sigma"`
	A       float64            `yaml:"a"`
	B       float64            `yaml:"b"`
	Omega   float64            `yaml:"omega"`
	Horizon int                `yaml:"horizon"`
}

type RandomThetaConfig struct {
	NonzerosPerRow int     `yaml:"nonzerosPerRow"`
	Magnitude      float64 `yaml:"magnitude"`
}

type EstimatorConfig struct {
	// dense, sparse or oracle
	Method  string `yaml:"method"`
	BaseLag int    `yaml:"baseLag"`

	// sparse only
	TargetSparsity float64 `yaml:"targetSparsity"`
	LambdaMin      float64 `yaml:"lambdaMin"`
	LambdaMax      float64 `yaml:"lambdaMax"`
	RelTol         float64 `yaml:"relTol"`
	MaxIterations  int     `yaml:"maxIterations"`
	SolverTol      float64 `yaml:"solverTol"`

	// dense only
	PinvTolerance float64 `yaml:"pinvTolerance"`
	MaxCondition  float64 `yaml:"maxCondition"`
	Strict        bool    `yaml:"strict"`
}

type ReplicationConfig struct {
	Count   int     `yaml:"count"`
	Workers int     `yaml:"workers"`
	Alpha   float64 `yaml:"alpha"`
}

const (
	MethodDense  = "dense"
	MethodSparse = "sparse"
	MethodOracle = "oracle"
)

// DefaultConfig is the experiment used when no file is given: a random
// 10x10 theta with 2 nonzeros per row, observed through a sticky mask.
func DefaultConfig() *ExperimentConfig {
	cfg := &ExperimentConfig{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads path, fills in defaults for the fields left out and
// validates the result.
func LoadConfig(path string) (*ExperimentConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := &ExperimentConfig{}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *ExperimentConfig) applyDefaults() {
	if c.Seed == 0 {
		c.Seed = 1
	}

	p := &c.Process
	if len(p.Theta) == 0 && p.Random == nil {
		p.Random = &RandomThetaConfig{NonzerosPerRow: 2, Magnitude: 0.4}
	}
	if p.Dim == 0 {
		if len(p.Theta) > 0 {
			p.Dim = len(p.Theta)
		} else {
			p.Dim = 10
		}
	}
	if p.Sigma == 0 {
		p.Sigma = 1
	}
	if p.A == 0 && p.B == 0 {
		p.A, p.B = 0.5, 0.2
	}
	if p.Horizon == 0 {
		p.Horizon = 1000
	}

	e := &c.Estimator
	if e.Method == "" {
		e.Method = MethodDense
	}
	e.Method = strings.ToLower(e.Method)
	if e.TargetSparsity == 0 && p.Random != nil {
		e.TargetSparsity = float64(p.Random.NonzerosPerRow)
	}

	r := &c.Replications
	if r.Count == 0 {
		r.Count = 100
	}
	if r.Alpha == 0 {
		r.Alpha = 0.05
	}

	if c.Log.Filename == "" {
		c.Log.Filename = "-"
	}
	if c.Log.DefaultLevel == "" {
		c.Log.DefaultLevel = "WARN"
	}
}

// Validate checks everything that can be checked without simulating.
func (c *ExperimentConfig) Validate() error {
	p := c.Process
	if p.Dim < 1 {
		return fmt.Errorf("process.dim must be >= 1, got %d", p.Dim)
	}
	if len(p.Theta) > 0 && p.Random != nil {
		return fmt.Errorf("process.theta and process.random are mutually exclusive")
	}
	if len(p.Theta) > 0 {
		if len(p.Theta) != p.Dim {
			return fmt.Errorf("process.theta has %d rows, dim is %d", len(p.Theta), p.Dim)
		}
		for i, row := range p.Theta {
			if len(row) != p.Dim {
				return fmt.Errorf("process.theta row %d has %d values, dim is %d", i, len(row), p.Dim)
			}
		}
	}
	if p.Random != nil {
		if p.Random.NonzerosPerRow < 0 || p.Random.NonzerosPerRow > p.Dim {
			return fmt.Errorf("process.random.nonzerosPerRow must be in [0,%d], got %d", p.Dim, p.Random.NonzerosPerRow)
		}
		if p.Random.Magnitude <= 0 || float64(p.Random.NonzerosPerRow)*p.Random.Magnitude >= 1 {
			return fmt.Errorf("process.random: nonzerosPerRow*magnitude must be in (0,1)")
		}
	}
	if p.Sigma <= 0 {
		return fmt.Errorf("process.sigma must be > 0, got %g", p.Sigma)
	}
	if p.Horizon < 2 {
		return fmt.Errorf("process.horizon must be >= 2, got %d", p.Horizon)
	}
	model := estimator.SamplingModel{A: p.A, B: p.B, Omega: p.Omega}
	if err := model.Validate(); err != nil {
		return fmt.Errorf("process: %w", err)
	}

	e := c.Estimator
	switch e.Method {
	case MethodDense, MethodOracle:
	case MethodSparse:
		if e.TargetSparsity < 0 || e.TargetSparsity > float64(p.Dim) {
			return fmt.Errorf("estimator.targetSparsity must be in [0,%d], got %g", p.Dim, e.TargetSparsity)
		}
		if (e.LambdaMin != 0 || e.LambdaMax != 0) && !(e.LambdaMin < e.LambdaMax) {
			return fmt.Errorf("estimator: lambdaMin %g must be below lambdaMax %g", e.LambdaMin, e.LambdaMax)
		}
	default:
		return fmt.Errorf("estimator.method must be one of %s, %s, %s; got %q", MethodDense, MethodSparse, MethodOracle, e.Method)
	}
	if e.BaseLag < 0 || e.BaseLag+1 >= p.Horizon {
		return fmt.Errorf("estimator.baseLag must be in [0,%d), got %d", p.Horizon-1, e.BaseLag)
	}

	r := c.Replications
	if r.Count < 1 {
		return fmt.Errorf("replications.count must be >= 1, got %d", r.Count)
	}
	if r.Alpha <= 0 || r.Alpha >= 1 {
		return fmt.Errorf("replications.alpha must be in (0,1), got %g", r.Alpha)
	}

	if _, err := logging.ParseLevel(c.Log.DefaultLevel); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// ProcessParameters builds the estimator parameters. A random theta is
// drawn from the master seed so the same config always yields the same
// matrix.
func (c *ExperimentConfig) ProcessParameters() (estimator.ProcessParameters, error) {
	p := c.Process
	var theta *mat.Dense
	if len(p.Theta) > 0 {
		theta = mat.NewDense(p.Dim, p.Dim, nil)
		for i, row := range p.Theta {
			theta.SetRow(i, row)
		}
	} else {
		var err error
		theta, err = estimator.RandomSparseTheta(p.Dim, p.Random.NonzerosPerRow, p.Random.Magnitude, estimator.NewRand(c.Seed))
		if err != nil {
			return estimator.ProcessParameters{}, err
		}
	}
	params := estimator.ProcessParameters{
		Theta:   theta,
		Sigma:   p.Sigma,
		A:       p.A,
		B:       p.B,
		Omega:   p.Omega,
		Horizon: p.Horizon,
	}
	return params, params.Validate()
}

// NewEstimator builds the estimator named by Estimator.Method.
func (c *ExperimentConfig) NewEstimator(log *slog.Logger, metrics *estimator.Metrics) (estimator.Estimator, error) {
	e := c.Estimator
	model := estimator.SamplingModel{A: c.Process.A, B: c.Process.B, Omega: c.Process.Omega}
	switch e.Method {
	case MethodDense:
		return &estimator.DenseEstimator{
			Model:         model,
			BaseLag:       e.BaseLag,
			PinvTolerance: e.PinvTolerance,
			MaxCondition:  e.MaxCondition,
			Strict:        e.Strict,
			Log:           log,
			Metrics:       metrics,
		}, nil
	case MethodSparse:
		return &estimator.SparseEstimator{
			Model:         model,
			BaseLag:       e.BaseLag,
			Target:        e.TargetSparsity,
			Solver:        &estimator.SimplexSolver{Tol: e.SolverTol},
			LambdaMin:     e.LambdaMin,
			LambdaMax:     e.LambdaMax,
			RelTol:        e.RelTol,
			MaxIterations: e.MaxIterations,
			Log:           log,
			Metrics:       metrics,
		}, nil
	case MethodOracle:
		return &estimator.OracleEstimator{Metrics: metrics}, nil
	}
	return nil, fmt.Errorf("unknown estimator method %q", e.Method)
}
