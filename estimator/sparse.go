// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Minimax Estimation of Partially-Observed VAR Processes
// Class: 02-613 at Caregie Mellon University

package estimator

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"PartialVAR_Estimation/logging"
)

// Bisection defaults for the sparse estimator
const (
	DefaultLambdaMin     = 0.0
	DefaultLambdaMax     = 100.0
	DefaultRelTol        = 0.1
	DefaultMaxIterations = 60
)

// SparseEstimator finds the L1-minimal theta with
// max |theta Gamma_0 - Gamma_1| <= lambda, bisecting on lambda until the
// density of theta matches Target.
//
// Density is the number of nonzero entries divided by D, i.e. the average
// number of nonzeros per row, and Target uses the same convention.
type SparseEstimator struct {
	Model   SamplingModel
	BaseLag int
	Target  float64

	// SimplexSolver when nil
	Solver LPSolver

	// Initial bracket, [DefaultLambdaMin, DefaultLambdaMax] when both are zero
	LambdaMin float64
	LambdaMax float64
	// Stop once (max-min)/max drops below RelTol
	RelTol float64
	// Probes allowed before ErrSparsityNotReached
	MaxIterations int

	Log     *slog.Logger
	Metrics *Metrics
}

// EstimateSparse runs the sparse estimator with the default bracket,
// tolerance and iteration bound.
func EstimateSparse(ctx context.Context, obs *Observations, model SamplingModel, baseLag int, target float64, solver LPSolver) (*Estimate, error) {
	e := &SparseEstimator{Model: model, BaseLag: baseLag, Target: target, Solver: solver}
	return e.EstimateObservations(ctx, obs)
}

func (e *SparseEstimator) Name() string { return "sparse" }

func (e *SparseEstimator) Estimate(ctx context.Context, tr *Trajectory) (*Estimate, error) {
	if tr == nil {
		return nil, fmt.Errorf("%w: trajectory not provided", ErrInvalidParameters)
	}
	return e.EstimateObservations(ctx, tr.Observations())
}

// EstimateObservations runs the bisection. Every probe solves a fresh LP
// with lambda fixed; a probe that does not end at an optimum aborts the
// whole estimate with ErrNotOptimal.
func (e *SparseEstimator) EstimateObservations(ctx context.Context, obs *Observations) (*Estimate, error) {
	log := e.Log
	if log == nil {
		log = logging.GetLog("estimator.sparse")
	}
	solver := e.Solver
	if solver == nil {
		solver = &SimplexSolver{}
	}
	if e.Metrics != nil {
		e.Metrics.Calls.Inc(1)
	}

	T, D, err := obs.Dims()
	if err != nil {
		return nil, err
	}
	h0 := e.BaseLag
	if h0 < 0 {
		return nil, fmt.Errorf("%w: base lag must be >= 0, got %d", ErrInvalidParameters, h0)
	}
	if T <= h0+1 {
		return nil, fmt.Errorf("%w: need more than %d observations for base lag %d, got %d", ErrInvalidParameters, h0+1, h0, T)
	}
	if e.Target < 0 || e.Target > float64(D) || math.IsNaN(e.Target) {
		return nil, fmt.Errorf("%w: target sparsity must be in [0,%d], got %g", ErrInvalidParameters, D, e.Target)
	}

	lo, hi := e.LambdaMin, e.LambdaMax
	if lo == 0 && hi == 0 {
		lo, hi = DefaultLambdaMin, DefaultLambdaMax
	}
	if !(lo < hi) {
		return nil, fmt.Errorf("%w: lambda bracket [%g,%g] is empty", ErrInvalidParameters, lo, hi)
	}
	relTol := e.RelTol
	if relTol <= 0 {
		relTol = DefaultRelTol
	}
	maxIter := e.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	g0, err := LagCovariance(obs, e.Model, h0)
	if err != nil {
		return nil, fmt.Errorf("lag %d covariance: %w", h0, err)
	}
	g1, err := LagCovariance(obs, e.Model, h0+1)
	if err != nil {
		return nil, fmt.Errorf("lag %d covariance: %w", h0+1, err)
	}

	for iter := 1; iter <= maxIter; iter++ {
		lambda := 0.5 * (lo + hi)
		theta, err := e.solve(ctx, solver, g0, g1, lambda)
		if err != nil {
			return nil, err
		}
		density := Density(theta, solver.Tolerance())
		log.Debug("bisection probe", "iter", iter, "lambda", lambda, "min", lo, "max", hi, "density", density, "target", e.Target)

		if hi-lo < relTol*math.Abs(hi) {
			if e.Metrics != nil {
				e.Metrics.Bisection.Update(int64(iter))
			}
			return &Estimate{
				Theta:      theta,
				Lambda:     lambda,
				Density:    density,
				Iterations: iter,
			}, nil
		}

		if density < e.Target {
			// too sparse, lambda too large
			hi = lambda
		} else {
			lo = lambda
		}
	}

	return nil, fmt.Errorf("%w: target %g not bracketed after %d probes, last bracket [%g,%g]",
		ErrSparsityNotReached, e.Target, maxIter, lo, hi)
}

// solve returns theta for a pinned lambda. The program separates over the
// rows of theta, so each row is solved on its own.
func (e *SparseEstimator) solve(ctx context.Context, solver LPSolver, g0, g1 *mat.Dense, lambda float64) (*mat.Dense, error) {
	D, _ := g0.Dims()
	theta := mat.NewDense(D, D, nil)
	for i := 0; i < D; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		prog := RowProgram(g0, g1, i, lambda)

		start := time.Now()
		sol, err := solver.Solve(ctx, prog)
		if e.Metrics != nil {
			e.Metrics.LPSolve.UpdateSince(start)
			e.Metrics.LPSolves.Inc(1)
		}
		if err != nil {
			return nil, fmt.Errorf("row %d at lambda %g: %w", i, lambda, err)
		}
		if sol.Status != StatusOptimal {
			if e.Metrics != nil {
				e.Metrics.LPFailures.Inc(1)
			}
			return nil, fmt.Errorf("%w: row %d at lambda %g: %s: %v", ErrNotOptimal, i, lambda, sol.Status, sol.Err)
		}
		if len(sol.X) != 2*D {
			return nil, fmt.Errorf("%w: solver returned %d values, want %d", ErrDimensionMismatch, len(sol.X), 2*D)
		}
		for k := 0; k < D; k++ {
			theta.Set(i, k, sol.X[k]-sol.X[D+k])
		}
	}
	return theta, nil
}

// RowProgram builds the LP for row i of theta with lambda fixed:
//
//	minimize    sum_k (u_k + v_k)
//	subject to   (u-v)' Gamma_0 - Gamma_1[i,:] <= lambda
//	            -(u-v)' Gamma_0 + Gamma_1[i,:] <= lambda
//	            u, v >= 0
//
// so that theta[i,:] = u - v. Variables are ordered u_0..u_{D-1}, v_0..v_{D-1}.
func RowProgram(g0, g1 *mat.Dense, i int, lambda float64) *LinearProgram {
	D, _ := g0.Dims()
	c := make([]float64, 2*D)
	for k := range c {
		c[k] = 1
	}

	G := mat.NewDense(2*D, 2*D, nil)
	h := make([]float64, 2*D)
	for j := 0; j < D; j++ {
		for k := 0; k < D; k++ {
			// (theta Gamma_0)[i,j] = sum_k theta[i,k] Gamma_0[k,j]
			v := g0.At(k, j)
			G.Set(j, k, v)
			G.Set(j, D+k, -v)
			G.Set(D+j, k, -v)
			G.Set(D+j, D+k, v)
		}
		h[j] = g1.At(i, j) + lambda
		h[D+j] = lambda - g1.At(i, j)
	}
	return &LinearProgram{C: c, G: G, H: h}
}

// Density counts the entries of theta with magnitude above tol and divides
// by the number of rows.
func Density(theta mat.Matrix, tol float64) float64 {
	r, c := theta.Dims()
	if r == 0 {
		return 0
	}
	n := 0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.Abs(theta.At(i, j)) > tol {
				n++
			}
		}
	}
	return float64(n) / float64(r)
}
