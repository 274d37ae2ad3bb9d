// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Minimax Estimation of Partially-Observed VAR Processes
// Class: 02-613 at Caregie Mellon University

package estimator

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// LPStatus is the termination status reported by an LPSolver.
type LPStatus int

const (
	StatusOptimal LPStatus = iota
	StatusInfeasible
	StatusUnbounded
	StatusFailed
)

func (s LPStatus) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	default:
		return "failed"
	}
}

// LinearProgram is
//
//	minimize    c'x
//	subject to  G x <= h
//	            x_j >= 0 unless Free[j]
type LinearProgram struct {
	C []float64
	G *mat.Dense
	H []float64
	// nil means every variable is nonnegative
	Free []bool
}

// Validate checks shapes and finiteness.
func (p *LinearProgram) Validate() error {
	if p == nil || p.G == nil {
		return fmt.Errorf("%w: linear program not provided", ErrInvalidParameters)
	}
	m, n := p.G.Dims()
	if len(p.C) != n {
		return fmt.Errorf("%w: objective has %d entries, constraints have %d columns", ErrDimensionMismatch, len(p.C), n)
	}
	if len(p.H) != m {
		return fmt.Errorf("%w: bound has %d entries, constraints have %d rows", ErrDimensionMismatch, len(p.H), m)
	}
	if p.Free != nil && len(p.Free) != n {
		return fmt.Errorf("%w: free flags have %d entries, want %d", ErrDimensionMismatch, len(p.Free), n)
	}
	for _, v := range append(append([]float64(nil), p.C...), p.H...) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: linear program has non-finite coefficients", ErrInvalidParameters)
		}
	}
	return nil
}

// LPSolution is the result of one solve. X is only meaningful when Status
// is StatusOptimal.
type LPSolution struct {
	Status    LPStatus
	X         []float64
	Objective float64
	// Solver error behind a non-optimal status
	Err error
}

// LPSolver solves a LinearProgram to global optimality and reports the
// exact termination status. A non-nil error means the solve was not
// attempted (bad input, cancelled context); solver failures are reported
// through LPSolution.Status.
type LPSolver interface {
	Solve(ctx context.Context, prog *LinearProgram) (*LPSolution, error)
	// Tolerance below which a solution entry counts as zero
	Tolerance() float64
}

// DefaultSimplexTolerance is used by SimplexSolver when Tol is zero.
const DefaultSimplexTolerance = 1e-9

// SimplexSolver solves linear programs with gonum's simplex method after
// converting them to standard form.
type SimplexSolver struct {
	Tol float64
}

func (s *SimplexSolver) Tolerance() float64 {
	if s == nil || s.Tol <= 0 {
		return DefaultSimplexTolerance
	}
	return s.Tol
}

// Solve converts prog to  minimize c'z s.t. A z = b, z >= 0  by splitting
// free variables into two nonnegative parts and adding one slack per
// inequality row, then runs lp.Simplex.
func (s *SimplexSolver) Solve(ctx context.Context, prog *LinearProgram) (*LPSolution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := prog.Validate(); err != nil {
		return nil, err
	}

	m, n := prog.G.Dims()

	// column of each original variable, and of its negative part if free
	pos := make([]int, n)
	neg := make([]int, n)
	cols := 0
	for j := 0; j < n; j++ {
		pos[j] = cols
		cols++
		neg[j] = -1
		if prog.Free != nil && prog.Free[j] {
			neg[j] = cols
			cols++
		}
	}
	total := cols + m

	c := make([]float64, total)
	A := mat.NewDense(m, total, nil)
	for j := 0; j < n; j++ {
		c[pos[j]] = prog.C[j]
		if neg[j] >= 0 {
			c[neg[j]] = -prog.C[j]
		}
	}
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			g := prog.G.At(i, j)
			if g == 0 {
				continue
			}
			A.Set(i, pos[j], g)
			if neg[j] >= 0 {
				A.Set(i, neg[j], -g)
			}
		}
		A.Set(i, cols+i, 1)
	}
	b := append([]float64(nil), prog.H...)

	opt, z, err := lp.Simplex(c, A, b, s.Tolerance(), nil)
	if err != nil {
		status := StatusFailed
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			status = StatusInfeasible
		case errors.Is(err, lp.ErrUnbounded):
			status = StatusUnbounded
		}
		return &LPSolution{Status: status, Objective: opt, Err: err}, nil
	}

	x := make([]float64, n)
	for j := 0; j < n; j++ {
		x[j] = z[pos[j]]
		if neg[j] >= 0 {
			x[j] -= z[neg[j]]
		}
	}
	return &LPSolution{Status: StatusOptimal, X: x, Objective: opt}, nil
}
