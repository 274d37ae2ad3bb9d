// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Minimax Estimation of Partially-Observed VAR Processes
// Class: 02-613 at Caregie Mellon University

// Package estimator simulates partially observed VAR(1) processes and
// estimates their transition matrix from the masked, noisy observations.
package estimator

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ProcessParameters describe one experiment point.
type ProcessParameters struct {
	// Transition matrix theta (DxD), spectral radius < 1
	Theta *mat.Dense
	// Process noise std
	Sigma float64
	// Rate unobserved -> observed
	A float64
	// Rate observed -> unobserved
	B float64
	// Observation noise std
	Omega float64
	// Number of time points T
	Horizon int
}

// Dim returns D, the dimension of the latent state.
func (p ProcessParameters) Dim() int {
	if p.Theta == nil {
		return 0
	}
	r, _ := p.Theta.Dims()
	return r
}

// Sampling returns the sampling model (a, b, omega) of p.
func (p ProcessParameters) Sampling() SamplingModel {
	return SamplingModel{A: p.A, B: p.B, Omega: p.Omega}
}

// Validate checks the ranges of every parameter.
func (p ProcessParameters) Validate() error {
	if p.Theta == nil {
		return fmt.Errorf("%w: theta not provided", ErrInvalidParameters)
	}
	r, c := p.Theta.Dims()
	if r != c {
		return fmt.Errorf("%w: theta must be square, got %dx%d", ErrDimensionMismatch, r, c)
	}
	if p.Sigma <= 0 {
		return fmt.Errorf("%w: sigma must be > 0, got %g", ErrInvalidParameters, p.Sigma)
	}
	if p.Horizon < 2 {
		return fmt.Errorf("%w: horizon must be >= 2, got %d", ErrInvalidParameters, p.Horizon)
	}
	return p.Sampling().Validate()
}

// SamplingModel is the two-state Markov sampling pair plus observation noise.
type SamplingModel struct {
	A     float64
	B     float64
	Omega float64
}

// P is the stationary probability of a coordinate being observed, a/(a+b).
func (m SamplingModel) P() float64 {
	return m.A / (m.A + m.B)
}

// Validate checks a in (0,1], b in [0,1], a+b < 2 and omega >= 0.
func (m SamplingModel) Validate() error {
	if m.A <= 0 || m.A > 1 {
		return fmt.Errorf("%w: a must be in (0,1], got %g", ErrDegenerateSampling, m.A)
	}
	if m.B < 0 || m.B > 1 {
		return fmt.Errorf("%w: b must be in [0,1], got %g", ErrDegenerateSampling, m.B)
	}
	if s := m.A + m.B; s <= 0 || s >= 2 {
		return fmt.Errorf("%w: a+b must be in (0,2), got %g", ErrDegenerateSampling, s)
	}
	if m.Omega < 0 {
		return fmt.Errorf("%w: omega must be >= 0, got %g", ErrInvalidParameters, m.Omega)
	}
	return nil
}

// Mask is a T x D boolean matrix, true where a coordinate was observed.
type Mask struct {
	rows, cols int
	data       []bool
}

// NewMask allocates a T x D mask. data, if not nil, is used row-major.
func NewMask(rows, cols int, data []bool) *Mask {
	if data == nil {
		data = make([]bool, rows*cols)
	}
	if len(data) != rows*cols {
		panic(fmt.Sprintf("mask: data length %d != %d*%d", len(data), rows, cols))
	}
	return &Mask{rows: rows, cols: cols, data: data}
}

func (m *Mask) Dims() (int, int) { return m.rows, m.cols }

func (m *Mask) At(t, d int) bool { return m.data[t*m.cols+d] }

func (m *Mask) Set(t, d int, v bool) { m.data[t*m.cols+d] = v }

// Clone returns a deep copy.
func (m *Mask) Clone() *Mask {
	return NewMask(m.rows, m.cols, append([]bool(nil), m.data...))
}

// Slice returns rows [t0, t1) sharing storage with m.
func (m *Mask) Slice(t0, t1 int) *Mask {
	return NewMask(t1-t0, m.cols, m.data[t0*m.cols:t1*m.cols])
}

// ObservedFraction returns the fraction of time points at which column d
// was observed.
func (m *Mask) ObservedFraction(d int) float64 {
	if m.rows == 0 {
		return 0
	}
	n := 0
	for t := 0; t < m.rows; t++ {
		if m.At(t, d) {
			n++
		}
	}
	return float64(n) / float64(m.rows)
}

// Dense returns the mask as a 0/1 matrix.
func (m *Mask) Dense() *mat.Dense {
	out := mat.NewDense(m.rows, m.cols, nil)
	for t := 0; t < m.rows; t++ {
		for d := 0; d < m.cols; d++ {
			if m.At(t, d) {
				out.Set(t, d, 1)
			}
		}
	}
	return out
}

// Observations is the part of a trajectory visible to an estimator.
type Observations struct {
	Mask *Mask
	// Y is zero wherever Mask is false
	Y *mat.Dense
}

// Dims returns T and D after checking that Mask and Y agree.
func (o *Observations) Dims() (int, int, error) {
	if o == nil || o.Mask == nil || o.Y == nil {
		return 0, 0, fmt.Errorf("%w: observations not provided", ErrInvalidParameters)
	}
	T, D := o.Y.Dims()
	mt, md := o.Mask.Dims()
	if mt != T || md != D {
		return 0, 0, fmt.Errorf("%w: mask is %dx%d, observations are %dx%d", ErrDimensionMismatch, mt, md, T, D)
	}
	return T, D, nil
}

// Trajectory is one simulated realization.
type Trajectory struct {
	// Latent states, T x D
	X *mat.Dense
	// Sampling mask, T x D
	Mask *Mask
	// Noisy partial observations, T x D
	Y *mat.Dense
}

// Observations drops the latent states.
func (tr *Trajectory) Observations() *Observations {
	return &Observations{Mask: tr.Mask, Y: tr.Y}
}

// Estimate is the output of every estimator.
type Estimate struct {
	// Estimated transition matrix, D x D
	Theta *mat.Dense

	// Numerical rank and condition number of the inverted covariance
	// (dense and oracle estimators)
	Rank           int
	Cond           float64
	IllConditioned bool

	// Final penalty, density and number of bisection probes
	// (sparse estimator)
	Lambda     float64
	Density    float64
	Iterations int
}

// Estimator turns a trajectory into an estimate of its transition matrix.
// Only the oracle estimator looks at the latent states.
type Estimator interface {
	Name() string
	Estimate(ctx context.Context, tr *Trajectory) (*Estimate, error)
}
