// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Minimax Estimation of Partially-Observed VAR Processes
// Class: 02-613 at Caregie Mellon University

package estimator

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// NewRand returns the random handle every simulation draws from.
// Two handles built from the same seed produce the same stream.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Lyapunov iteration limits for StationaryCovariance
const (
	lyapunovMaxIter = 64
	lyapunovTol     = 1e-13
)

// StationaryCovariance solves Sigma = theta Sigma theta' + sigma^2 I with
// Smith's doubling iteration. For symmetric theta the result equals
// sigma^2 (I - theta theta')^-1.
// Returns ErrNonStationary when the series does not converge, which happens
// when the spectral radius of theta is >= 1.
func StationaryCovariance(theta mat.Matrix, sigma float64) (*mat.SymDense, error) {
	D, c := theta.Dims()
	if D != c {
		return nil, fmt.Errorf("%w: theta must be square, got %dx%d", ErrDimensionMismatch, D, c)
	}

	S := mat.NewDense(D, D, nil)
	for i := 0; i < D; i++ {
		S.Set(i, i, sigma*sigma)
	}
	A := mat.DenseCopyOf(theta)

	// After k steps S = sum_{j < 2^k} theta^j (sigma^2 I) theta'^j
	converged := false
	for k := 0; k < lyapunovMaxIter; k++ {
		var term mat.Dense
		term.Product(A, S, A.T())
		S.Add(S, &term)

		delta := mat.Norm(&term, math.Inf(1))
		size := mat.Norm(S, math.Inf(1))
		if math.IsNaN(size) || math.IsInf(size, 0) {
			break
		}
		if delta <= lyapunovTol*size {
			converged = true
			break
		}

		var sq mat.Dense
		sq.Mul(A, A)
		A = &sq
	}
	if !converged {
		return nil, fmt.Errorf("%w: lyapunov iteration did not converge", ErrNonStationary)
	}

	sym := mat.NewSymDense(D, nil)
	for i := 0; i < D; i++ {
		for j := i; j < D; j++ {
			sym.SetSym(i, j, 0.5*(S.At(i, j)+S.At(j, i)))
		}
	}
	return sym, nil
}

// Simulate draws a latent VAR(1) trajectory, a two-state Markov sampling
// mask for every coordinate and the noisy partial observations.
//
// Draw order: X_1, X_2..X_T, mask column by column, observation noise row
// by row. Noise is drawn for every cell so the X and mask streams do not
// depend on omega.
func Simulate(params ProcessParameters, rng *rand.Rand) (*Trajectory, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: random source not provided", ErrInvalidParameters)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	T := params.Horizon
	D := params.Dim()

	// 1. Initial state from the stationary distribution
	sigma0, err := StationaryCovariance(params.Theta, params.Sigma)
	if err != nil {
		return nil, err
	}
	init, ok := distmv.NewNormal(make([]float64, D), sigma0, rng)
	if !ok {
		return nil, fmt.Errorf("%w: stationary covariance is not positive definite", ErrNonStationary)
	}

	X := mat.NewDense(T, D, nil)
	X.SetRow(0, init.Rand(nil))

	// 2. X_t = theta X_{t-1} + sigma eps_t
	noise := distuv.Normal{Mu: 0, Sigma: params.Sigma, Src: rng}
	next := mat.NewVecDense(D, nil)
	for t := 1; t < T; t++ {
		next.MulVec(params.Theta, X.RowView(t-1))
		for d := 0; d < D; d++ {
			X.Set(t, d, next.AtVec(d)+noise.Rand())
		}
	}

	// 3. Sampling mask, one independent chain per coordinate
	model := params.Sampling()
	mask := SimulateMask(T, D, model, rng)

	// 4. Y = pi * (X + omega eta)
	obsNoise := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}
	Y := mat.NewDense(T, D, nil)
	for t := 0; t < T; t++ {
		for d := 0; d < D; d++ {
			eta := obsNoise.Rand()
			if mask.At(t, d) {
				Y.Set(t, d, X.At(t, d)+params.Omega*eta)
			}
		}
	}

	return &Trajectory{X: X, Mask: mask, Y: Y}, nil
}

// SimulateMask draws D independent two-state Markov chains of length T.
// The first state is Bernoulli(p); afterwards an observed coordinate stays
// observed w.p. 1-b and an unobserved one becomes observed w.p. a.
func SimulateMask(T, D int, model SamplingModel, rng *rand.Rand) *Mask {
	first := distuv.Bernoulli{P: model.P(), Src: rng}
	stay := distuv.Bernoulli{P: 1 - model.B, Src: rng}
	enter := distuv.Bernoulli{P: model.A, Src: rng}

	mask := NewMask(T, D, nil)
	for d := 0; d < D; d++ {
		mask.Set(0, d, first.Rand() == 1)
		for t := 1; t < T; t++ {
			if mask.At(t-1, d) {
				mask.Set(t, d, stay.Rand() == 1)
			} else {
				mask.Set(t, d, enter.Rand() == 1)
			}
		}
	}
	return mask
}

// RandomSparseTheta draws a D x D matrix with k nonzero entries per row at
// random columns. Magnitudes are uniform in [magnitude/2, magnitude] with a
// random sign. k*magnitude < 1 keeps every row sum below one, so the
// resulting process is stationary.
func RandomSparseTheta(d, k int, magnitude float64, rng *rand.Rand) (*mat.Dense, error) {
	if d < 1 || k < 0 || k > d {
		return nil, fmt.Errorf("%w: need 0 <= k <= d, got d=%d k=%d", ErrInvalidParameters, d, k)
	}
	if magnitude <= 0 || float64(k)*magnitude >= 1 {
		return nil, fmt.Errorf("%w: k*magnitude must be in (0,1), got %g", ErrInvalidParameters, float64(k)*magnitude)
	}
	theta := mat.NewDense(d, d, nil)
	for i := 0; i < d; i++ {
		cols := rng.Perm(d)[:k]
		for _, j := range cols {
			v := magnitude * (0.5 + 0.5*rng.Float64())
			if rng.IntN(2) == 0 {
				v = -v
			}
			theta.Set(i, j, v)
		}
	}
	return theta, nil
}
