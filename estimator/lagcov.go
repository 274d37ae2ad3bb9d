// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Minimax Estimation of Partially-Observed VAR Processes
// Class: 02-613 at Caregie Mellon University

package estimator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// MinScale is the smallest scaling-matrix entry LagCovariance divides by.
const MinScale = 1e-8

// LagCovariance estimates the lag-h covariance E[X_{t+h} X_t'] of the latent
// process from masked observations.
// It averages Y_{t+h} Y_t' over t = 1..T-h, divides elementwise by
// S(D,a,b,h) to undo the sampling attenuation and, for h = 0, subtracts
// omega^2 I to remove the observation-noise variance.
func LagCovariance(obs *Observations, model SamplingModel, h int) (*mat.Dense, error) {
	T, D, err := obs.Dims()
	if err != nil {
		return nil, err
	}
	if h < 0 || h >= T {
		return nil, fmt.Errorf("%w: lag must be in [0,%d), got %d", ErrInvalidParameters, T, h)
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}

	S, err := ScalingMatrix(D, model.A, model.B, h)
	if err != nil {
		return nil, err
	}
	for i := 0; i < D; i++ {
		for j := 0; j < D; j++ {
			if math.Abs(S.At(i, j)) < MinScale {
				return nil, fmt.Errorf("%w: scaling entry (%d,%d) = %g at lag %d", ErrDegenerateSampling, i, j, S.At(i, j), h)
			}
		}
	}

	Y := maskedObservations(obs)
	n := T - h

	// lead rows are Y_{t+h}, lag rows are Y_t
	lead := Y.Slice(h, T, 0, D)
	lag := Y.Slice(0, n, 0, D)

	var gamma mat.Dense
	gamma.Mul(lead.T(), lag)
	gamma.Scale(1/float64(n), &gamma)
	gamma.DivElem(&gamma, S)

	if h == 0 {
		w2 := model.Omega * model.Omega
		for i := 0; i < D; i++ {
			gamma.Set(i, i, gamma.At(i, i)-w2)
		}
	}

	for i := 0; i < D; i++ {
		for j := 0; j < D; j++ {
			if v := gamma.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: non-finite covariance entry (%d,%d)", ErrDegenerateSampling, i, j)
			}
		}
	}
	return &gamma, nil
}

// maskedObservations returns Y with every unobserved cell forced to zero.
func maskedObservations(obs *Observations) *mat.Dense {
	T, D := obs.Y.Dims()
	Y := mat.DenseCopyOf(obs.Y)
	for t := 0; t < T; t++ {
		for d := 0; d < D; d++ {
			if !obs.Mask.At(t, d) {
				Y.Set(t, d, 0)
			}
		}
	}
	return Y
}
