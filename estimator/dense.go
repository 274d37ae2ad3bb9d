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

	"gonum.org/v1/gonum/mat"

	"PartialVAR_Estimation/logging"
)

// Default tolerances for the pseudo-inverse
const (
	DefaultPinvTolerance = 1e-12
	DefaultMaxCondition  = 1e12
)

// PseudoInverse returns the Moore-Penrose inverse V S^+ U' of a.
// Singular values at or below rcond times the largest one are treated as
// zero. The numerical rank and the condition number (largest over smallest
// singular value, +Inf when one is zero) are returned alongside.
func PseudoInverse(a mat.Matrix, rcond float64) (*mat.Dense, int, float64, error) {
	r, c := a.Dims()
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, 0, math.Inf(1), fmt.Errorf("%w: svd factorization failed", ErrIllConditioned)
	}
	rank := svd.Rank(rcond)
	cond := svd.Cond()

	pinv := mat.NewDense(c, r, nil)
	if rank == 0 {
		// a is numerically zero, its pseudo-inverse is zero too
		return pinv, 0, cond, nil
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	// pinv = sum over the first rank singular triplets of v_k u_k' / s_k
	for k := 0; k < rank; k++ {
		inv := 1 / values[k]
		for i := 0; i < c; i++ {
			vik := v.At(i, k) * inv
			if vik == 0 {
				continue
			}
			for j := 0; j < r; j++ {
				pinv.Set(i, j, pinv.At(i, j)+vik*u.At(j, k))
			}
		}
	}
	return pinv, rank, cond, nil
}

// DenseEstimator is the unconstrained reference estimator
// theta = Gamma_{h0+1} Gamma_{h0}^+.
type DenseEstimator struct {
	Model   SamplingModel
	BaseLag int

	// Relative singular value cutoff, DefaultPinvTolerance when zero
	PinvTolerance float64
	// Condition number above which Gamma_{h0} is flagged, DefaultMaxCondition when zero
	MaxCondition float64
	// Return ErrIllConditioned instead of flagging
	Strict bool

	Log     *slog.Logger
	Metrics *Metrics
}

// EstimateDense runs the dense estimator with default tolerances.
func EstimateDense(obs *Observations, model SamplingModel, baseLag int) (*Estimate, error) {
	e := &DenseEstimator{Model: model, BaseLag: baseLag}
	return e.EstimateObservations(obs)
}

func (e *DenseEstimator) Name() string { return "dense" }

func (e *DenseEstimator) Estimate(_ context.Context, tr *Trajectory) (*Estimate, error) {
	if tr == nil {
		return nil, fmt.Errorf("%w: trajectory not provided", ErrInvalidParameters)
	}
	return e.EstimateObservations(tr.Observations())
}

// EstimateObservations combines the lag-h0 and lag-(h0+1) covariance
// estimates through the pseudo-inverse of the former.
func (e *DenseEstimator) EstimateObservations(obs *Observations) (*Estimate, error) {
	log := e.Log
	if log == nil {
		log = logging.GetLog("estimator.dense")
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

	g0, err := LagCovariance(obs, e.Model, h0)
	if err != nil {
		return nil, fmt.Errorf("lag %d covariance: %w", h0, err)
	}
	g1, err := LagCovariance(obs, e.Model, h0+1)
	if err != nil {
		return nil, fmt.Errorf("lag %d covariance: %w", h0+1, err)
	}

	tol := e.PinvTolerance
	if tol <= 0 {
		tol = DefaultPinvTolerance
	}
	maxCond := e.MaxCondition
	if maxCond <= 0 {
		maxCond = DefaultMaxCondition
	}

	pinv, rank, cond, err := PseudoInverse(g0, tol)
	if err != nil {
		return nil, err
	}

	illConditioned := rank < D || cond > maxCond
	if illConditioned {
		if e.Strict {
			return nil, fmt.Errorf("%w: lag %d covariance has rank %d of %d, condition %g", ErrIllConditioned, h0, rank, D, cond)
		}
		log.Warn("ill-conditioned lag covariance", "lag", h0, "rank", rank, "dim", D, "cond", cond)
	}

	theta := mat.NewDense(D, D, nil)
	theta.Mul(g1, pinv)

	return &Estimate{
		Theta:          theta,
		Rank:           rank,
		Cond:           cond,
		IllConditioned: illConditioned,
	}, nil
}
