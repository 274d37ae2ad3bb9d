// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Minimax Estimation of Partially-Observed VAR Processes
// Class: 02-613 at Caregie Mellon University

package estimator

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// OracleEstimator fits theta by least squares on the latent states, as if
// every coordinate had been observed without noise. It is the reference
// the partial-observation estimators are compared against.
type OracleEstimator struct {
	Metrics *Metrics
}

func (e *OracleEstimator) Name() string { return "oracle" }

func (e *OracleEstimator) Estimate(_ context.Context, tr *Trajectory) (*Estimate, error) {
	if tr == nil || tr.X == nil {
		return nil, fmt.Errorf("%w: latent states not provided", ErrInvalidParameters)
	}
	if e.Metrics != nil {
		e.Metrics.Calls.Inc(1)
	}
	return EstimateOracle(tr.X)
}

// EstimateOracle computes theta = argmin sum_t |X_t - theta X_{t-1}|^2.
// x: T x D latent states (rows: time, cols: coordinates)
func EstimateOracle(x *mat.Dense) (*Estimate, error) {
	if x == nil {
		return nil, fmt.Errorf("%w: latent states not provided", ErrInvalidParameters)
	}
	T, D := x.Dims()
	if T < 2 {
		return nil, fmt.Errorf("%w: need at least 2 observations, got %d", ErrInvalidParameters, T)
	}

	// Response rows are X_1..X_{T-1}, regressor rows X_0..X_{T-2}
	Treg := T - 1
	Yreg := x.Slice(1, T, 0, D)
	Xreg := x.Slice(0, Treg, 0, D)

	// B = (X'X)^(-1) X'Y, so theta = B'
	var B mat.Dense
	var xtx mat.Dense
	xtx.Mul(Xreg.T(), Xreg)

	rank := D
	var xtxInv mat.Dense
	xtxError := xtxInv.Inverse(&xtx)

	if xtxError == nil {
		var xty mat.Dense
		xty.Mul(Xreg.T(), Yreg)
		B.Mul(&xtxInv, &xty)
	} else {
		// X'X is singular or badly conditioned, use the minimum-norm
		// least-squares solution from the SVD of X instead.
		var svd mat.SVD
		if ok := svd.Factorize(Xreg, mat.SVDThin); !ok {
			return nil, fmt.Errorf("%w: X'X singular and SVD factorization failed: %v", ErrIllConditioned, xtxError)
		}
		rank = svd.Rank(DefaultPinvTolerance)
		if rank == 0 {
			B = *mat.NewDense(D, D, nil)
		} else {
			svd.SolveTo(&B, Yreg, rank)
		}
	}

	theta := mat.DenseCopyOf(B.T())
	return &Estimate{
		Theta:          theta,
		Rank:           rank,
		Cond:           mat.Cond(&xtx, 2),
		IllConditioned: xtxError != nil,
	}, nil
}
