// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Minimax Estimation of Partially-Observed VAR Processes
// Class: 02-613 at Caregie Mellon University

package estimator

import "errors"

var (
	ErrInvalidParameters  = errors.New("invalid parameters")
	ErrDimensionMismatch  = errors.New("dimension mismatch")
	ErrDegenerateSampling = errors.New("degenerate sampling parameters")
	ErrNonStationary      = errors.New("process is not stationary")
	ErrIllConditioned     = errors.New("covariance is ill-conditioned")
	ErrNotOptimal         = errors.New("linear program not solved to optimality")
	ErrSparsityNotReached = errors.New("failed to reach target sparsity")
)
