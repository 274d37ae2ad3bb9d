// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Minimax Estimation of Partially-Observed VAR Processes
// Class: 02-613 at Caregie Mellon University

package estimator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MaxAbsError is max_ij |a_ij - b_ij|, the score used to compare an
// estimate against the true transition matrix.
func MaxAbsError(a, b mat.Matrix) (float64, error) {
	diff, err := difference(a, b)
	if err != nil {
		return math.NaN(), err
	}
	return floats.Norm(diff.RawMatrix().Data, math.Inf(1)), nil
}

// OperatorNormError is the spectral norm of a - b.
func OperatorNormError(a, b mat.Matrix) (float64, error) {
	diff, err := difference(a, b)
	if err != nil {
		return math.NaN(), err
	}
	// mat.Norm(diff, 2) would be the Frobenius norm
	var svd mat.SVD
	if ok := svd.Factorize(diff, mat.SVDNone); !ok {
		return math.NaN(), fmt.Errorf("%w: svd factorization failed", ErrIllConditioned)
	}
	return svd.Values(nil)[0], nil
}

func difference(a, b mat.Matrix) (*mat.Dense, error) {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch, ar, ac, br, bc)
	}
	var diff mat.Dense
	diff.Sub(a, b)
	return &diff, nil
}
