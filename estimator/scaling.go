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

// ScalingMatrix returns S(D,a,b,h), the probability that coordinates i and j
// are both observed at two times h apart.
// Off-diagonal entries are p^2 since different chains are independent.
// Diagonal entries are p for h = 0 and p^2 + p(1-p)(1-a-b)^h otherwise.
// a+b outside (0,2) makes (1-a-b)^h unstable and is rejected.
func ScalingMatrix(d int, a, b float64, h int) (*mat.Dense, error) {
	if d < 1 {
		return nil, fmt.Errorf("%w: dimension must be >= 1, got %d", ErrInvalidParameters, d)
	}
	if h < 0 {
		return nil, fmt.Errorf("%w: lag must be >= 0, got %d", ErrInvalidParameters, h)
	}
	model := SamplingModel{A: a, B: b}
	if err := model.Validate(); err != nil {
		return nil, err
	}

	p := model.P()
	off := p * p
	diag := p
	if h > 0 {
		diag = p*p + p*(1-p)*math.Pow(1-a-b, float64(h))
	}

	S := mat.NewDense(d, d, nil)
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			if i == j {
				S.Set(i, j, diag)
			} else {
				S.Set(i, j, off)
			}
		}
	}
	return S, nil
}
