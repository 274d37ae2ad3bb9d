// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Minimax Estimation of Partially-Observed VAR Processes
// Class: 02-613 at Caregie Mellon University

package estimator

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestMaxAbsError(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	b := mat.NewDense(2, 2, []float64{1.5, 2, 3, 3.2})
	got, err := MaxAbsError(a, b)
	require.NoError(t, err)
	require.InDelta(t, 0.8, got, 1e-12)

	got, err = MaxAbsError(a, a)
	require.NoError(t, err)
	require.Zero(t, got)

	_, err = MaxAbsError(a, mat.NewDense(2, 3, nil))
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestOperatorNormError(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{3, 0, 0, -4})
	got, err := OperatorNormError(a, mat.NewDense(2, 2, nil))
	require.NoError(t, err)
	require.InDelta(t, 4, got, 1e-12)

	// rank one: |u||v|
	a = mat.NewDense(2, 2, []float64{1, 2, 2, 4})
	got, err = OperatorNormError(a, mat.NewDense(2, 2, nil))
	require.NoError(t, err)
	require.InDelta(t, 5, got, 1e-12)

	_, err = OperatorNormError(a, mat.NewDense(3, 3, nil))
	require.ErrorIs(t, err, ErrDimensionMismatch)
}
