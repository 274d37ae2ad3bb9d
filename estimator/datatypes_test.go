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

func TestMask(t *testing.T) {
	m := NewMask(3, 2, nil)
	r, c := m.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 2, c)

	m.Set(0, 1, true)
	m.Set(2, 1, true)
	require.True(t, m.At(0, 1))
	require.False(t, m.At(1, 1))
	require.InDelta(t, 2.0/3, m.ObservedFraction(1), 1e-12)
	require.Zero(t, m.ObservedFraction(0))

	clone := m.Clone()
	clone.Set(1, 1, true)
	require.False(t, m.At(1, 1))

	tail := m.Slice(1, 3)
	tr, _ := tail.Dims()
	require.Equal(t, 2, tr)
	require.True(t, tail.At(1, 1))
	tail.Set(0, 0, true)
	require.True(t, m.At(1, 0))

	require.True(t, mat.Equal(mat.NewDense(3, 2, []float64{0, 1, 1, 0, 0, 1}), m.Dense()))

	require.Panics(t, func() { NewMask(2, 2, make([]bool, 3)) })
}

func TestSamplingModel(t *testing.T) {
	require.InDelta(t, 0.75, SamplingModel{A: 0.6, B: 0.2}.P(), 1e-12)
	require.Equal(t, 1.0, fullSampling.P())
	require.NoError(t, fullSampling.Validate())

	require.ErrorIs(t, SamplingModel{A: 0.5, B: 0.5, Omega: -1}.Validate(), ErrInvalidParameters)
	require.ErrorIs(t, SamplingModel{A: 1, B: 1}.Validate(), ErrDegenerateSampling)
}

func TestProcessParameters(t *testing.T) {
	params := testParams(10)
	require.NoError(t, params.Validate())
	require.Equal(t, 3, params.Dim())
	require.Equal(t, SamplingModel{A: 0.4, B: 0.3, Omega: 0.2}, params.Sampling())

	require.Zero(t, ProcessParameters{}.Dim())
	require.ErrorIs(t, ProcessParameters{}.Validate(), ErrInvalidParameters)
}

func TestObservationsDims(t *testing.T) {
	obs := &Observations{Mask: NewMask(4, 2, nil), Y: mat.NewDense(4, 2, nil)}
	T, D, err := obs.Dims()
	require.NoError(t, err)
	require.Equal(t, 4, T)
	require.Equal(t, 2, D)

	obs.Mask = NewMask(4, 3, nil)
	_, _, err = obs.Dims()
	require.ErrorIs(t, err, ErrDimensionMismatch)

	var missing *Observations
	_, _, err = missing.Dims()
	require.ErrorIs(t, err, ErrInvalidParameters)
}
