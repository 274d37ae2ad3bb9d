// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Minimax Estimation of Partially-Observed VAR Processes
// Class: 02-613 at Caregie Mellon University

package estimator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// ============================================================================
// ORACLE ESTIMATOR TESTS
// ============================================================================

type EstimateOracleTest struct {
	X      *mat.Dense
	Result *mat.Dense
}

func ReadEstimateOracleTests(directory string) []EstimateOracleTest {
	inputFiles := ReadDirectory(directory + "input")
	outputFiles := ReadDirectory(directory + "output")

	if len(inputFiles) != len(outputFiles) {
		panic("Error: number of input and output files do not match!")
	}

	tests := make([]EstimateOracleTest, len(inputFiles))
	for i, inputFile := range inputFiles {
		scanner, done := openScanner(directory + "input/" + inputFile.Name())
		dims := parseInts(skipComments(scanner))
		tests[i].X = readMatrix(scanner, dims[0], dims[1])
		done()
	}

	for i, outputFile := range outputFiles {
		scanner, done := openScanner(directory + "output/" + outputFile.Name())
		tests[i].Result = readMatrixUntilEOF(scanner)
		done()
	}

	return tests
}

func TestEstimateOracle(t *testing.T) {
	tests := ReadEstimateOracleTests("Tests/EstimateOracle/")
	for i, test := range tests {
		got, err := EstimateOracle(test.X)
		if err != nil {
			t.Fatalf("Test %d: EstimateOracle returned error: %v", i+1, err)
		}
		if ok, msg := matricesAlmostEqual(got.Theta, test.Result, 1e-9); !ok {
			t.Errorf("Test %d: EstimateOracle: %s", i+1, msg)
		}
		if got.IllConditioned {
			t.Errorf("Test %d: EstimateOracle flagged a well-conditioned design", i+1)
		}
	}
}

func TestOracleSingularDesign(t *testing.T) {
	// second coordinate is identically zero
	x := mat.NewDense(5, 2, []float64{1, 0, 0.5, 0, 0.25, 0, 0.125, 0, 0.0625, 0})
	res, err := EstimateOracle(x)
	require.NoError(t, err)
	require.True(t, res.IllConditioned)
	require.Equal(t, 1, res.Rank)
	require.InDelta(t, 0.5, res.Theta.At(0, 0), 1e-12)
	require.InDelta(t, 0, res.Theta.At(1, 1), 1e-12)
}

func TestOracleEstimator(t *testing.T) {
	params := testParams(4000)
	params.Omega = 2
	tr, err := Simulate(params, NewRand(12))
	require.NoError(t, err)

	m := NewMetrics(nil)
	est := &OracleEstimator{Metrics: m}
	require.Equal(t, "oracle", est.Name())

	res, err := est.Estimate(context.Background(), tr)
	require.NoError(t, err)
	maxErr, err := MaxAbsError(res.Theta, params.Theta)
	require.NoError(t, err)
	require.Less(t, maxErr, 0.08)
	require.Equal(t, 1.0, m.Snapshot()["estimate.calls"])

	_, err = est.Estimate(context.Background(), &Trajectory{})
	require.ErrorIs(t, err, ErrInvalidParameters)
	_, err = EstimateOracle(mat.NewDense(1, 2, nil))
	require.ErrorIs(t, err, ErrInvalidParameters)
}
