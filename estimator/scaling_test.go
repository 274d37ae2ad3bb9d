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

// ============================================================================
// SCALING MATRIX TESTS
// ============================================================================

type ScalingMatrixTest struct {
	D      int
	A, B   float64
	H      int
	Result *mat.Dense
}

func ReadScalingMatrixTests(directory string) []ScalingMatrixTest {
	inputFiles := ReadDirectory(directory + "input")
	outputFiles := ReadDirectory(directory + "output")

	if len(inputFiles) != len(outputFiles) {
		panic("Error: number of input and output files do not match!")
	}

	tests := make([]ScalingMatrixTest, len(inputFiles))
	for i, inputFile := range inputFiles {
		scanner, done := openScanner(directory + "input/" + inputFile.Name())
		fields := parseFloats(skipComments(scanner))
		done()
		if len(fields) != 4 {
			panic("Error: expected D a b h")
		}
		tests[i].D = int(fields[0])
		tests[i].A = fields[1]
		tests[i].B = fields[2]
		tests[i].H = int(fields[3])
	}

	for i, outputFile := range outputFiles {
		scanner, done := openScanner(directory + "output/" + outputFile.Name())
		tests[i].Result = readMatrix(scanner, tests[i].D, tests[i].D)
		done()
	}

	return tests
}

func TestScalingMatrix(t *testing.T) {
	tests := ReadScalingMatrixTests("Tests/ScalingMatrix/")
	for i, test := range tests {
		got, err := ScalingMatrix(test.D, test.A, test.B, test.H)
		if err != nil {
			t.Fatalf("Test %d: ScalingMatrix returned error: %v", i+1, err)
		}
		if ok, msg := matricesAlmostEqual(got, test.Result, 1e-10); !ok {
			t.Errorf("Test %d: ScalingMatrix(%d, %v, %v, %d): %s", i+1, test.D, test.A, test.B, test.H, msg)
		}
	}
}

func TestScalingMatrixLagZero(t *testing.T) {
	S, err := ScalingMatrix(3, 0.2, 0.3, 0)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i == j {
				require.InDelta(t, 0.4, S.At(i, j), 1e-12)
			} else {
				require.InDelta(t, 0.16, S.At(i, j), 1e-12)
			}
		}
	}
}

func TestScalingMatrixDiagonalDecays(t *testing.T) {
	// the diagonal approaches p^2 geometrically in h
	p := 0.6 / (0.6 + 0.2)
	prev := p
	for h := 1; h < 12; h++ {
		S, err := ScalingMatrix(2, 0.6, 0.2, h)
		require.NoError(t, err)
		d := S.At(0, 0)
		require.Less(t, d, prev)
		require.Greater(t, d, p*p)
		require.InDelta(t, p*p, S.At(0, 1), 1e-12)
		prev = d
	}
}

func TestScalingMatrixRejects(t *testing.T) {
	cases := []struct {
		name string
		d    int
		a, b float64
		h    int
		err  error
	}{
		{"a+b=2", 2, 1, 1, 1, ErrDegenerateSampling},
		{"a=0", 2, 0, 0.5, 1, ErrDegenerateSampling},
		{"a>1", 2, 1.5, 0.1, 1, ErrDegenerateSampling},
		{"b<0", 2, 0.5, -0.1, 1, ErrDegenerateSampling},
		{"negative lag", 2, 0.5, 0.5, -1, ErrInvalidParameters},
		{"zero dimension", 0, 0.5, 0.5, 1, ErrInvalidParameters},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ScalingMatrix(tc.d, tc.a, tc.b, tc.h)
			require.ErrorIs(t, err, tc.err)
		})
	}
}
