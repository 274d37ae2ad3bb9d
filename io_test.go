// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Minimax Estimation of Partially-Observed VAR Processes
// Class: 02-613 at Caregie Mellon University

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"PartialVAR_Estimation/estimator"
)

func TestLoadObservationsCSV(t *testing.T) {
	path := writeFile(t, "obs.csv", "temp, flu\n1.5,2\n,3\nNA, -4\nnan,\n")
	obs, header, err := LoadObservationsCSV(path)
	require.NoError(t, err)
	require.Equal(t, []string{"temp", "flu"}, header)

	T, D, err := obs.Dims()
	require.NoError(t, err)
	require.Equal(t, 4, T)
	require.Equal(t, 2, D)

	wantY := mat.NewDense(4, 2, []float64{1.5, 2, 0, 3, 0, -4, 0, 0})
	wantMask := mat.NewDense(4, 2, []float64{1, 1, 0, 1, 0, 1, 0, 0})
	require.True(t, mat.Equal(wantY, obs.Y))
	require.True(t, mat.Equal(wantMask, obs.Mask.Dense()))
}

func TestLoadObservationsCSVRejects(t *testing.T) {
	cases := map[string]string{
		"ragged":    "a,b\n1,2\n3\n",
		"bad float": "a,b\n1,x\n",
		"no rows":   "a,b\n",
		"empty":     "",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := LoadObservationsCSV(writeFile(t, "obs.csv", content))
			require.Error(t, err)
		})
	}
	_, _, err := LoadObservationsCSV(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestWriteMatrixCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.csv")
	m := mat.NewDense(2, 2, []float64{0.1, -2, 1e-9, 3})
	require.NoError(t, WriteMatrixCSV(path, m, []string{"u", "v"}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "u,v\n0.1,-2\n1e-09,3\n", string(content))

	// a header of the wrong length falls back to x1..xD
	require.NoError(t, WriteMatrixCSV(path, m, []string{"only"}))
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(content), "x1,x2\n"))
}

func TestWriteMaskCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mask.csv")
	mask := estimator.NewMask(2, 3, []bool{true, false, true, false, false, true})
	require.NoError(t, WriteMaskCSV(path, mask, nil))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "x1,x2,x3\n1,0,1\n0,0,1\n", string(content))
}

func TestWriteReplicationCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rep.csv")
	res := &estimator.ReplicationResult{
		Errors:         []float64{0.25, 0.5},
		OperatorErrors: []float64{0.75, 1},
	}
	require.NoError(t, WriteReplicationCSV(path, res))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "Replication,MaxAbsError,OperatorNormError\n0,0.25,0.75\n1,0.5,1\n", string(content))
}

func TestPrintTables(t *testing.T) {
	var buf bytes.Buffer
	est := &estimator.Estimate{
		Theta:      mat.NewDense(2, 2, []float64{0.5, 0, 0, 0.25}),
		Lambda:     1.25,
		Density:    1,
		Iterations: 7,
	}
	truth := mat.NewDense(2, 2, []float64{0.5, 0.1, 0, 0.25})
	require.NoError(t, PrintEstimate(&buf, MethodSparse, est, truth))
	require.Contains(t, buf.String(), "bisection probes")
	require.Contains(t, buf.String(), "max |theta_hat - theta|")

	require.Error(t, PrintEstimate(&buf, MethodDense, est, mat.NewDense(3, 3, nil)))

	buf.Reset()
	PrintMetrics(&buf, map[string]float64{"zeta": 1, "alpha": 2})
	out := buf.String()
	require.Less(t, strings.Index(out, "alpha"), strings.Index(out, "zeta"))

	buf.Reset()
	PrintReplication(&buf, &estimator.ReplicationResult{Estimator: "sparse", Alpha: 0.05, Errors: []float64{1}})
	require.Contains(t, buf.String(), "sparse")
}
