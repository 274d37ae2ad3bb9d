// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Minimax Estimation of Partially-Observed VAR Processes
// Class: 02-613 at Caregie Mellon University

package estimator

import (
	"testing"
	"time"

	gometrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshot(t *testing.T) {
	r := gometrics.NewRegistry()
	m := NewMetrics(r)
	m.Calls.Inc(2)
	m.LPSolves.Inc(5)
	m.LPSolve.Update(4 * time.Millisecond)
	m.LPSolve.Update(6 * time.Millisecond)
	m.Bisection.Update(7)

	snap := m.Snapshot()
	require.Equal(t, 2.0, snap["estimate.calls"])
	require.Equal(t, 5.0, snap["lp.solves"])
	require.Equal(t, 0.0, snap["lp.failures"])
	require.Equal(t, 2.0, snap["lp.solve.count"])
	require.InDelta(t, 5.0, snap["lp.solve.mean_ms"], 1e-9)
	require.Equal(t, 1.0, snap["bisection.iterations.count"])
	require.Equal(t, 7.0, snap["bisection.iterations.mean"])

	// same registry, same counters
	again := NewMetrics(r)
	again.Calls.Inc(1)
	require.Equal(t, int64(3), m.Calls.Count())
}
