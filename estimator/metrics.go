// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Minimax Estimation of Partially-Observed VAR Processes
// Class: 02-613 at Caregie Mellon University

package estimator

import (
	gometrics "github.com/rcrowley/go-metrics"
)

// Metrics counts estimator work in a go-metrics registry.
type Metrics struct {
	Registry gometrics.Registry

	Calls      gometrics.Counter
	LPSolves   gometrics.Counter
	LPFailures gometrics.Counter
	LPSolve    gometrics.Timer
	Bisection  gometrics.Histogram
}

// NewMetrics registers the estimator metrics in r, or in a fresh registry
// when r is nil.
func NewMetrics(r gometrics.Registry) *Metrics {
	if r == nil {
		r = gometrics.NewRegistry()
	}
	return &Metrics{
		Registry:   r,
		Calls:      gometrics.GetOrRegisterCounter("estimate.calls", r),
		LPSolves:   gometrics.GetOrRegisterCounter("lp.solves", r),
		LPFailures: gometrics.GetOrRegisterCounter("lp.failures", r),
		LPSolve:    gometrics.GetOrRegisterTimer("lp.solve", r),
		Bisection:  gometrics.GetOrRegisterHistogram("bisection.iterations", r, gometrics.NewUniformSample(1028)),
	}
}

// Snapshot flattens the registry into name -> value pairs. Timers report
// their mean duration in milliseconds and histograms their mean.
func (m *Metrics) Snapshot() map[string]float64 {
	out := map[string]float64{}
	m.Registry.Each(func(name string, i any) {
		switch v := i.(type) {
		case gometrics.Counter:
			out[name] = float64(v.Count())
		case gometrics.Timer:
			out[name+".count"] = float64(v.Count())
			out[name+".mean_ms"] = v.Mean() / 1e6
		case gometrics.Histogram:
			out[name+".count"] = float64(v.Count())
			out[name+".mean"] = v.Mean()
		}
	})
	return out
}
