// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Minimax Estimation of Partially-Observed VAR Processes
// Class: 02-613 at Caregie Mellon University

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"PartialVAR_Estimation/estimator"
	"PartialVAR_Estimation/logging"
)

// ThetaFile and EstimateFile are written next to a simulated trajectory.
const (
	ThetaFile    = "theta.csv"
	EstimateFile = "theta_hat.csv"
)

// simulationSeed keeps the simulation stream apart from the stream theta
// was drawn from.
func simulationSeed(cfg *ExperimentConfig) uint64 {
	return cfg.Seed + 1
}

// runSimulate draws one trajectory for cfg and, when outDir is set, writes
// theta and the trajectory there.
func runSimulate(cfg *ExperimentConfig, outDir string, w io.Writer) (estimator.ProcessParameters, *estimator.Trajectory, error) {
	log := logging.GetLog("pvar.simulate")

	// 1. Build the process
	params, err := cfg.ProcessParameters()
	if err != nil {
		return params, nil, err
	}

	// 2. Simulate
	tr, err := estimator.Simulate(params, estimator.NewRand(simulationSeed(cfg)))
	if err != nil {
		return params, nil, err
	}
	log.Info("simulated trajectory", "dim", params.Dim(), "horizon", params.Horizon, "seed", cfg.Seed)

	// 3. Report how much of the process was seen
	T, D := tr.X.Dims()
	observed := 0.0
	for d := 0; d < D; d++ {
		observed += tr.Mask.ObservedFraction(d)
	}
	fmt.Fprintf(w, "Simulated %d time points of a %d-dimensional process\n", T, D)
	fmt.Fprintf(w, "Observed fraction %.4f (stationary p = %.4f)\n", observed/float64(D), params.Sampling().P())

	// 4. Write CSV files
	if outDir != "" {
		if err := WriteTrajectoryCSV(outDir, tr); err != nil {
			return params, nil, err
		}
		if err := WriteMatrixCSV(filepath.Join(outDir, ThetaFile), params.Theta, nil); err != nil {
			return params, nil, err
		}
		fmt.Fprintln(w, "Trajectory written to", outDir)
	}
	return params, tr, nil
}

// runEstimate estimates theta with the configured method, either on a
// fresh simulation of cfg or on observations loaded from obsPath. Errors
// against the true theta are only reported for simulated data.
func runEstimate(ctx context.Context, cfg *ExperimentConfig, obsPath, outDir string, w io.Writer) (*estimator.Estimate, error) {
	log := logging.GetLog("pvar.estimate")

	metrics := estimator.NewMetrics(nil)
	est, err := cfg.NewEstimator(logging.GetLog("estimator."+cfg.Estimator.Method), metrics)
	if err != nil {
		return nil, err
	}

	// 1. Get a trajectory
	var (
		tr    *estimator.Trajectory
		truth mat.Matrix
	)
	if obsPath != "" {
		obs, header, err := LoadObservationsCSV(obsPath)
		if err != nil {
			return nil, err
		}
		T, D, _ := obs.Dims()
		log.Info("loaded observations", "path", obsPath, "rows", T, "columns", D, "names", header)
		tr = &estimator.Trajectory{Mask: obs.Mask, Y: obs.Y}
	} else {
		params, simulated, err := runSimulate(cfg, "", io.Discard)
		if err != nil {
			return nil, err
		}
		tr = simulated
		truth = params.Theta
	}

	// 2. Estimate
	res, err := est.Estimate(ctx, tr)
	if err != nil {
		return nil, fmt.Errorf("%s estimate: %w", est.Name(), err)
	}

	// 3. Print tables
	if err := PrintEstimate(w, est.Name(), res, truth); err != nil {
		return nil, err
	}
	PrintMetrics(w, metrics.Snapshot())

	// 4. Write the estimate
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, err
		}
		path := filepath.Join(outDir, EstimateFile)
		if err := WriteMatrixCSV(path, res.Theta, nil); err != nil {
			return nil, err
		}
		fmt.Fprintln(w, "Estimate written to", path)
	}
	return res, nil
}

// runReplicate repeats simulate and estimate Replications.Count times for
// the single parameter point in cfg.
func runReplicate(ctx context.Context, cfg *ExperimentConfig, outPath string, w io.Writer) (*estimator.ReplicationResult, error) {
	log := logging.GetLog("pvar.replicate")

	params, err := cfg.ProcessParameters()
	if err != nil {
		return nil, err
	}
	metrics := estimator.NewMetrics(nil)
	est, err := cfg.NewEstimator(logging.GetLog("estimator."+cfg.Estimator.Method), metrics)
	if err != nil {
		return nil, err
	}

	opts := estimator.ReplicationOptions{
		NReplications: cfg.Replications.Count,
		Workers:       cfg.Replications.Workers,
		Alpha:         cfg.Replications.Alpha,
		Seed:          simulationSeed(cfg),
	}
	log.Info("replicating", "estimator", est.Name(), "count", opts.NReplications, "workers", opts.Workers)

	res, err := estimator.Replicate(ctx, params, est, opts)
	if err != nil {
		return nil, err
	}

	PrintReplication(w, res)
	PrintMetrics(w, metrics.Snapshot())

	if outPath != "" {
		if dir := filepath.Dir(outPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		if err := WriteReplicationCSV(outPath, res); err != nil {
			return nil, err
		}
		fmt.Fprintln(w, "Replication errors written to", outPath)
	}
	return res, nil
}
