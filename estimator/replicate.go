// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Minimax Estimation of Partially-Observed VAR Processes
// Class: 02-613 at Caregie Mellon University

package estimator

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Options for Replicate
type ReplicationOptions struct {
	// Number of independent simulate/estimate runs (default 100)
	NReplications int

	// Worker goroutines (default runtime.NumCPU())
	Workers int

	// Quantile band level, e.g. 0.05 for a 95% band (default 0.05)
	Alpha float64

	// Master seed; 0 = time-based
	Seed uint64
}

// ReplicationResult holds the scores of every replication of one
// parameter point, in replication order, and their summary.
type ReplicationResult struct {
	Estimator string
	Seed      uint64
	Alpha     float64

	// max_ij |theta_hat - theta| per replication
	Errors []float64
	// spectral norm of theta_hat - theta per replication
	OperatorErrors []float64

	Mean   float64
	StdDev float64
	Lower  float64 // alpha/2 quantile of Errors
	Upper  float64 // 1-alpha/2 quantile of Errors
}

// replication is what one worker reports back for replication index.
type replication struct {
	index  int
	maxErr float64
	opErr  float64
	err    error
}

// Replicate simulates params NReplications times, estimates theta with est
// on each trajectory and scores the estimates against params.Theta.
// Every replication draws from its own random handle seeded from the
// master seed, so the result does not depend on worker scheduling.
// The first failing replication cancels the rest and its error is returned.
func Replicate(ctx context.Context, params ProcessParameters, est Estimator, opts ReplicationOptions) (*ReplicationResult, error) {
	if est == nil {
		return nil, fmt.Errorf("%w: estimator not provided", ErrInvalidParameters)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	// Default options if not set
	if opts.NReplications <= 0 {
		opts.NReplications = 100
	}
	if opts.Alpha <= 0 || opts.Alpha >= 1 {
		opts.Alpha = 0.05
	}
	if opts.Seed == 0 {
		opts.Seed = uint64(time.Now().UnixNano())
	}
	n := opts.NReplications

	// Per-replication seeds so workers don't share a random handle
	master := NewRand(opts.Seed)
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = master.Uint64()
	}

	numWorkers := opts.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > n {
		numWorkers = n
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	resultsCh := make(chan replication, n)

	var wg sync.WaitGroup
	wg.Add(numWorkers)

	worker := func() {
		defer wg.Done()
		for b := range jobs {
			resultsCh <- runReplication(ctx, b, seeds[b], params, est)
		}
	}
	for w := 0; w < numWorkers; w++ {
		go worker()
	}

	// Feed jobs until done or cancelled
	go func() {
		defer close(jobs)
		for b := 0; b < n; b++ {
			select {
			case jobs <- b:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	res := &ReplicationResult{
		Estimator:      est.Name(),
		Seed:           opts.Seed,
		Alpha:          opts.Alpha,
		Errors:         make([]float64, n),
		OperatorErrors: make([]float64, n),
	}

	var firstErr error
	received := 0
	for rep := range resultsCh {
		if rep.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("replication %d: %w", rep.index, rep.err)
				cancel()
			}
			continue
		}
		res.Errors[rep.index] = rep.maxErr
		res.OperatorErrors[rep.index] = rep.opErr
		received++
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if received != n {
		// only reachable when the parent context was cancelled
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("only %d of %d replications completed", received, n)
	}

	res.Mean, res.StdDev = stat.MeanStdDev(res.Errors, nil)
	if n < 2 {
		res.StdDev = 0
	}
	res.Lower = empiricalQuantile(res.Errors, opts.Alpha/2)
	res.Upper = empiricalQuantile(res.Errors, 1-opts.Alpha/2)
	return res, nil
}

func runReplication(ctx context.Context, index int, seed uint64, params ProcessParameters, est Estimator) replication {
	if err := ctx.Err(); err != nil {
		return replication{index: index, err: err}
	}
	tr, err := Simulate(params, NewRand(seed))
	if err != nil {
		return replication{index: index, err: fmt.Errorf("simulate: %w", err)}
	}
	e, err := est.Estimate(ctx, tr)
	if err != nil {
		return replication{index: index, err: fmt.Errorf("%s estimate: %w", est.Name(), err)}
	}
	maxErr, err := MaxAbsError(e.Theta, params.Theta)
	if err != nil {
		return replication{index: index, err: err}
	}
	opErr, err := OperatorNormError(e.Theta, params.Theta)
	if err != nil {
		return replication{index: index, err: err}
	}
	return replication{index: index, maxErr: maxErr, opErr: opErr}
}

// empiricalQuantile returns the empirical q-quantile of samples (0 <= q <= 1)
// using linear interpolation between order statistics.
func empiricalQuantile(samples []float64, q float64) float64 {
	n := len(samples)
	if n == 0 {
		return math.NaN()
	}

	tmp := make([]float64, n)
	copy(tmp, samples)
	sort.Float64s(tmp)

	if q <= 0 {
		return tmp[0]
	}
	if q >= 1 {
		return tmp[n-1]
	}

	pos := q * float64(n-1)
	idxBelow := int(math.Floor(pos))
	idxAbove := int(math.Ceil(pos))

	if idxAbove == idxBelow {
		return tmp[idxBelow]
	}

	weight := pos - float64(idxBelow)
	return tmp[idxBelow]*(1.0-weight) + tmp[idxAbove]*weight
}
