// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Minimax Estimation of Partially-Observed VAR Processes
// Class: 02-613 at Caregie Mellon University

package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gonum.org/v1/gonum/mat"

	"PartialVAR_Estimation/estimator"
)

// File names written by WriteTrajectoryCSV
const (
	LatentFile       = "latent.csv"
	MaskFile         = "mask.csv"
	ObservationsFile = "observations.csv"
)

// LoadObservationsCSV loads partial observations: a header row naming the
// coordinates, then one row per time point. Empty, NA and NaN cells are
// unobserved.
func LoadObservationsCSV(path string) (*estimator.Observations, []string, error) {
	// 1. Open file
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	// 2. Make CSV reader
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	// 3. Read header row
	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) == 0 {
		return nil, nil, fmt.Errorf("empty header in %s", path)
	}
	D := len(header)

	var (
		data     []float64 // flat data for mat.Dense
		observed []bool    // flat mask
		row      int       // row counter
	)

	// 4. Read each data row
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row %d: %w", row+2, err) // +2 for header + 1-based
		}

		if len(record) != D {
			return nil, nil, fmt.Errorf("row %d: expected %d columns, got %d", row+2, D, len(record))
		}

		for j, s := range record {
			s = strings.TrimSpace(s)
			if s == "" || strings.EqualFold(s, "NA") || strings.EqualFold(s, "NaN") {
				data = append(data, 0)
				observed = append(observed, false)
				continue
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("parse float at row %d col %d (%q): %w", row+2, j+1, s, err)
			}
			data = append(data, v)
			observed = append(observed, true)
		}
		row++
	}

	if row == 0 {
		return nil, nil, fmt.Errorf("no data rows in %s", path)
	}

	// 5. Build observations
	obs := &estimator.Observations{
		Mask: estimator.NewMask(row, D, observed),
		Y:    mat.NewDense(row, D, data),
	}
	return obs, header, nil
}

// columnNames returns header when it fits, else x1..xD.
func columnNames(header []string, cols int) []string {
	if len(header) == cols {
		return header
	}
	names := make([]string, cols)
	for j := range names {
		names[j] = fmt.Sprintf("x%d", j+1)
	}
	return names
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// writeCSV creates path and hands fn a writer that is flushed afterwards.
func writeCSV(path string, fn func(w *csv.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := fn(writer); err != nil {
		return err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}

// WriteMatrixCSV writes m with one CSV row per matrix row.
func WriteMatrixCSV(path string, m mat.Matrix, header []string) error {
	rows, cols := m.Dims()
	return writeCSV(path, func(w *csv.Writer) error {
		if err := w.Write(columnNames(header, cols)); err != nil {
			return err
		}
		record := make([]string, cols)
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				record[j] = formatFloat(m.At(i, j))
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteMaskCSV writes the mask as 0/1 cells.
func WriteMaskCSV(path string, mask *estimator.Mask, header []string) error {
	rows, cols := mask.Dims()
	return writeCSV(path, func(w *csv.Writer) error {
		if err := w.Write(columnNames(header, cols)); err != nil {
			return err
		}
		record := make([]string, cols)
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				record[j] = "0"
				if mask.At(i, j) {
					record[j] = "1"
				}
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteObservationsCSV writes Y with unobserved cells left empty, the
// format LoadObservationsCSV reads back.
func WriteObservationsCSV(path string, obs *estimator.Observations, header []string) error {
	rows, cols, err := obs.Dims()
	if err != nil {
		return err
	}
	return writeCSV(path, func(w *csv.Writer) error {
		if err := w.Write(columnNames(header, cols)); err != nil {
			return err
		}
		record := make([]string, cols)
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				record[j] = ""
				if obs.Mask.At(i, j) {
					record[j] = formatFloat(obs.Y.At(i, j))
				}
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteTrajectoryCSV writes the latent states, the mask and the partial
// observations of tr into dir, creating it if needed.
func WriteTrajectoryCSV(dir string, tr *estimator.Trajectory) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := WriteMatrixCSV(filepath.Join(dir, LatentFile), tr.X, nil); err != nil {
		return fmt.Errorf("write latent states: %w", err)
	}
	if err := WriteMaskCSV(filepath.Join(dir, MaskFile), tr.Mask, nil); err != nil {
		return fmt.Errorf("write mask: %w", err)
	}
	if err := WriteObservationsCSV(filepath.Join(dir, ObservationsFile), tr.Observations(), nil); err != nil {
		return fmt.Errorf("write observations: %w", err)
	}
	return nil
}

// WriteReplicationCSV writes one row per replication.
// Columns: Replication, MaxAbsError, OperatorNormError
func WriteReplicationCSV(path string, res *estimator.ReplicationResult) error {
	return writeCSV(path, func(w *csv.Writer) error {
		header := []string{"Replication", "MaxAbsError", "OperatorNormError"}
		if err := w.Write(header); err != nil {
			return err
		}
		for i := range res.Errors {
			rec := []string{
				strconv.Itoa(i),
				formatFloat(res.Errors[i]),
				formatFloat(res.OperatorErrors[i]),
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func newTable(w io.Writer, title string, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	if header != nil {
		t.AppendHeader(header)
	}
	return t
}

// PrintEstimate renders the estimated theta and, when truth is known, its
// errors against it.
func PrintEstimate(w io.Writer, name string, est *estimator.Estimate, truth mat.Matrix) error {
	fmt.Fprintf(w, "\n=== %s estimate of theta ===\n", name)
	fmt.Fprintf(w, "%v\n\n", mat.Formatted(est.Theta, mat.Prefix(" "), mat.Squeeze()))

	t := newTable(w, "Estimate", table.Row{"Quantity", "Value"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	switch name {
	case MethodSparse:
		t.AppendRow(table.Row{"lambda", est.Lambda})
		t.AppendRow(table.Row{"density", est.Density})
		t.AppendRow(table.Row{"bisection probes", est.Iterations})
	default:
		t.AppendRow(table.Row{"rank", est.Rank})
		t.AppendRow(table.Row{"condition", est.Cond})
		t.AppendRow(table.Row{"ill-conditioned", est.IllConditioned})
	}
	if truth != nil {
		maxErr, err := estimator.MaxAbsError(est.Theta, truth)
		if err != nil {
			return err
		}
		opErr, err := estimator.OperatorNormError(est.Theta, truth)
		if err != nil {
			return err
		}
		t.AppendSeparator()
		t.AppendRow(table.Row{"max |theta_hat - theta|", maxErr})
		t.AppendRow(table.Row{"||theta_hat - theta||_2", opErr})
	}
	t.Render()
	return nil
}

// PrintReplication renders the summary of a replication run.
func PrintReplication(w io.Writer, res *estimator.ReplicationResult) {
	t := newTable(w, "Replications", table.Row{"Estimator", "N", "Mean", "StdDev",
		fmt.Sprintf("Q%.3g", res.Alpha/2), fmt.Sprintf("Q%.3g", 1-res.Alpha/2)})
	t.AppendRow(table.Row{res.Estimator, len(res.Errors), res.Mean, res.StdDev, res.Lower, res.Upper})
	t.Render()
}

// PrintMetrics renders a metrics snapshot sorted by name.
func PrintMetrics(w io.Writer, snapshot map[string]float64) {
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	t := newTable(w, "Metrics", table.Row{"Metric", "Value"})
	for _, name := range names {
		t.AppendRow(table.Row{name, snapshot[name]})
	}
	t.Render()
}
