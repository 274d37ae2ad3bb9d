// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Minimax Estimation of Partially-Observed VAR Processes
// Class: 02-613 at Caregie Mellon University

package estimator

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ============================================================================
// HELPER FUNCTIONS
// ============================================================================

// almostEqual compares floats with tolerance
func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// ReadDirectory reads all files in a directory
func ReadDirectory(directory string) []os.DirEntry {
	files, err := os.ReadDir(directory)
	if err != nil {
		panic(fmt.Sprintf("Error reading directory %s: %v", directory, err))
	}
	return files
}

// skipComments reads lines from scanner, skipping comment lines starting with #
func skipComments(scanner *bufio.Scanner) string {
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			return line
		}
	}
	return ""
}

// parseFloats splits a whitespace separated line into floats
func parseFloats(line string) []float64 {
	fields := strings.Fields(line)
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			panic(fmt.Sprintf("Error parsing %q: %v", f, err))
		}
		vals[i] = v
	}
	return vals
}

// parseInts splits a whitespace separated line into ints
func parseInts(line string) []int {
	fields := strings.Fields(line)
	vals := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			panic(fmt.Sprintf("Error parsing %q: %v", f, err))
		}
		vals[i] = v
	}
	return vals
}

// readMatrix reads rows lines of cols values each
func readMatrix(scanner *bufio.Scanner, rows, cols int) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		vals := parseFloats(skipComments(scanner))
		if len(vals) != cols {
			panic(fmt.Sprintf("Error: row %d has %d values, want %d", i, len(vals), cols))
		}
		m.SetRow(i, vals)
	}
	return m
}

// readMatrixUntilEOF reads every remaining row
func readMatrixUntilEOF(scanner *bufio.Scanner) *mat.Dense {
	var data []float64
	rows, cols := 0, 0
	for {
		line := skipComments(scanner)
		if line == "" {
			break
		}
		vals := parseFloats(line)
		if cols == 0 {
			cols = len(vals)
		}
		if len(vals) != cols {
			panic(fmt.Sprintf("Error: row %d has %d values, want %d", rows, len(vals), cols))
		}
		data = append(data, vals...)
		rows++
	}
	if rows == 0 {
		panic("Error: empty matrix")
	}
	return mat.NewDense(rows, cols, data)
}

func openScanner(file string) (*bufio.Scanner, func()) {
	f, err := os.Open(file)
	if err != nil {
		panic(err)
	}
	return bufio.NewScanner(f), func() { f.Close() }
}

// matricesAlmostEqual reports the first entry where got and want differ by
// more than tol
func matricesAlmostEqual(got, want mat.Matrix, tol float64) (bool, string) {
	gr, gc := got.Dims()
	wr, wc := want.Dims()
	if gr != wr || gc != wc {
		return false, fmt.Sprintf("dims %dx%d, want %dx%d", gr, gc, wr, wc)
	}
	for i := 0; i < gr; i++ {
		for j := 0; j < gc; j++ {
			if !almostEqual(got.At(i, j), want.At(i, j), tol) {
				return false, fmt.Sprintf("entry (%d,%d) = %v, want %v", i, j, got.At(i, j), want.At(i, j))
			}
		}
	}
	return true, ""
}

// fullSampling observes every coordinate at every time without noise
var fullSampling = SamplingModel{A: 1, B: 0, Omega: 0}
