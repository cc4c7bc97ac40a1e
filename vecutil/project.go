package vecutil

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Point2D is an embedding projected onto the first two principal components.
type Point2D struct {
	X float64
	Y float64
}

const (
	powerIterations = 100
	powerTolerance  = 1e-9
)

// Project2D reduces embeddings to two dimensions with PCA so they can be
// plotted. Principal axes are found by power iteration with deflation; the
// input is mean-centered first. All vectors must share one dimension.
func Project2D(vectors [][]float32) ([]Point2D, error) {
	if len(vectors) == 0 {
		return nil, nil
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("vecutil: cannot project empty vectors")
	}

	// Mean-center into float64 working copies.
	mean := make([]float64, dim)
	data := make([][]float64, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vecutil: inconsistent vector dims %d vs %d", len(v), dim)
		}
		row := make([]float64, dim)
		for j, x := range v {
			row[j] = float64(x)
			mean[j] += float64(x)
		}
		data[i] = row
	}
	for j := range mean {
		mean[j] /= float64(len(data))
	}
	for _, row := range data {
		for j := range row {
			row[j] -= mean[j]
		}
	}

	first := principalAxis(data, nil)
	second := principalAxis(data, first)

	points := make([]Point2D, len(data))
	for i, row := range data {
		points[i] = Point2D{X: dotF64(row, first), Y: dotF64(row, second)}
	}
	return points, nil
}

// WritePointsCSV writes (id, x, y) rows for plotting tools.
func WritePointsCSV(w io.Writer, ids []string, points []Point2D) error {
	if len(ids) != len(points) {
		return fmt.Errorf("vecutil: ids and points length mismatch: %d != %d", len(ids), len(points))
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "x", "y"}); err != nil {
		return err
	}
	for i, id := range ids {
		row := []string{
			id,
			strconv.FormatFloat(points[i].X, 'g', -1, 64),
			strconv.FormatFloat(points[i].Y, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// principalAxis runs power iteration over the covariance of data. When
// exclude is non-nil, components along it are removed each step (deflation),
// yielding the next orthogonal axis.
func principalAxis(data [][]float64, exclude []float64) []float64 {
	dim := len(data[0])
	axis := make([]float64, dim)
	// Deterministic start so projections are reproducible.
	for j := range axis {
		axis[j] = 1 / math.Sqrt(float64(dim)+float64(j))
	}
	normalizeF64(axis)

	next := make([]float64, dim)
	for iter := 0; iter < powerIterations; iter++ {
		for j := range next {
			next[j] = 0
		}
		// next = Cov * axis, computed as sum of row * (row . axis).
		for _, row := range data {
			p := dotF64(row, axis)
			for j := range row {
				next[j] += p * row[j]
			}
		}
		if exclude != nil {
			p := dotF64(next, exclude)
			for j := range next {
				next[j] -= p * exclude[j]
			}
		}
		if !normalizeF64(next) {
			break
		}
		var diff float64
		for j := range axis {
			d := next[j] - axis[j]
			diff += d * d
		}
		copy(axis, next)
		if diff < powerTolerance {
			break
		}
	}
	return axis
}

func dotF64(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func normalizeF64(v []float64) bool {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return false
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] /= norm
	}
	return true
}
