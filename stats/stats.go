// Package stats holds the descriptive statistics used by the evaluation and
// preprocessing code, over slices and matrix columns.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/basiskit/basiskit/pkg/errors"
)

// Mean returns the arithmetic mean of x. It is NaN for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Mean(x, nil)
}

// StdDev returns the sample standard deviation of x (n-1 denominator).
func StdDev(x []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	return stat.StdDev(x, nil)
}

// WeightedMean returns sum(w_i x_i) / sum(w_i).
func WeightedMean(x, weights []float64) (float64, error) {
	if len(x) != len(weights) {
		return 0, errors.NewDimensionError("stats.WeightedMean", len(x), len(weights), 0)
	}
	if floats.Sum(weights) == 0 {
		return math.NaN(), errors.NewUndefinedMetricError("weighted mean", "weights sum to zero")
	}
	return stat.Mean(x, weights), nil
}

// Median returns the median of x without modifying it.
func Median(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Standardize returns (x - mean) / stddev. A constant slice is returned centred
// but unscaled.
func Standardize(x []float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}
	mean, std := stat.MeanStdDev(x, nil)
	for i, v := range x {
		out[i] = v - mean
		if std > 0 && !math.IsNaN(std) {
			out[i] /= std
		}
	}
	return out
}

// Column copies column j of m.
func Column(m mat.Matrix, j int) []float64 {
	return mat.Col(nil, j, m)
}

// ColumnMean returns the mean of column j of m.
func ColumnMean(m mat.Matrix, j int) float64 {
	return Mean(Column(m, j))
}

// ColumnStdDev returns the sample standard deviation of column j of m.
func ColumnStdDev(m mat.Matrix, j int) float64 {
	return StdDev(Column(m, j))
}

// ColumnMedian returns the median of column j of m.
func ColumnMedian(m mat.Matrix, j int) float64 {
	return Median(Column(m, j))
}

// StandardizeColumns returns a copy of m with every column standardized.
func StandardizeColumns(m mat.Matrix) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(r, c, nil)
	for j := 0; j < c; j++ {
		out.SetCol(j, Standardize(Column(m, j)))
	}
	return out
}
