// Package preprocessing provides column scalers fitted on training data and
// reused on unseen data.
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/basiskit/basiskit/core/model"
	"github.com/basiskit/basiskit/pkg/errors"
	"github.com/basiskit/basiskit/stats"
)

// constant columns get a unit scale
const minScale = 1e-8

var (
	_ model.Transformer = (*StandardScaler)(nil)
	_ model.Transformer = (*MinMaxScaler)(nil)
)

// StandardScaler shifts every column to zero mean and unit population
// standard deviation.
type StandardScaler struct {
	state *model.StateManager

	// Mean is the per-column mean seen by Fit.
	Mean []float64

	// Scale is the per-column standard deviation seen by Fit.
	Scale []float64

	// WithMean subtracts the mean when true.
	WithMean bool

	// WithStd divides by the standard deviation when true.
	WithStd bool
}

// NewStandardScaler creates an unfitted StandardScaler.
//
// Example:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	XScaled, err := scaler.FitTransform(X)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		state:    model.NewStateManager(),
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault centres and scales.
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit records the per-column mean and standard deviation of X.
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)
	for j := 0; j < c; j++ {
		mean, std := stat.PopMeanStdDev(stats.Column(X, j), nil)
		if s.WithMean {
			s.Mean[j] = mean
		}
		s.Scale[j] = 1
		if s.WithStd && std >= minScale {
			s.Scale[j] = std
		}
	}

	s.state.SetTrained(c, r)
	return nil
}

// Transform standardises X with the statistics recorded by Fit.
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	out, err := checkTransform(s.state, "StandardScaler", "Transform", X)
	if err != nil {
		return nil, err
	}
	out.Apply(func(_, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, X)
	return out, nil
}

// FitTransform fits on X and returns X transformed.
func (s *StandardScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform maps standardised data back to the original scale.
func (s *StandardScaler) InverseTransform(X mat.Matrix) (*mat.Dense, error) {
	out, err := checkTransform(s.state, "StandardScaler", "InverseTransform", X)
	if err != nil {
		return nil, err
	}
	out.Apply(func(_, j int, v float64) float64 {
		return v*s.Scale[j] + s.Mean[j]
	}, X)
	return out, nil
}

// IsFitted reports whether Fit has succeeded.
func (s *StandardScaler) IsFitted() bool {
	return s.state.IsTrained()
}

func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	nFeatures, _ := s.state.GetDimensions()
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, nFeatures)
}

// MinMaxScaler maps every column linearly onto FeatureRange, using the
// column minimum and maximum seen by Fit.
type MinMaxScaler struct {
	state *model.StateManager

	// DataMin is the per-column minimum seen by Fit.
	DataMin []float64

	// DataMax is the per-column maximum seen by Fit.
	DataMax []float64

	// Scale is DataMax - DataMin, or 1 for constant columns.
	Scale []float64

	// FeatureRange is the target [min, max].
	FeatureRange [2]float64
}

// NewMinMaxScaler creates an unfitted MinMaxScaler for the target range.
func NewMinMaxScaler(featureRange [2]float64) *MinMaxScaler {
	return &MinMaxScaler{
		state:        model.NewStateManager(),
		FeatureRange: featureRange,
	}
}

// NewMinMaxScalerDefault scales onto [0, 1].
func NewMinMaxScalerDefault() *MinMaxScaler {
	return NewMinMaxScaler([2]float64{0, 1})
}

// Fit records the per-column minimum and maximum of X.
func (m *MinMaxScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("MinMaxScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	if !(m.FeatureRange[1] > m.FeatureRange[0]) {
		return errors.NewValidationError("feature_range", "minimum must be below maximum", m.FeatureRange)
	}

	m.DataMin = make([]float64, c)
	m.DataMax = make([]float64, c)
	m.Scale = make([]float64, c)
	for j := 0; j < c; j++ {
		column := stats.Column(X, j)
		m.DataMin[j] = floats.Min(column)
		m.DataMax[j] = floats.Max(column)
		m.Scale[j] = m.DataMax[j] - m.DataMin[j]
		if math.Abs(m.Scale[j]) < minScale {
			m.Scale[j] = 1
		}
	}

	m.state.SetTrained(c, r)
	return nil
}

// Transform scales X onto FeatureRange.
func (m *MinMaxScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	out, err := checkTransform(m.state, "MinMaxScaler", "Transform", X)
	if err != nil {
		return nil, err
	}
	lo, width := m.FeatureRange[0], m.FeatureRange[1]-m.FeatureRange[0]
	out.Apply(func(_, j int, v float64) float64 {
		return (v-m.DataMin[j])/m.Scale[j]*width + lo
	}, X)
	return out, nil
}

// FitTransform fits on X and returns X transformed.
func (m *MinMaxScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// InverseTransform maps scaled data back to the original range.
func (m *MinMaxScaler) InverseTransform(X mat.Matrix) (*mat.Dense, error) {
	out, err := checkTransform(m.state, "MinMaxScaler", "InverseTransform", X)
	if err != nil {
		return nil, err
	}
	lo, width := m.FeatureRange[0], m.FeatureRange[1]-m.FeatureRange[0]
	out.Apply(func(_, j int, v float64) float64 {
		return (v-lo)/width*m.Scale[j] + m.DataMin[j]
	}, X)
	return out, nil
}

// IsFitted reports whether Fit has succeeded.
func (m *MinMaxScaler) IsFitted() bool {
	return m.state.IsTrained()
}

func (m *MinMaxScaler) String() string {
	if !m.IsFitted() {
		return fmt.Sprintf("MinMaxScaler(feature_range=[%.1f, %.1f])",
			m.FeatureRange[0], m.FeatureRange[1])
	}
	nFeatures, _ := m.state.GetDimensions()
	return fmt.Sprintf("MinMaxScaler(feature_range=[%.1f, %.1f], n_features=%d)",
		m.FeatureRange[0], m.FeatureRange[1], nFeatures)
}

// checkTransform guards a transform call and allocates its output.
func checkTransform(state *model.StateManager, name, method string, X mat.Matrix) (*mat.Dense, error) {
	if err := state.RequireTrained(name, method); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	nFeatures, _ := state.GetDimensions()
	if c != nFeatures {
		return nil, errors.NewDimensionError(name+"."+method, nFeatures, c, 1)
	}
	return mat.NewDense(r, c, nil), nil
}
