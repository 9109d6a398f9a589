package preprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/basiskit/basiskit/pkg/errors"
)

func sample() *mat.Dense {
	return mat.NewDense(4, 2, []float64{
		1, 10,
		2, 10,
		3, 10,
		4, 10,
	})
}

func TestStandardScaler(t *testing.T) {
	s := NewStandardScalerDefault()
	X := sample()

	out, err := s.FitTransform(X)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, s.Mean[0], 1e-12)
	assert.InDelta(t, 1.118033988749895, s.Scale[0], 1e-12)
	assert.Equal(t, 1.0, s.Scale[1], "constant column keeps a unit scale")

	for i := 0; i < 4; i++ {
		assert.InDelta(t, 0.0, out.At(i, 1), 1e-12)
	}
	assert.InDelta(t, -1.3416407864998738, out.At(0, 0), 1e-12)

	back, err := s.InverseTransform(out)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(X, back, 1e-12))
	assert.Contains(t, s.String(), "n_features=2")
}

func TestStandardScalerOptions(t *testing.T) {
	s := NewStandardScaler(false, true)
	out, err := s.FitTransform(sample())
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, s.Mean)
	assert.InDelta(t, 10.0, out.At(0, 1), 1e-12)
}

func TestMinMaxScaler(t *testing.T) {
	m := NewMinMaxScalerDefault()
	X := sample()

	out, err := m.FitTransform(X)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 10}, m.DataMin)
	assert.Equal(t, []float64{4, 10}, m.DataMax)

	assert.InDelta(t, 0.0, out.At(0, 0), 1e-12)
	assert.InDelta(t, 1.0/3.0, out.At(1, 0), 1e-12)
	assert.InDelta(t, 1.0, out.At(3, 0), 1e-12)
	assert.InDelta(t, 0.0, out.At(2, 1), 1e-12)

	back, err := m.InverseTransform(out)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(X, back, 1e-12))

	custom := NewMinMaxScaler([2]float64{-1, 1})
	out, err = custom.FitTransform(X)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, out.At(0, 0), 1e-12)
	assert.InDelta(t, 1.0, out.At(3, 0), 1e-12)
}

func TestScalerErrors(t *testing.T) {
	tests := []struct {
		name   string
		scaler interface {
			Fit(mat.Matrix) error
			Transform(mat.Matrix) (*mat.Dense, error)
		}
	}{
		{"standard", NewStandardScalerDefault()},
		{"minmax", NewMinMaxScalerDefault()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.scaler.Transform(sample())
			assert.True(t, errors.IsNotFitted(err))

			require.NoError(t, tt.scaler.Fit(sample()))
			_, err = tt.scaler.Transform(mat.NewDense(2, 3, nil))
			assert.True(t, errors.IsValidation(err))
		})
	}

	bad := NewMinMaxScaler([2]float64{1, 1})
	assert.True(t, errors.IsValidation(bad.Fit(sample())))
	assert.False(t, bad.IsFitted())
}
