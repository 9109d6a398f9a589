package basis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/basiskit/basiskit/pkg/errors"
)

func TestNewSet(t *testing.T) {
	tests := []struct {
		name    string
		names   []string
		wantErr bool
	}{
		{"linear", []string{"one", "identity"}, false},
		{"bias only", []string{"one"}, false},
		{"polynomial", []string{"one", "identity", "square", "cube"}, false},
		{"empty", nil, true},
		{"unknown", []string{"one", "nope"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSet(tt.names...)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.names, s.Names())
			assert.Equal(t, len(tt.names), s.Len())
		})
	}
}

func TestWeightCount(t *testing.T) {
	tests := []struct {
		names     []string
		nFeatures int
		want      int
	}{
		{[]string{"one"}, 5, 1},
		{[]string{"one", "identity"}, 2, 3},
		{[]string{"one", "identity", "square"}, 3, 7},
		{[]string{"one", "identity", "square", "cube"}, 4, 13},
	}

	for _, tt := range tests {
		s := MustSet(tt.names...)
		assert.Equal(t, tt.want, s.WeightCount(tt.nFeatures), "%v with %d features", tt.names, tt.nFeatures)
	}
}

func TestExpandRowLayout(t *testing.T) {
	s := MustSet("one", "identity", "square")
	row := s.ExpandRow([]float64{2, 3}, nil)

	// bias, then feature-major: x0, x0^2, x1, x1^2
	assert.Equal(t, []float64{1, 2, 4, 3, 9}, row)
	assert.Equal(t, 1, s.WeightIndex(0, 1))
	assert.Equal(t, 2, s.WeightIndex(0, 2))
	assert.Equal(t, 3, s.WeightIndex(1, 1))
	assert.Equal(t, 4, s.WeightIndex(1, 2))
	assert.Equal(t, row[s.WeightIndex(1, 2)], 9.0)
}

func TestEvaluateLinearRegression(t *testing.T) {
	s := Linear()
	X := mat.NewDense(3, 2, []float64{
		1, 2,
		0, 0,
		-1, 4,
	})
	w := mat.NewVecDense(3, []float64{0.5, 2, -1})

	y, err := s.Evaluate(X, w)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		want := 0.5 + 2*X.At(i, 0) - 1*X.At(i, 1)
		assert.InDelta(t, want, y.AtVec(i), 1e-12)
	}
}

func TestEvaluateBiasOnly(t *testing.T) {
	s := MustSet("one")
	X := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	y, err := s.Evaluate(X, mat.NewVecDense(1, []float64{7}))
	require.NoError(t, err)
	assert.Equal(t, []float64{7, 7}, y.RawVector().Data)
}

func TestEvaluateWrongWeightLength(t *testing.T) {
	s := Linear()
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	_, err := s.Evaluate(X, mat.NewVecDense(2, nil))
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestExpandMatchesExpandRow(t *testing.T) {
	s := MustSet("one", "identity", "sin", "exp")
	n := 2500
	data := make([]float64, n*2)
	for i := range data {
		data[i] = float64(i%17) / 10
	}
	X := mat.NewDense(n, 2, data)

	phi, err := s.Expand(X)
	require.NoError(t, err)
	r, c := phi.Dims()
	assert.Equal(t, n, r)
	assert.Equal(t, s.WeightCount(2), c)

	for _, i := range []int{0, 999, 1000, n - 1} {
		want := s.ExpandRow(mat.Row(nil, i, X), nil)
		assert.Equal(t, want, mat.Row(nil, i, phi))
	}
}

func TestExpandRecoversPanics(t *testing.T) {
	require.NoError(t, Register("test_panics", func(float64) float64 { panic("boom") }))
	s := MustSet("one", "test_panics")

	_, err := s.Expand(mat.NewDense(1, 1, []float64{1}))
	require.Error(t, err)
	var pe *errors.PanicError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "boom", pe.PanicValue)
}

func TestRegister(t *testing.T) {
	require.NoError(t, Register("test_double", func(x float64) float64 { return 2 * x }))
	f, err := Lookup("test_double")
	require.NoError(t, err)
	assert.Equal(t, 6.0, f.Fn(3))
	assert.Contains(t, Registered(), "test_double")

	err = Register("test_double", math.Abs)
	assert.True(t, errors.IsValidation(err))
	assert.True(t, errors.IsValidation(Register("", math.Abs)))
}

func TestSetEqual(t *testing.T) {
	assert.True(t, Linear().Equal(MustSet("one", "identity")))
	assert.False(t, Linear().Equal(MustSet("one", "square")))
	assert.False(t, Linear().Equal(MustSet("one")))

	p, err := Polynomial(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "identity", "square"}, p.Names())
	_, err = Polynomial(4)
	assert.Error(t, err)
}
