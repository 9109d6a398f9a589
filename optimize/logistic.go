package optimize

import (
	"gonum.org/v1/gonum/mat"

	"github.com/basiskit/basiskit/basis"
	"github.com/basiskit/basiskit/pkg/errors"
)

// LogisticRegression expands X with set and fits a logistic model starting
// from w0 using a fixed learning rate. y must hold 0/1 labels. The returned
// weights are laid out as set.WeightCount expects.
func LogisticRegression(X mat.Matrix, y, w0 []float64, learningRate float64, set basis.Set, opts ...func(*Config)) ([]float64, error) {
	cfg := DefaultConfig()
	cfg.LearningRate = learningRate
	for _, opt := range opts {
		opt(&cfg)
	}

	_, c := X.Dims()
	if want := set.WeightCount(c); len(w0) != want {
		return nil, errors.NewDimensionError("optimize.LogisticRegression", want, len(w0), 1)
	}

	phi, err := set.Expand(X)
	if err != nil {
		return nil, err
	}
	res, err := GradientDescent(Logistic{}, phi, y, w0, cfg)
	if err != nil {
		return nil, err
	}
	return res.Weights, nil
}

// WithMaxIter overrides Config.MaxIter.
func WithMaxIter(n int) func(*Config) {
	return func(c *Config) { c.MaxIter = n }
}

// WithTol overrides Config.Tol.
func WithTol(tol float64) func(*Config) {
	return func(c *Config) { c.Tol = tol }
}
