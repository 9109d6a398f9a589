package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/basiskit/basiskit/activation"
	"github.com/basiskit/basiskit/metrics"
	"github.com/basiskit/basiskit/optimize"
)

// Model is the lifecycle every trainable model implements.
//
// A model starts Untrained. Train moves it to Trained; changing a
// hyperparameter moves it back. Predict, PredictMany and Report return a
// NotFittedError while the model is Untrained.
type Model interface {
	// Train fits the model to X (samples x features) and y (samples x 1).
	Train(X, y mat.Matrix) error

	// Predict returns the output for a single sample given as a 1xF row or an Fx1 column.
	Predict(sample mat.Matrix) (float64, error)

	// PredictMany returns one output per row of X.
	PredictMany(X mat.Matrix) (*mat.VecDense, error)

	// Report predicts on X and evaluates the predictions against y.
	Report(X, y mat.Matrix) (*metrics.ClassificationReport, error)

	// GenerateInitialWeights returns the starting weight vector of length n.
	GenerateInitialWeights(n int) []float64

	// IsTrained reports whether the model is in the Trained state.
	IsTrained() bool
}

// Variant is what distinguishes concrete models that share the Estimator lifecycle:
// the nonlinearity applied after basis expansion, the loss minimised in
// training, and how the initial weights are drawn.
type Variant interface {
	Name() string
	Activation() activation.Func
	Objective() optimize.Objective
	GenerateInitialWeights(n int) []float64
}

// Transformer is a fitted, stateful column transform such as a scaler.
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (*mat.Dense, error)
	FitTransform(X mat.Matrix) (*mat.Dense, error)
}
