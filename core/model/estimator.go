package model

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/basiskit/basiskit/basis"
	"github.com/basiskit/basiskit/metrics"
	"github.com/basiskit/basiskit/optimize"
	"github.com/basiskit/basiskit/pkg/errors"
	"github.com/basiskit/basiskit/pkg/log"
)

// Estimator is the lifecycle shared by every basis-expanded model. Concrete
// models differ only in the Variant they pass to NewEstimator.
//
// An Estimator is not safe for concurrent mutation. Concurrent Predict calls
// on a trained Estimator are safe.
type Estimator struct {
	state   *StateManager
	variant Variant
	basis   basis.Set
	cfg     optimize.Config
	weights []float64
	result  *optimize.Result
	logger  log.Logger
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithLearningRate sets the gradient descent step size.
func WithLearningRate(lr float64) Option {
	return func(e *Estimator) {
		e.cfg.LearningRate = lr
	}
}

// WithBasis sets the basis-function set.
func WithBasis(set basis.Set) Option {
	return func(e *Estimator) {
		e.basis = set
	}
}

// WithMaxIter caps the number of gradient descent iterations.
func WithMaxIter(maxIter int) Option {
	return func(e *Estimator) {
		e.cfg.MaxIter = maxIter
	}
}

// WithTol sets the gradient-norm stopping tolerance.
func WithTol(tol float64) Option {
	return func(e *Estimator) {
		e.cfg.Tol = tol
	}
}

// WithLossTol sets the loss-delta stopping tolerance. Zero disables it.
func WithLossTol(tol float64) Option {
	return func(e *Estimator) {
		e.cfg.LossTol = tol
	}
}

// NewEstimator creates an Untrained estimator for variant. The default basis is
// {one, identity} and the default optimizer settings are optimize.DefaultConfig.
func NewEstimator(variant Variant, opts ...Option) *Estimator {
	e := &Estimator{
		state:   NewStateManager(),
		variant: variant,
		basis:   basis.Linear(),
		cfg:     optimize.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = log.GetLoggerWithName("model").With(log.ModelNameKey, variant.Name())
	return e
}

// Name returns the variant name.
func (e *Estimator) Name() string {
	return e.variant.Name()
}

// Basis returns the basis-function set.
func (e *Estimator) Basis() basis.Set {
	return e.basis
}

// LearningRate returns the gradient descent step size.
func (e *Estimator) LearningRate() float64 {
	return e.cfg.LearningRate
}

// Config returns the optimizer settings.
func (e *Estimator) Config() optimize.Config {
	return e.cfg
}

// SetLearningRate changes the step size and resets the model to Untrained.
func (e *Estimator) SetLearningRate(lr float64) error {
	if !(lr > 0) {
		return errors.NewValidationError("learning_rate", "must be positive", lr)
	}
	e.cfg.LearningRate = lr
	e.invalidate()
	return nil
}

// SetBasis changes the basis-function set and resets the model to Untrained.
func (e *Estimator) SetBasis(set basis.Set) error {
	if set.Len() == 0 {
		return errors.NewValidationError("basis", "empty basis set", set.Names())
	}
	e.basis = set
	e.invalidate()
	return nil
}

func (e *Estimator) invalidate() {
	e.weights = nil
	e.result = nil
	e.state.Reset()
}

// IsTrained reports whether the estimator holds a weight vector.
func (e *Estimator) IsTrained() bool {
	return e.state.IsTrained()
}

// GenerateInitialWeights delegates to the variant.
func (e *Estimator) GenerateInitialWeights(n int) []float64 {
	return e.variant.GenerateInitialWeights(n)
}

// Weights returns a copy of the trained weight vector.
func (e *Estimator) Weights() ([]float64, error) {
	if err := e.state.RequireTrained(e.Name(), "Weights"); err != nil {
		return nil, err
	}
	out := make([]float64, len(e.weights))
	copy(out, e.weights)
	return out, nil
}

// Result returns the optimizer outcome of the last Train call, or nil.
func (e *Estimator) Result() *optimize.Result {
	return e.result
}

// Train fits the estimator. X is samples x features and y is a single column.
// The initial weights come from the variant's GenerateInitialWeights.
func (e *Estimator) Train(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, e.Name()+".Train")

	_, c := X.Dims()
	return e.TrainFrom(X, y, e.GenerateInitialWeights(e.basis.WeightCount(c)))
}

// TrainFrom fits the estimator starting from the weight vector w0.
// A failed call leaves the previous state untouched.
func (e *Estimator) TrainFrom(X, y mat.Matrix, w0 []float64) (err error) {
	defer errors.Recover(&err, e.Name()+".TrainFrom")

	labels, err := validateTrainingData(e.Name()+".Train", X, y)
	if err != nil {
		return err
	}
	r, c := X.Dims()
	if want := e.basis.WeightCount(c); len(w0) != want {
		return errors.NewDimensionError(e.Name()+".Train", want, len(w0), 1)
	}

	start := time.Now()
	phi, err := e.basis.Expand(X)
	if err != nil {
		return err
	}
	res, err := optimize.GradientDescent(e.variant.Objective(), phi, labels, w0, e.cfg)
	if err != nil {
		e.logger.Error("training failed", err, log.OperationKey, log.OperationTrain)
		return err
	}

	e.weights = res.Weights
	e.result = res
	e.state.SetTrained(c, r)

	e.logger.Info("model trained",
		log.OperationKey, log.OperationTrain,
		log.SamplesKey, r,
		log.FeaturesKey, c,
		log.BasisKey, e.basis.Names(),
		log.IterationKey, res.Iterations,
		log.ConvergedKey, res.Converged,
		log.LossKey, res.Loss,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Predict returns the output for a single sample. The sample may be a 1xF row
// or an Fx1 column; anything with more than one entry along both axes is
// rejected as ambiguous.
func (e *Estimator) Predict(sample mat.Matrix) (v float64, err error) {
	defer errors.Recover(&err, e.Name()+".Predict")

	if err := e.state.RequireTrained(e.Name(), "Predict"); err != nil {
		return 0, err
	}
	x, err := SampleVector(sample)
	if err != nil {
		return 0, err
	}
	nFeatures, _ := e.state.GetDimensions()
	if len(x) != nFeatures {
		return 0, errors.NewDimensionError(e.Name()+".Predict", nFeatures, len(x), 1)
	}
	return e.predictRow(x, nil), nil
}

// PredictMany returns one output per row of X.
func (e *Estimator) PredictMany(X mat.Matrix) (*mat.VecDense, error) {
	if err := e.state.RequireTrained(e.Name(), "PredictMany"); err != nil {
		return nil, err
	}
	nFeatures, _ := e.state.GetDimensions()
	if _, c := X.Dims(); c != nFeatures {
		return nil, errors.NewDimensionError(e.Name()+".PredictMany", nFeatures, c, 1)
	}

	phi, err := e.basis.Expand(X)
	if err != nil {
		return nil, err
	}
	r, _ := phi.Dims()
	out := mat.NewVecDense(r, nil)
	out.MulVec(phi, mat.NewVecDense(len(e.weights), e.weights))
	e.variant.Activation().ApplySlice(out.RawVector().Data)

	e.logger.Debug("predicted", log.OperationKey, log.OperationPredict, log.PredsKey, r)
	return out, nil
}

func (e *Estimator) predictRow(x, buf []float64) float64 {
	row := e.basis.ExpandRow(x, buf)
	return e.variant.Activation().Apply(floats.Dot(row, e.weights))
}

// Report predicts on X and builds a classification report against y.
func (e *Estimator) Report(X, y mat.Matrix) (*metrics.ClassificationReport, error) {
	if err := e.state.RequireTrained(e.Name(), "Report"); err != nil {
		return nil, err
	}
	if _, err := validateTrainingData(e.Name()+".Report", X, y); err != nil {
		return nil, err
	}
	pred, err := e.PredictMany(X)
	if err != nil {
		return nil, err
	}
	return metrics.NewClassificationReport(y, pred)
}

// MeanSquared is the mean squared error of the estimator's output on X against y.
func (e *Estimator) MeanSquared(X, y mat.Matrix) (float64, error) {
	if err := e.state.RequireTrained(e.Name(), "MeanSquared"); err != nil {
		return 0, err
	}
	if _, err := validateTrainingData(e.Name()+".MeanSquared", X, y); err != nil {
		return 0, err
	}
	pred, err := e.PredictMany(X)
	if err != nil {
		return 0, err
	}
	return metrics.MSEMatrix(y, pred)
}

// SampleVector flattens a single sample given as a 1xF row or an Fx1 column.
func SampleVector(sample mat.Matrix) ([]float64, error) {
	r, c := sample.Dims()
	switch {
	case r == 0 || c == 0:
		return nil, errors.NewValidationError("sample", "empty sample", []int{r, c})
	case r > 1 && c > 1:
		return nil, errors.NewValidationError("sample", "ambiguous shape: more than one sample was provided", []int{r, c})
	case r == 1:
		return mat.Row(nil, 0, sample), nil
	default:
		return mat.Col(nil, 0, sample), nil
	}
}

// validateTrainingData checks that X and y describe the same samples and
// returns y as a flat slice.
func validateTrainingData(op string, X, y mat.Matrix) ([]float64, error) {
	r, c := X.Dims()
	yr, yc := y.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if yc != 1 {
		return nil, errors.NewValidationError("y", "labels must be a single column", []int{yr, yc})
	}
	if yr != r {
		return nil, errors.NewDimensionError(op, r, yr, 0)
	}
	return mat.Col(nil, 0, y), nil
}
