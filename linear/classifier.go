package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/basiskit/basiskit/activation"
	"github.com/basiskit/basiskit/core/model"
	"github.com/basiskit/basiskit/metrics"
	"github.com/basiskit/basiskit/optimize"
)

// LogRegClassifier is a binary logistic-regression classifier over a basis
// expansion. Predict and PredictMany return P(class=1).
type LogRegClassifier struct {
	*model.Estimator
}

type logRegVariant struct{}

func (logRegVariant) Name() string                  { return "LogRegClassifier" }
func (logRegVariant) Activation() activation.Func   { return activation.Sigmoid }
func (logRegVariant) Objective() optimize.Objective { return optimize.Logistic{} }

func (logRegVariant) GenerateInitialWeights(n int) []float64 {
	return make([]float64, n)
}

// NewLogRegClassifier creates an Untrained classifier. Labels passed to Train
// must be 0 or 1.
func NewLogRegClassifier(opts ...model.Option) *LogRegClassifier {
	return &LogRegClassifier{Estimator: model.NewEstimator(logRegVariant{}, opts...)}
}

// PredictClasses returns 1 where P(class=1) >= threshold and 0 elsewhere.
func (c *LogRegClassifier) PredictClasses(X mat.Matrix, threshold float64) (*mat.VecDense, error) {
	proba, err := c.PredictMany(X)
	if err != nil {
		return nil, err
	}
	data := proba.RawVector().Data
	for i, p := range data {
		if p >= threshold {
			data[i] = 1
		} else {
			data[i] = 0
		}
	}
	return proba, nil
}

// Evaluate returns the accuracy and the ROC AUC of the classifier on X and y.
func (c *LogRegClassifier) Evaluate(X, y mat.Matrix) (accuracy, auc float64, err error) {
	proba, err := c.PredictMany(X)
	if err != nil {
		return 0, 0, err
	}
	return metrics.QuickEvaluate(y, proba)
}
