// Package linear provides the linear-in-parameters models: least-squares
// regression and the logistic classifier. Both start training from a zero
// weight vector.
package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/basiskit/basiskit/activation"
	"github.com/basiskit/basiskit/core/model"
	"github.com/basiskit/basiskit/metrics"
	"github.com/basiskit/basiskit/optimize"
	"github.com/basiskit/basiskit/pkg/errors"
)

// maxCondition is the largest condition number of Phi^T Phi accepted by TrainNormalEquation.
const maxCondition = 1e12

// Regression is least-squares regression over a basis expansion.
type Regression struct {
	*model.Estimator
}

type regressionVariant struct{}

func (regressionVariant) Name() string                  { return "Regression" }
func (regressionVariant) Activation() activation.Func   { return activation.Identity }
func (regressionVariant) Objective() optimize.Objective { return optimize.LeastSquares{} }

func (regressionVariant) GenerateInitialWeights(n int) []float64 {
	return make([]float64, n)
}

// NewRegression creates an Untrained regression model.
func NewRegression(opts ...model.Option) *Regression {
	return &Regression{Estimator: model.NewEstimator(regressionVariant{}, opts...)}
}

// TrainNormalEquation solves (Phi^T Phi) w = Phi^T y directly and uses the
// solution as the starting point of gradient descent, which then stops on the
// first iteration.
func (r *Regression) TrainNormalEquation(X, y mat.Matrix) error {
	rows, _ := X.Dims()
	yr, yc := y.Dims()
	if yr != rows {
		return errors.NewDimensionError("Regression.TrainNormalEquation", rows, yr, 0)
	}
	if yc != 1 {
		return errors.NewValidationError("y", "labels must be a single column", []int{yr, yc})
	}

	phi, err := r.Basis().Expand(X)
	if err != nil {
		return err
	}

	var phiTphi mat.Dense
	phiTphi.Mul(phi.T(), phi)
	var phiTy mat.VecDense
	phiTy.MulVec(phi.T(), mat.NewVecDense(yr, mat.Col(nil, 0, y)))

	var w mat.VecDense
	if err := w.SolveVec(&phiTphi, &phiTy); err != nil {
		// an ill-conditioned but solvable system is still a usable warm start
		var cond mat.Condition
		if errors.As(err, &cond) && float64(cond) < maxCondition {
			return r.TrainFrom(X, y, w.RawVector().Data)
		}
		return errors.NewModelError("Regression.TrainNormalEquation", "singular matrix", errors.ErrSingularMatrix)
	}
	return r.TrainFrom(X, y, w.RawVector().Data)
}

// Score returns the coefficient of determination R^2 of the model on X and y.
func (r *Regression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := r.PredictMany(X)
	if err != nil {
		return 0, err
	}
	yr, yc := y.Dims()
	if yc != 1 {
		return 0, errors.NewValidationError("y", "labels must be a single column", []int{yr, yc})
	}
	return metrics.R2Score(mat.NewVecDense(yr, mat.Col(nil, 0, y)), pred)
}
