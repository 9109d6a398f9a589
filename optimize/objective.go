// Package optimize fits weight vectors over a basis-expanded design matrix.
//
// Both objectives share the closed-form gradient
//
//	grad = Phi^T (link(Phi w) - y) / n
//
// which is the logistic-regression gradient when link is the sigmoid and
// the least-squares gradient when link is the identity.
package optimize

import (
	"github.com/basiskit/basiskit/activation"
	"github.com/basiskit/basiskit/pkg/errors"
)

// Objective is a loss paired with the link function whose gradient it matches.
type Objective interface {
	// Name identifies the objective in logs and persisted state.
	Name() string

	// Link maps a linear score to a prediction.
	Link() activation.Func

	// Loss is the per-sample loss of prediction p against label y.
	Loss(p, y float64) float64

	// ValidateLabels rejects labels the objective is not defined for.
	ValidateLabels(y []float64) error
}

// Logistic is the binary cross-entropy of sigmoid(Phi w) against labels in {0,1}.
type Logistic struct{}

func (Logistic) Name() string { return "logistic" }

func (Logistic) Link() activation.Func { return activation.Sigmoid }

func (Logistic) Loss(p, y float64) float64 {
	return -(y*errors.StabilizeLog(p) + (1-y)*errors.StabilizeLog(1-p))
}

func (Logistic) ValidateLabels(y []float64) error {
	for i, v := range y {
		if v != 0 && v != 1 {
			return errors.NewValidationError("y", "logistic labels must be 0 or 1", map[string]float64{"index": float64(i), "value": v})
		}
	}
	return nil
}

// LeastSquares is half the squared error of Phi w against continuous targets.
type LeastSquares struct{}

func (LeastSquares) Name() string { return "least_squares" }

func (LeastSquares) Link() activation.Func { return activation.Identity }

func (LeastSquares) Loss(p, y float64) float64 {
	d := p - y
	return 0.5 * d * d
}

func (LeastSquares) ValidateLabels([]float64) error { return nil }

// ObjectiveByName resolves a persisted objective name.
func ObjectiveByName(name string) (Objective, error) {
	switch name {
	case Logistic{}.Name():
		return Logistic{}, nil
	case LeastSquares{}.Name():
		return LeastSquares{}, nil
	default:
		return nil, errors.NewValidationError("objective", "unknown objective", name)
	}
}
