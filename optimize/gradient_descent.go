package optimize

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/basiskit/basiskit/core/parallel"
	"github.com/basiskit/basiskit/pkg/errors"
	"github.com/basiskit/basiskit/pkg/log"
)

// Defaults used when a Config field is left at zero.
const (
	DefaultLearningRate = 0.001
	DefaultMaxIter      = 1000
	DefaultTol          = 1e-6
)

// Config controls a gradient descent run.
type Config struct {
	// LearningRate is the fixed step size. Must be positive.
	LearningRate float64
	// MaxIter caps the number of gradient evaluations.
	MaxIter int
	// Tol stops the run once the infinity norm of the gradient falls below it.
	Tol float64
	// LossTol stops the run once the loss changes by less than it between
	// iterations. Zero disables the check.
	LossTol float64
}

// DefaultConfig returns the configuration used by models that were not given one.
func DefaultConfig() Config {
	return Config{
		LearningRate: DefaultLearningRate,
		MaxIter:      DefaultMaxIter,
		Tol:          DefaultTol,
	}
}

func (c Config) withDefaults() Config {
	if c.MaxIter == 0 {
		c.MaxIter = DefaultMaxIter
	}
	if c.Tol == 0 {
		c.Tol = DefaultTol
	}
	return c
}

func (c Config) validate() error {
	if !(c.LearningRate > 0) || math.IsInf(c.LearningRate, 0) {
		return errors.NewValidationError("learning_rate", "must be a positive finite number", c.LearningRate)
	}
	if c.MaxIter < 1 {
		return errors.NewValidationError("max_iter", "must be at least 1", c.MaxIter)
	}
	if c.Tol < 0 || c.LossTol < 0 {
		return errors.NewValidationError("tol", "tolerances must be non-negative", []float64{c.Tol, c.LossTol})
	}
	return nil
}

// Result is the outcome of a gradient descent run.
type Result struct {
	// Weights is the lowest-loss weight vector seen during the run.
	Weights []float64
	// Loss is the mean loss of Weights.
	Loss float64
	// Iterations is the number of gradient evaluations performed.
	Iterations int
	// Converged is false when the run stopped at MaxIter.
	Converged bool
	// GradNorm is the infinity norm of the last evaluated gradient.
	GradNorm float64
}

// GradientDescent minimises the mean objective loss of link(phi*w) against y,
// starting from w0. phi is a design matrix as produced by basis.Set.Expand.
// Neither phi, y nor w0 is modified.
//
// Hitting MaxIter is not an error: the best weights found are returned with
// Converged=false and a ConvergenceWarning is emitted through errors.Warn.
//
// A NaN or Inf loss or gradient stops the run with a NumericalInstabilityError.
// If at least one iteration was scored, the Result holding the lowest-loss
// weights seen before the divergence is returned alongside the error.
func GradientDescent(obj Objective, phi mat.Matrix, y, w0 []float64, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	n, p := phi.Dims()
	if n == 0 {
		return nil, errors.NewModelError("optimize.GradientDescent", "empty data", errors.ErrEmptyData)
	}
	if len(y) != n {
		return nil, errors.NewDimensionError("optimize.GradientDescent", n, len(y), 0)
	}
	if len(w0) != p {
		return nil, errors.NewDimensionError("optimize.GradientDescent", p, len(w0), 1)
	}
	if err := obj.ValidateLabels(y); err != nil {
		return nil, err
	}

	logger := log.GetLoggerWithName("optimize").With(
		"objective", obj.Name(),
		log.SamplesKey, n,
		log.WeightsKey, p,
		log.LearningRateKey, cfg.LearningRate,
	)
	start := time.Now()

	e := &evaluator{obj: obj, phi: mat.DenseCopyOf(phi), y: y, n: n, p: p}

	w := make([]float64, p)
	copy(w, w0)

	res := &Result{Weights: make([]float64, p), Loss: math.Inf(1)}
	prevLoss := math.Inf(1)

	for iter := 0; iter < cfg.MaxIter; iter++ {
		loss, grad := e.lossAndGradient(w)
		err := errors.CheckScalar("optimize.loss", loss, iter)
		if err == nil {
			err = errors.CheckNumericalStability("optimize.gradient", grad, iter)
		}
		if err != nil {
			logger.Warn("gradient descent diverged", log.IterationKey, iter, log.LossKey, res.Loss)
			if res.Iterations == 0 {
				return nil, err
			}
			return res, err
		}

		res.Iterations = iter + 1
		res.GradNorm = floats.Norm(grad, math.Inf(1))
		if loss < res.Loss {
			res.Loss = loss
			copy(res.Weights, w)
		}

		if res.GradNorm < cfg.Tol || (cfg.LossTol > 0 && math.Abs(prevLoss-loss) < cfg.LossTol) {
			res.Converged = true
			break
		}
		prevLoss = loss

		floats.AddScaled(w, -cfg.LearningRate, grad)
	}

	if !res.Converged {
		// the final step was never scored
		if loss, _ := e.lossAndGradient(w); loss < res.Loss && !math.IsNaN(loss) {
			res.Loss = loss
			copy(res.Weights, w)
		}
		errors.Warn(errors.NewConvergenceWarning("GradientDescent", res.Iterations,
			"returning the lowest-loss weights found; consider increasing max_iter or the learning rate"))
	}

	logger.Debug("gradient descent finished",
		log.IterationKey, res.Iterations,
		log.LossKey, res.Loss,
		log.GradNormKey, res.GradNorm,
		log.ConvergedKey, res.Converged,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return res, nil
}

type evaluator struct {
	obj  Objective
	phi  *mat.Dense
	y    []float64
	n, p int
}

type partial struct {
	loss float64
	grad []float64
}

// lossAndGradient returns the mean loss and its gradient at w in one pass over the samples.
func (e *evaluator) lossAndGradient(w []float64) (float64, []float64) {
	link := e.obj.Link()
	sum := parallel.Reduce(e.n, parallel.DefaultThreshold, partial{},
		func(start, end int) partial {
			part := partial{grad: make([]float64, e.p)}
			for i := start; i < end; i++ {
				row := e.phi.RawRowView(i)
				pred := link.Apply(floats.Dot(row, w))
				part.loss += e.obj.Loss(pred, e.y[i])
				floats.AddScaled(part.grad, pred-e.y[i], row)
			}
			return part
		},
		func(acc, part partial) partial {
			if acc.grad == nil {
				return part
			}
			acc.loss += part.loss
			floats.Add(acc.grad, part.grad)
			return acc
		},
	)

	inv := 1 / float64(e.n)
	floats.Scale(inv, sum.grad)
	return sum.loss * inv, sum.grad
}
