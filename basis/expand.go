package basis

import (
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/basiskit/basiskit/core/parallel"
	"github.com/basiskit/basiskit/pkg/errors"
)

// Expand returns the design matrix of X: one row per sample, WeightCount
// columns. Training and prediction both go through this function so the two
// paths see identical features.
func (s Set) Expand(X mat.Matrix) (*mat.Dense, error) {
	if s.Len() == 0 {
		return nil, errors.NewValidationError("basis", "empty basis set", 0)
	}
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError("basis.Expand", "empty data", errors.ErrEmptyData)
	}

	phi := mat.NewDense(r, s.WeightCount(c), nil)

	var (
		once     sync.Once
		panicErr error
	)
	parallel.ParallelizeWithThreshold(r, parallel.DefaultThreshold, func(start, end int) {
		defer func() {
			if p := recover(); p != nil {
				once.Do(func() { panicErr = errors.NewPanicError("basis.Expand", p) })
			}
		}()
		row := make([]float64, c)
		for i := start; i < end; i++ {
			mat.Row(row, i, X)
			s.ExpandRow(row, phi.RawRowView(i))
		}
	})
	if panicErr != nil {
		return nil, panicErr
	}
	return phi, nil
}

// Evaluate computes y = Expand(X) * w, the linear combination of basis
// features weighted by w.
func (s Set) Evaluate(X mat.Matrix, w mat.Vector) (*mat.VecDense, error) {
	_, c := X.Dims()
	if want := s.WeightCount(c); w.Len() != want {
		return nil, errors.NewDimensionError("basis.Evaluate", want, w.Len(), 1)
	}
	phi, err := s.Expand(X)
	if err != nil {
		return nil, err
	}
	r, _ := phi.Dims()
	y := mat.NewVecDense(r, nil)
	y.MulVec(phi, w)
	return y, nil
}
