package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/basiskit/basiskit/pkg/errors"
)

// MeanSquared returns the mean of (a_i - b_i)^2.
func MeanSquared(a, b []float64) (float64, error) {
	if len(a) == 0 {
		return 0, errors.NewValueError("MeanSquared", "empty vector")
	}
	if len(b) != len(a) {
		return 0, errors.NewDimensionError("MeanSquared", len(a), len(b), 0)
	}
	d := floats.Distance(a, b, 2)
	return d * d / float64(len(a)), nil
}

// MSE is the mean squared error of yPred against yTrue.
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	a, b, err := vecPair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return MeanSquared(a, b)
}

// MSEMatrix is MSE over two single-column matrices.
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	a, b, err := columnPair("MSEMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return MeanSquared(a, b)
}

// RMSE is the square root of MSE.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE is the mean absolute error.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	a, b, err := vecPair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return floats.Distance(a, b, 1) / float64(len(a)), nil
}

// R2Score is the coefficient of determination 1 - RSS/TSS. It is undefined
// when yTrue has no variance.
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	a, b, err := vecPair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	mean := stat.Mean(a, nil)
	var tss, rss float64
	for i := range a {
		tss += (a[i] - mean) * (a[i] - mean)
		rss += (a[i] - b[i]) * (a[i] - b[i])
	}
	if tss == 0 {
		return math.NaN(), errors.NewUndefinedMetricError("R2Score", "yTrue has no variance")
	}
	return 1 - rss/tss, nil
}

// MAPE is the mean absolute percentage error over the samples with a
// non-zero true value.
func MAPE(yTrue, yPred *mat.VecDense) (float64, error) {
	a, b, err := vecPair("MAPE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	var sum float64
	valid := 0
	for i := range a {
		if a[i] != 0 {
			sum += math.Abs(a[i]-b[i]) / math.Abs(a[i])
			valid++
		}
	}
	if valid == 0 {
		return math.NaN(), errors.NewUndefinedMetricError("MAPE", "all yTrue values are zero")
	}
	return sum / float64(valid) * 100, nil
}

// ExplainedVarianceScore is 1 - Var(yTrue - yPred) / Var(yTrue).
func ExplainedVarianceScore(yTrue, yPred *mat.VecDense) (float64, error) {
	a, b, err := vecPair("ExplainedVarianceScore", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	diff := make([]float64, len(a))
	floats.SubTo(diff, a, b)

	_, varTrue := stat.PopMeanVariance(a, nil)
	if varTrue == 0 {
		return math.NaN(), errors.NewUndefinedMetricError("ExplainedVarianceScore", "yTrue has no variance")
	}
	_, varDiff := stat.PopMeanVariance(diff, nil)
	return 1 - varDiff/varTrue, nil
}

// vecData copies a vector into a contiguous slice.
func vecData(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}

func vecPair(op string, yTrue, yPred *mat.VecDense) ([]float64, []float64, error) {
	if yTrue == nil || yPred == nil {
		return nil, nil, errors.NewValueError(op, "nil vector")
	}
	if yTrue.Len() == 0 {
		return nil, nil, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != yTrue.Len() {
		return nil, nil, errors.NewDimensionError(op, yTrue.Len(), yPred.Len(), 0)
	}
	return vecData(yTrue), vecData(yPred), nil
}

// columnPair checks that a and b are non-empty single columns of equal length
// and returns them as slices.
func columnPair(op string, a, b mat.Matrix) ([]float64, []float64, error) {
	if a == nil || b == nil {
		return nil, nil, errors.NewValidationError("y", "nil matrix", op)
	}
	ra, ca := a.Dims()
	rb, cb := b.Dims()
	if ra == 0 || ca == 0 {
		return nil, nil, errors.NewValueError(op, "empty matrix")
	}
	if ca != 1 || cb != 1 {
		return nil, nil, errors.NewValidationError("y", "labels and predictions must be single columns", []int{ca, cb})
	}
	if ra != rb {
		return nil, nil, errors.NewDimensionError(op, ra, rb, 0)
	}
	return mat.Col(nil, 0, a), mat.Col(nil, 0, b), nil
}
