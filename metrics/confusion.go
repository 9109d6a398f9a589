// Package metrics evaluates model output: regression errors, confusion
// matrices, binary classification scores, ROC curves and AUC.
//
// Ratios with a zero denominator are undefined. They are returned as NaN
// together with an *errors.UndefinedMetricError, never coerced to zero.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/basiskit/basiskit/pkg/errors"
)

// ConfusionMatrix counts (actual, predicted) class pairs. Both inputs must be
// single columns of equal length; their values are rounded to the nearest
// integer class. The matrix is NxN where N is the number of distinct classes
// in exact, and class ids must be contiguous integers starting at 0.
func ConfusionMatrix(exact, approx mat.Matrix) (*mat.Dense, error) {
	a, b, err := columnPair("ConfusionMatrix", exact, approx)
	if err != nil {
		return nil, err
	}
	roundInPlace(a)
	roundInPlace(b)
	return confusion(a, b, distinct(a))
}

// BinaryConfusionMatrix is ConfusionMatrix fixed at 2x2 for classes {0,1},
// so it is well formed even when only one class occurs in exact.
func BinaryConfusionMatrix(exact, approx mat.Matrix) (*mat.Dense, error) {
	a, b, err := columnPair("BinaryConfusionMatrix", exact, approx)
	if err != nil {
		return nil, err
	}
	roundInPlace(a)
	roundInPlace(b)
	return confusion(a, b, 2)
}

func confusion(exact, approx []float64, n int) (*mat.Dense, error) {
	cm := mat.NewDense(n, n, nil)
	for i := range exact {
		actual, predicted := int(exact[i]), int(approx[i])
		if actual < 0 || actual >= n {
			return nil, errors.NewValidationError("exact", "class id outside the contiguous range [0, N)", exact[i])
		}
		if predicted < 0 || predicted >= n {
			return nil, errors.NewValidationError("approx", "class id outside the contiguous range [0, N)", approx[i])
		}
		cm.Set(actual, predicted, cm.At(actual, predicted)+1)
	}
	return cm, nil
}

func roundInPlace(x []float64) {
	for i, v := range x {
		x[i] = math.Round(v)
	}
}

func distinct(x []float64) int {
	seen := make(map[float64]struct{}, 2)
	for _, v := range x {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// Accuracy is trace(cm) / sum(cm).
func Accuracy(cm mat.Matrix) (float64, error) {
	r, c := cm.Dims()
	if r != c || r == 0 {
		return 0, errors.NewValidationError("confusion_matrix", "must be square and non-empty", []int{r, c})
	}
	total := mat.Sum(cm)
	if total == 0 {
		return math.NaN(), errors.NewUndefinedMetricError("accuracy", "the confusion matrix is empty")
	}
	return mat.Trace(cm) / total, nil
}

// Precision is TP / (TP + FP) on a 2x2 matrix with class 1 as positive.
func Precision(cm mat.Matrix) (float64, error) {
	if err := checkBinary(cm); err != nil {
		return 0, err
	}
	tp, fp := cm.At(1, 1), cm.At(0, 1)
	if tp+fp == 0 {
		return math.NaN(), errors.NewUndefinedMetricError("precision", "no positive predictions")
	}
	return tp / (tp + fp), nil
}

// Recall is TP / (TP + FN) on a 2x2 matrix with class 1 as positive.
func Recall(cm mat.Matrix) (float64, error) {
	if err := checkBinary(cm); err != nil {
		return 0, err
	}
	tp, fn := cm.At(1, 1), cm.At(1, 0)
	if tp+fn == 0 {
		return math.NaN(), errors.NewUndefinedMetricError("recall", "no positive samples")
	}
	return tp / (tp + fn), nil
}

// F1 is the harmonic mean of Precision and Recall.
func F1(cm mat.Matrix) (float64, error) {
	p, err := Precision(cm)
	if err != nil {
		return p, err
	}
	r, err := Recall(cm)
	if err != nil {
		return r, err
	}
	if p+r == 0 {
		return math.NaN(), errors.NewUndefinedMetricError("f1", "precision and recall are both zero")
	}
	return 2 * p * r / (p + r), nil
}

// AccuracyScore is the fraction of rounded predictions equal to the rounded labels.
func AccuracyScore(yTrue, yPred mat.Matrix) (float64, error) {
	a, b, err := columnPair("AccuracyScore", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i := range a {
		if math.Round(a[i]) == math.Round(b[i]) {
			correct++
		}
	}
	return float64(correct) / float64(len(a)), nil
}

func checkBinary(cm mat.Matrix) error {
	if r, c := cm.Dims(); r != 2 || c != 2 {
		return errors.NewValidationError("confusion_matrix", "binary metrics need a 2x2 matrix", []int{r, c})
	}
	return nil
}
