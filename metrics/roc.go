package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/basiskit/basiskit/core/parallel"
	"github.com/basiskit/basiskit/pkg/errors"
)

// ThresholdCount is the number of decision thresholds swept by ROCCurve:
// 0, 0.01, ..., 1.
const ThresholdCount = 101

// thresholds is built once and only handed out as copies. Each point is
// exactly k/100 so a probability equal to a grid value counts as positive.
var thresholds = func() []float64 {
	t := make([]float64, ThresholdCount)
	for k := range t {
		t[k] = float64(k) / float64(ThresholdCount-1)
	}
	return t
}()

// Thresholds returns a copy of the decision threshold grid in ascending order.
func Thresholds() []float64 {
	return append([]float64(nil), thresholds...)
}

// ROCPoint is the classifier's operating point at one threshold.
type ROCPoint struct {
	Threshold float64
	FPR       float64
	TPR       float64
}

// ROC is a receiver operating characteristic curve, one point per threshold
// in ascending threshold order. FPR and TPR are therefore non-increasing
// along Points.
type ROC struct {
	Points    []ROCPoint
	Positives int
	Negatives int
}

// ROCCurve sweeps the threshold grid over proba. At threshold t a sample is
// predicted positive iff proba >= t. yTrue must hold exact 0/1 labels and
// proba values in [0,1]; both must be single columns of equal length.
//
// A curve needs at least one sample of each class. Otherwise the rates are
// undefined and an UndefinedMetricError is returned.
func ROCCurve(yTrue, proba mat.Matrix) (*ROC, error) {
	labels, scores, err := columnPair("ROCCurve", yTrue, proba)
	if err != nil {
		return nil, err
	}

	positives := 0
	for i, y := range labels {
		switch y {
		case 1:
			positives++
		case 0:
		default:
			return nil, errors.NewValidationError("yTrue", "ROC labels must be 0 or 1", labels[i])
		}
		if p := scores[i]; p < 0 || p > 1 || math.IsNaN(p) {
			return nil, errors.NewValidationError("proba", "probabilities must lie in [0, 1]", p)
		}
	}
	negatives := len(labels) - positives
	if positives == 0 {
		return nil, errors.NewUndefinedMetricError("ROC curve", "no positive samples, the true positive rate is undefined")
	}
	if negatives == 0 {
		return nil, errors.NewUndefinedMetricError("ROC curve", "no negative samples, the false positive rate is undefined")
	}

	roc := &ROC{
		Points:    make([]ROCPoint, len(thresholds)),
		Positives: positives,
		Negatives: negatives,
	}
	sweep := func(start, end int) {
		for k := start; k < end; k++ {
			t := thresholds[k]
			var tp, fp int
			for i, p := range scores {
				if p >= t {
					if labels[i] == 1 {
						tp++
					} else {
						fp++
					}
				}
			}
			roc.Points[k] = ROCPoint{
				Threshold: t,
				FPR:       float64(fp) / float64(negatives),
				TPR:       float64(tp) / float64(positives),
			}
		}
	}
	// each threshold costs a full pass over the samples
	if len(scores) < parallel.DefaultThreshold {
		sweep(0, len(thresholds))
	} else {
		parallel.Parallelize(len(thresholds), sweep)
	}
	return roc, nil
}

// FPR returns the false positive rates in threshold order.
func (r *ROC) FPR() []float64 {
	out := make([]float64, len(r.Points))
	for i, p := range r.Points {
		out[i] = p.FPR
	}
	return out
}

// TPR returns the true positive rates in threshold order.
func (r *ROC) TPR() []float64 {
	out := make([]float64, len(r.Points))
	for i, p := range r.Points {
		out[i] = p.TPR
	}
	return out
}

// AUC integrates the curve with the trapezoidal rule, walking from the
// highest threshold to the lowest so that every FPR step is non-negative.
func (r *ROC) AUC() float64 {
	var area float64
	for i := len(r.Points) - 1; i > 0; i-- {
		hi, lo := r.Points[i], r.Points[i-1]
		area += (lo.FPR - hi.FPR) * (lo.TPR + hi.TPR) / 2
	}
	return area
}

// AUCScore is ROCCurve followed by AUC. It is NaN with an error when the
// curve is undefined.
func AUCScore(yTrue, proba mat.Matrix) (float64, error) {
	roc, err := ROCCurve(yTrue, proba)
	if err != nil {
		if errors.IsNumeric(err) {
			return math.NaN(), err
		}
		return 0, err
	}
	return roc.AUC(), nil
}

// QuickEvaluate returns the accuracy of the rounded probabilities and the ROC
// AUC in one call.
func QuickEvaluate(yTrue, proba mat.Matrix) (accuracy, auc float64, err error) {
	accuracy, err = AccuracyScore(yTrue, proba)
	if err != nil {
		return 0, 0, err
	}
	auc, err = AUCScore(yTrue, proba)
	if err != nil {
		return accuracy, auc, err
	}
	return accuracy, auc, nil
}
