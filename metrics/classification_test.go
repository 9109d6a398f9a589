package metrics

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/basiskit/basiskit/pkg/errors"
)

func col(v ...float64) *mat.Dense {
	return mat.NewDense(len(v), 1, v)
}

func captureWarnings(t *testing.T) *[]error {
	t.Helper()
	var got []error
	errors.SetWarningHandler(func(w error) { got = append(got, w) })
	t.Cleanup(func() { errors.SetWarningHandler(func(error) {}) })
	return &got
}

func TestConfusionMatrix(t *testing.T) {
	cm, err := ConfusionMatrix(col(0, 0, 1, 1), col(0, 1, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 0, 2}, cm.RawMatrix().Data)

	acc, err := Accuracy(cm)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, acc, 1e-12)

	p, err := Precision(cm)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, p, 1e-12)

	r, err := Recall(cm)
	require.NoError(t, err)
	assert.Equal(t, 1.0, r)

	f1, err := F1(cm)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, f1, 1e-12)
}

func TestConfusionMatrixRoundsPredictions(t *testing.T) {
	cm, err := ConfusionMatrix(col(0, 0, 1, 1), col(0.2, 0.6, 0.7, 0.9))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 0, 2}, cm.RawMatrix().Data)

	score, err := AccuracyScore(col(0, 0, 1, 1), col(0.2, 0.6, 0.7, 0.9))
	require.NoError(t, err)
	assert.InDelta(t, 0.75, score, 1e-12)
}

func TestConfusionMatrixMulticlass(t *testing.T) {
	cm, err := ConfusionMatrix(col(0, 1, 2, 2), col(0, 2, 2, 1))
	require.NoError(t, err)
	r, c := cm.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 4.0, mat.Sum(cm))

	acc, err := Accuracy(cm)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, acc, 1e-12)

	_, err = Precision(cm)
	assert.True(t, errors.IsValidation(err))
}

func TestConfusionMatrixValidation(t *testing.T) {
	tests := []struct {
		name  string
		exact mat.Matrix
		pred  mat.Matrix
	}{
		{"nil input", nil, col(1)},
		{"length mismatch", col(0, 1), col(0)},
		{"two columns", mat.NewDense(2, 2, nil), col(0, 1)},
		{"class outside range", col(0, 1), col(0, 3)},
		{"non-contiguous classes", col(0, 2), col(0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ConfusionMatrix(tt.exact, tt.pred)
			require.Error(t, err)
		})
	}
}

func TestUndefinedRatios(t *testing.T) {
	cm := mat.NewDense(2, 2, []float64{3, 0, 0, 0})

	p, err := Precision(cm)
	assert.True(t, math.IsNaN(p))
	assert.True(t, errors.IsNumeric(err))

	r, err := Recall(cm)
	assert.True(t, math.IsNaN(r))
	assert.True(t, errors.IsNumeric(err))

	f1, err := F1(cm)
	assert.True(t, math.IsNaN(f1))
	assert.True(t, errors.IsNumeric(err))

	acc, err := Accuracy(mat.NewDense(2, 2, nil))
	assert.True(t, math.IsNaN(acc))
	assert.True(t, errors.IsNumeric(err))
}

func TestAUCScore(t *testing.T) {
	tests := []struct {
		name      string
		yTrue     mat.Matrix
		yPred     mat.Matrix
		want      float64
		wantErr   bool
		undefined bool
	}{
		{
			name:  "perfect classifier",
			yTrue: col(0, 0, 0, 1, 1, 1),
			yPred: col(0.1, 0.2, 0.3, 0.7, 0.8, 0.9),
			want:  1.0,
		},
		{
			name:  "worst classifier",
			yTrue: col(0, 0, 0, 1, 1, 1),
			yPred: col(0.9, 0.8, 0.7, 0.3, 0.2, 0.1),
			want:  0.0,
		},
		{
			name:  "constant classifier",
			yTrue: col(0, 1, 0, 1),
			yPred: col(0.5, 0.5, 0.5, 0.5),
			want:  0.5,
		},
		{
			name:  "typical case",
			yTrue: col(0, 0, 1, 1),
			yPred: col(0.1, 0.4, 0.35, 0.8),
			want:  0.75,
		},
		{
			name:      "all positive labels",
			yTrue:     col(1, 1, 1, 1),
			yPred:     col(0.1, 0.4, 0.35, 0.8),
			wantErr:   true,
			undefined: true,
		},
		{
			name:      "all negative labels",
			yTrue:     col(0, 0, 0, 0),
			yPred:     col(0.1, 0.4, 0.35, 0.8),
			wantErr:   true,
			undefined: true,
		},
		{
			name:    "non-binary labels",
			yTrue:   col(0, 0.5, 1),
			yPred:   col(0.1, 0.5, 0.9),
			wantErr: true,
		},
		{
			name:    "probability above one",
			yTrue:   col(0, 1),
			yPred:   col(0.1, 1.5),
			wantErr: true,
		},
		{
			name:    "dimension mismatch",
			yTrue:   col(0, 1),
			yPred:   col(0.5),
			wantErr: true,
		},
		{
			name:    "empty input",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AUCScore(tt.yTrue, tt.yPred)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.InDelta(t, tt.want, got, 1e-9)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.undefined, errors.IsNumeric(err))
			if tt.undefined {
				assert.True(t, math.IsNaN(got))
			}
		})
	}
}

func TestROCCurveEndpoints(t *testing.T) {
	roc, err := ROCCurve(col(0, 0, 1, 1), col(0.1, 0.4, 0.35, 0.8))
	require.NoError(t, err)
	require.Len(t, roc.Points, ThresholdCount)
	assert.Equal(t, 2, roc.Positives)
	assert.Equal(t, 2, roc.Negatives)

	first, last := roc.Points[0], roc.Points[ThresholdCount-1]
	assert.Equal(t, 0.0, first.Threshold)
	assert.Equal(t, ROCPoint{Threshold: 0, FPR: 1, TPR: 1}, first)
	assert.Equal(t, 1.0, last.Threshold)
	assert.Equal(t, 0.0, last.FPR)
	assert.Equal(t, 0.0, last.TPR)

	fpr, tpr := roc.FPR(), roc.TPR()
	for i := 1; i < len(fpr); i++ {
		assert.LessOrEqual(t, fpr[i], fpr[i-1])
		assert.LessOrEqual(t, tpr[i], tpr[i-1])
	}
}

func TestROCCurveParallelMatchesSequential(t *testing.T) {
	n := 3000
	labels := make([]float64, n)
	scores := make([]float64, n)
	for i := range labels {
		labels[i] = float64(i % 2)
		scores[i] = math.Mod(float64(i)*0.37+labels[i]*0.3, 1)
	}

	big, err := ROCCurve(col(labels...), col(scores...))
	require.NoError(t, err)

	// the first sample subset is below the parallel cutoff
	small, err := ROCCurve(col(labels[:2]...), col(scores[:2]...))
	require.NoError(t, err)
	assert.Len(t, small.Points, ThresholdCount)

	for k, p := range big.Points {
		var tp, fp int
		for i, s := range scores {
			if s >= p.Threshold {
				if labels[i] == 1 {
					tp++
				} else {
					fp++
				}
			}
		}
		assert.Equal(t, float64(tp)/float64(n/2), p.TPR, "threshold %d", k)
		assert.Equal(t, float64(fp)/float64(n/2), p.FPR, "threshold %d", k)
	}
}

func TestThresholdsAreCopied(t *testing.T) {
	th := Thresholds()
	require.Len(t, th, ThresholdCount)
	assert.InDelta(t, 0.5, th[50], 1e-12)
	th[0] = 42
	assert.Equal(t, 0.0, Thresholds()[0])
}

func TestROCCurveGridValuesArePositive(t *testing.T) {
	for k, th := range Thresholds() {
		require.Equal(t, float64(k)/100, th, "threshold %d", k)
	}

	// a score sitting exactly on a grid value is positive at that threshold
	for _, k := range []int{7, 29, 35, 57, 58} {
		p := float64(k) / 100
		roc, err := ROCCurve(col(0, 1), col(0, p))
		require.NoError(t, err)
		assert.Equal(t, 1.0, roc.Points[k].TPR, "threshold %d", k)
		assert.Equal(t, 0.0, roc.Points[k+1].TPR, "threshold %d", k+1)
	}
}

func TestQuickEvaluate(t *testing.T) {
	acc, auc, err := QuickEvaluate(col(0, 0, 1, 1), col(0.2, 0.6, 0.7, 0.9))
	require.NoError(t, err)
	assert.InDelta(t, 0.75, acc, 1e-12)
	assert.InDelta(t, 1.0, auc, 1e-12)
}

func TestClassificationReport(t *testing.T) {
	captureWarnings(t)

	report, err := NewClassificationReport(col(0, 0, 1, 1), col(0.2, 0.6, 0.7, 0.9))
	require.NoError(t, err)

	assert.Equal(t, 4, report.Total)
	assert.InDelta(t, 0.75, report.Accuracy, 1e-12)
	assert.InDelta(t, 2.0/3.0, report.Precision, 1e-12)
	assert.Equal(t, 1.0, report.Recall)
	assert.InDelta(t, 0.8, report.F1, 1e-12)

	require.Len(t, report.Classes, 2)
	assert.Equal(t, ClassMetrics{Precision: 1, Recall: 0.5, F1: 2.0 / 3.0, Support: 2}, report.Classes[0])
	assert.InDelta(t, 2.0/3.0, report.Classes[1].Precision, 1e-12)
	assert.Equal(t, 1.0, report.Classes[1].Recall)
	assert.Equal(t, 2, report.Classes[1].Support)

	assert.InDelta(t, 5.0/6.0, report.MacroAvg.Precision, 1e-12)
	assert.InDelta(t, 0.75, report.MacroAvg.Recall, 1e-12)
	assert.InDelta(t, report.MacroAvg.F1, report.WeightedAvg.F1, 1e-12)
	assert.Equal(t, 4, report.WeightedAvg.Support)

	require.NotNil(t, report.ROC)
	assert.InDelta(t, 1.0, report.AUC, 1e-12)

	var buf bytes.Buffer
	require.NoError(t, report.Print(&buf))
	out := buf.String()
	for _, want := range []string{"Classification Report", "Accuracy: 0.7500", "Precision: 0.6667", "AUC: 1.0000", "weighted avg", "macro avg"} {
		assert.Contains(t, out, want)
	}
}

func TestClassificationReportWeightedAverage(t *testing.T) {
	captureWarnings(t)

	report, err := NewClassificationReport(col(0, 0, 0, 1), col(0, 0, 1, 1))
	require.NoError(t, err)

	// class 0: p=1 r=2/3 support 3, class 1: p=1/2 r=1 support 1
	assert.InDelta(t, 0.75, report.MacroAvg.Precision, 1e-12)
	assert.InDelta(t, (3*1.0+1*0.5)/4, report.WeightedAvg.Precision, 1e-12)
	assert.InDelta(t, (3*(2.0/3.0)+1*1.0)/4, report.WeightedAvg.Recall, 1e-12)
}

func TestClassificationReportUndefinedCells(t *testing.T) {
	warnings := captureWarnings(t)

	report, err := NewClassificationReport(col(0, 0, 0), col(0, 0, 0))
	require.NoError(t, err)

	assert.Equal(t, 1.0, report.Accuracy)
	assert.True(t, math.IsNaN(report.Precision))
	assert.True(t, math.IsNaN(report.Recall))
	assert.True(t, math.IsNaN(report.Classes[1].Precision))
	assert.True(t, math.IsNaN(report.Classes[1].Recall))
	assert.Equal(t, 1.0, report.MacroAvg.Precision)
	assert.Nil(t, report.ROC)
	assert.True(t, math.IsNaN(report.AUC))
	assert.NotEmpty(t, *warnings)

	var buf bytes.Buffer
	require.NoError(t, report.Print(&buf))
	assert.Contains(t, buf.String(), "undefined")
	assert.NotContains(t, buf.String(), "AUC")
}

func TestClassificationReportRejectsInvalidInput(t *testing.T) {
	_, err := NewClassificationReport(col(0, 2), col(0, 1))
	assert.True(t, errors.IsValidation(err))

	_, err = NewClassificationReport(col(0, 1), col(0))
	assert.True(t, errors.IsValidation(err))
}

func BenchmarkROCCurve(b *testing.B) {
	n := 5000
	yTrue := make([]float64, n)
	yPred := make([]float64, n)
	for i := 0; i < n; i++ {
		if i >= n/2 {
			yTrue[i] = 1
		}
		yPred[i] = float64(i) / float64(n)
	}
	yTrueM, yPredM := col(yTrue...), col(yPred...)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ROCCurve(yTrueM, yPredM)
	}
}
