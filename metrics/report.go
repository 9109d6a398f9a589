package metrics

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/mat"

	"github.com/basiskit/basiskit/pkg/errors"
	"github.com/basiskit/basiskit/stats"
)

// ClassMetrics holds the scores of one class, or an average over classes.
type ClassMetrics struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// ClassificationReport summarises a binary classifier's predictions.
//
// Cells with a zero denominator are NaN and are announced with an
// UndefinedMetricWarning. Averages are taken over the defined cells only.
type ClassificationReport struct {
	// Confusion is the 2x2 matrix indexed by (actual, predicted).
	Confusion *mat.Dense

	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64

	// Classes holds the per-class scores, indexed by class id.
	Classes []ClassMetrics
	// MacroAvg is the unweighted mean over classes.
	MacroAvg ClassMetrics
	// WeightedAvg is the mean over classes weighted by support.
	WeightedAvg ClassMetrics
	// Total is the number of samples.
	Total int

	// ROC is nil unless every prediction lies in [0,1] and both classes occur.
	ROC *ROC
	// AUC is NaN when ROC is nil.
	AUC float64
}

// NewClassificationReport evaluates yPred against the 0/1 labels in yTrue.
// Predictions are rounded to the nearest class for the confusion matrix;
// when they are probabilities the ROC curve and AUC are included as well.
func NewClassificationReport(yTrue, yPred mat.Matrix) (*ClassificationReport, error) {
	cm, err := BinaryConfusionMatrix(yTrue, yPred)
	if err != nil {
		return nil, err
	}

	r := &ClassificationReport{
		Confusion: cm,
		Total:     int(mat.Sum(cm)),
		AUC:       math.NaN(),
	}
	r.Accuracy, _ = Accuracy(cm)
	r.Precision, _ = Precision(cm)
	r.Recall, _ = Recall(cm)
	r.F1, _ = F1(cm)

	n, _ := cm.Dims()
	r.Classes = make([]ClassMetrics, n)
	for k := 0; k < n; k++ {
		r.Classes[k] = classMetrics(cm, k)
	}
	r.MacroAvg, r.WeightedAvg = averages(r.Classes)

	if probabilities(yPred) {
		roc, err := ROCCurve(yTrue, yPred)
		switch {
		case err == nil:
			r.ROC = roc
			r.AUC = roc.AUC()
		case errors.IsNumeric(err):
			errors.Warn(errors.NewUndefinedMetricWarning("AUC", err.Error(), math.NaN()))
		default:
			return nil, err
		}
	}
	return r, nil
}

func classMetrics(cm *mat.Dense, k int) ClassMetrics {
	diag := cm.At(k, k)
	colSum := mat.Sum(cm.ColView(k))
	rowSum := mat.Sum(cm.RowView(k))

	m := ClassMetrics{Precision: math.NaN(), Recall: math.NaN(), F1: math.NaN(), Support: int(rowSum)}
	if colSum > 0 {
		m.Precision = diag / colSum
	} else {
		errors.Warn(errors.NewUndefinedMetricWarning("precision",
			fmt.Sprintf("no predicted samples in class %d", k), math.NaN()))
	}
	if rowSum > 0 {
		m.Recall = diag / rowSum
	} else {
		errors.Warn(errors.NewUndefinedMetricWarning("recall",
			fmt.Sprintf("no true samples in class %d", k), math.NaN()))
	}
	if s := m.Precision + m.Recall; s > 0 {
		m.F1 = 2 * m.Precision * m.Recall / s
	}
	return m
}

func averages(classes []ClassMetrics) (macro, weighted ClassMetrics) {
	support := make([]float64, len(classes))
	total := 0
	for i, c := range classes {
		support[i] = float64(c.Support)
		total += c.Support
	}
	pick := func(f func(ClassMetrics) float64) (float64, float64) {
		var vals, weights []float64
		for i, c := range classes {
			if v := f(c); !math.IsNaN(v) {
				vals = append(vals, v)
				weights = append(weights, support[i])
			}
		}
		w, err := stats.WeightedMean(vals, weights)
		if err != nil {
			w = math.NaN()
		}
		return stats.Mean(vals), w
	}
	macro.Precision, weighted.Precision = pick(func(c ClassMetrics) float64 { return c.Precision })
	macro.Recall, weighted.Recall = pick(func(c ClassMetrics) float64 { return c.Recall })
	macro.F1, weighted.F1 = pick(func(c ClassMetrics) float64 { return c.F1 })
	macro.Support, weighted.Support = total, total
	return macro, weighted
}

func probabilities(m mat.Matrix) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); !(v >= 0 && v <= 1) {
				return false
			}
		}
	}
	return true
}

// Print writes the report as text tables: the confusion matrix, the summary
// scores, then per-class and averaged precision, recall, F1 and support.
func (r *ClassificationReport) Print(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Classification Report"); err != nil {
		return err
	}

	n, _ := r.Confusion.Dims()
	grid := tablewriter.NewWriter(w)
	header := []string{""}
	for k := 0; k < n; k++ {
		header = append(header, "predicted "+strconv.Itoa(k))
	}
	grid.Header(header)
	for k := 0; k < n; k++ {
		row := []string{"actual " + strconv.Itoa(k)}
		for j := 0; j < n; j++ {
			row = append(row, strconv.Itoa(int(r.Confusion.At(k, j))))
		}
		if err := grid.Append(row); err != nil {
			return err
		}
	}
	if err := grid.Render(); err != nil {
		return err
	}

	summary := fmt.Sprintf("Accuracy: %s\nPrecision: %s\nRecall: %s\n",
		format(r.Accuracy, 4), format(r.Precision, 4), format(r.Recall, 4))
	if r.ROC != nil {
		summary += fmt.Sprintf("AUC: %s\n", format(r.AUC, 4))
	}
	if _, err := fmt.Fprint(w, summary); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"", "precision", "recall", "f1-score", "support"})
	for k, c := range r.Classes {
		if err := table.Append(classRow(strconv.Itoa(k), c)); err != nil {
			return err
		}
	}
	rows := [][]string{
		{"accuracy", "", "", format(r.Accuracy, 2), strconv.Itoa(r.Total)},
		classRow("macro avg", r.MacroAvg),
		classRow("weighted avg", r.WeightedAvg),
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func classRow(label string, c ClassMetrics) []string {
	return []string{label, format(c.Precision, 2), format(c.Recall, 2), format(c.F1, 2), strconv.Itoa(c.Support)}
}

func format(v float64, prec int) string {
	if math.IsNaN(v) {
		return "undefined"
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}
