// Package rocplot renders ROC curves with gonum/plot.
package rocplot

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/basiskit/basiskit/metrics"
	"github.com/basiskit/basiskit/pkg/errors"
	"github.com/basiskit/basiskit/pkg/log"
)

// Size is the width and height of a rendered plot.
const Size = 5 * vg.Inch

// New builds the plot: the curve labelled with its AUC and the chance diagonal.
func New(roc *metrics.ROC) (*plot.Plot, error) {
	if roc == nil || len(roc.Points) == 0 {
		return nil, errors.NewValidationError("roc", "empty ROC curve", nil)
	}

	p := plot.New()
	p.Title.Text = "Receiver Operating Characteristic"
	p.X.Label.Text = "False Positive Rate"
	p.Y.Label.Text = "True Positive Rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	p.Add(plotter.NewGrid())

	// points run from the lowest threshold to the highest, draw them by FPR
	pts := make(plotter.XYs, len(roc.Points))
	for i, pt := range roc.Points {
		pts[len(pts)-1-i] = plotter.XY{X: pt.FPR, Y: pt.TPR}
	}
	curve, err := plotter.NewLine(pts)
	if err != nil {
		return nil, errors.Wrap(err, "build ROC line")
	}
	curve.Color = color.RGBA{B: 255, A: 255}
	curve.LineStyle.Width = vg.Points(2)

	chance, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return nil, errors.Wrap(err, "build diagonal")
	}
	chance.Color = color.Gray{Y: 128}
	chance.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}

	p.Add(curve, chance)
	p.Legend.Add(fmt.Sprintf("ROC Curve (AUC = %.2f)", roc.AUC()), curve)
	p.Legend.Top = false
	p.Legend.Left = false
	return p, nil
}

// Save renders roc to path. The image format follows the file extension
// (png, svg, pdf, ...).
func Save(roc *metrics.ROC, path string) error {
	p, err := New(roc)
	if err != nil {
		return err
	}
	if err := p.Save(Size, Size, path); err != nil {
		return errors.Wrapf(err, "save ROC plot to %s", path)
	}
	log.GetLoggerWithName("rocplot").Info("ROC plot saved",
		log.OperationKey, log.OperationPlot,
		log.AUCKey, roc.AUC(),
		log.PathKey, path,
	)
	return nil
}

// Write renders roc to w in the given format, e.g. "png" or "svg".
func Write(roc *metrics.ROC, w io.Writer, format string) error {
	p, err := New(roc)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(Size, Size, format)
	if err != nil {
		return errors.Wrapf(err, "render ROC plot as %s", format)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "write ROC plot")
	}
	return nil
}
