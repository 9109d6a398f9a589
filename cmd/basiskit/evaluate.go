package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/basiskit/basiskit/core/model"
	"github.com/basiskit/basiskit/dataset"
	"github.com/basiskit/basiskit/linear"
	"github.com/basiskit/basiskit/pkg/errors"
	"github.com/basiskit/basiskit/pkg/log"
	"github.com/basiskit/basiskit/rocplot"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Train a logistic classifier on a CSV file and print its classification report",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Data.Path == "" {
			return errors.NewValidationError("data", "a CSV file is required", cfg.Data.Path)
		}
		logger := log.GetLoggerWithName("cli")

		split, err := dataset.LoadBinaryCSV(cfg.Data.Path, cfg.DatasetOptions())
		if err != nil {
			return err
		}
		if split.XTrain == nil {
			return errors.NewValidationError("split", "no rows left for training", cfg.Data.Split)
		}
		XTest, yTest := split.XTest, split.YTest
		if XTest == nil {
			logger.Warn("no test rows, evaluating on the training rows")
			XTest, yTest = split.XTrain, split.YTrain
		}

		set, err := cfg.BasisSet()
		if err != nil {
			return err
		}
		clf := linear.NewLogRegClassifier(
			model.WithBasis(set),
			model.WithLearningRate(cfg.Model.LearningRate),
			model.WithMaxIter(cfg.Model.MaxIter),
			model.WithTol(cfg.Model.Tol),
		)
		if err := clf.Train(split.XTrain, split.YTrain); err != nil {
			return err
		}

		report, err := clf.Report(XTest, yTest)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if err := report.Print(out); err != nil {
			return err
		}
		fmt.Fprintf(out, "Accuracy: %.4f | AUC: %.4f\n", report.Accuracy, report.AUC)

		if cfg.Plot.ROC != "" {
			if report.ROC == nil {
				logger.Warn("ROC curve undefined, skipping plot", log.PathKey, cfg.Plot.ROC)
				return nil
			}
			return rocplot.Save(report.ROC, cfg.Plot.ROC)
		}
		return nil
	},
}

func init() {
	flags := evaluateCmd.Flags()
	flags.Float64("learning-rate", 0.001, "gradient descent step size")
	flags.Int("max-iter", 1000, "gradient descent iteration cap")
	flags.Float64("tol", 1e-6, "gradient norm stopping tolerance")
	flags.String("roc", "", "write the ROC plot to this image file")
	bindFlags(v, flags, map[string]string{
		"learning-rate": "model.learning_rate",
		"max-iter":      "model.max_iter",
		"tol":           "model.tol",
		"roc":           "plot.roc",
	})
}
