// Package basiskit fits and evaluates models built on basis-function
// expansion: a linear combination of user-chosen functions of every input
// feature, optionally passed through an output nonlinearity.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "log"
//	    "os"
//
//	    "github.com/basiskit/basiskit/basis"
//	    "github.com/basiskit/basiskit/core/model"
//	    "github.com/basiskit/basiskit/linear"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(6, 1, []float64{-3, -2, -1, 1, 2, 3})
//	    y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})
//
//	    clf := linear.NewLogRegClassifier(
//	        model.WithBasis(basis.MustSet("one", "identity", "square")),
//	        model.WithLearningRate(0.5),
//	    )
//	    if err := clf.Train(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    report, err := clf.Report(X, y)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    report.Print(os.Stdout)
//	}
//
// # Packages
//
//   - basis: basis functions, basis sets and design-matrix expansion
//   - activation: output nonlinearities
//   - optimize: gradient descent for logistic and least-squares objectives
//   - core/model: the Untrained/Trained lifecycle shared by every model
//   - linear: Regression and LogRegClassifier
//   - neural: layered networks of independently trained nodes
//   - metrics: regression errors, confusion matrices, ROC, AUC, reports
//   - stats, preprocessing, dataset: descriptive statistics, scalers, CSV ingestion
//   - rocplot: ROC plot rendering
//   - config: command-line configuration
//
// # Error Handling
//
// Errors come from pkg/errors. Use errors.IsValidation, errors.IsNotFitted
// and errors.IsNumeric to tell bad input, an untrained model and an
// undefined metric apart.
package basiskit
