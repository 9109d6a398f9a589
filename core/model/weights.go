package model

import (
	"encoding/json"

	"github.com/basiskit/basiskit/basis"
	"github.com/basiskit/basiskit/pkg/errors"
)

// WeightsVersion is the current ModelWeights format.
const WeightsVersion = "1"

// ModelWeights is the persisted form of a trained Estimator.
//
// A weight vector is only meaningful together with the exact basis functions
// that produced it, so the basis names are stored next to the coefficients
// and checked on import. Custom basis functions must be registered with
// basis.Register under the same name before a model that uses them is loaded.
type ModelWeights struct {
	// ModelType is the variant name, e.g. "LogRegClassifier".
	ModelType string `json:"model_type"`

	// Version is the format version.
	Version string `json:"version"`

	// Basis lists the basis-function names in weight-layout order.
	Basis []string `json:"basis"`

	// Activation is the name of the output nonlinearity.
	Activation string `json:"activation"`

	// Objective is the name of the training loss.
	Objective string `json:"objective"`

	// LearningRate is the step size the weights were trained with.
	LearningRate float64 `json:"learning_rate"`

	// NFeatures is the number of raw input features.
	NFeatures int `json:"n_features"`

	// Coefficients is the weight vector, bias first.
	Coefficients []float64 `json:"coefficients"`
}

// ToJSON serialises the weights as indented JSON.
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	return json.MarshalIndent(mw, "", "  ")
}

// FromJSON restores weights from JSON.
func (mw *ModelWeights) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, mw); err != nil {
		return errors.Wrap(err, "decode model weights")
	}
	return nil
}

// Validate checks that the record is internally consistent.
func (mw *ModelWeights) Validate() error {
	if mw.ModelType == "" {
		return errors.NewValidationError("model_type", "is required", mw.ModelType)
	}
	if mw.Version != WeightsVersion {
		return errors.NewValidationError("version", "unsupported model weights version", mw.Version)
	}
	if len(mw.Basis) == 0 {
		return errors.NewValidationError("basis", "at least one basis function is required", mw.Basis)
	}
	want := mw.NFeatures*(len(mw.Basis)-1) + 1
	if len(mw.Coefficients) != want {
		return errors.NewDimensionError("ModelWeights.Validate", want, len(mw.Coefficients), 1)
	}
	return nil
}

// Clone returns a deep copy.
func (mw *ModelWeights) Clone() *ModelWeights {
	clone := *mw
	clone.Basis = append([]string(nil), mw.Basis...)
	clone.Coefficients = append([]float64(nil), mw.Coefficients...)
	return &clone
}

// ExportWeights returns the persisted form of a trained estimator.
func (e *Estimator) ExportWeights() (*ModelWeights, error) {
	if err := e.state.RequireTrained(e.Name(), "ExportWeights"); err != nil {
		return nil, err
	}
	nFeatures, _ := e.state.GetDimensions()
	return &ModelWeights{
		ModelType:    e.Name(),
		Version:      WeightsVersion,
		Basis:        e.basis.Names(),
		Activation:   e.variant.Activation().Name,
		Objective:    e.variant.Objective().Name(),
		LearningRate: e.cfg.LearningRate,
		NFeatures:    nFeatures,
		Coefficients: append([]float64(nil), e.weights...),
	}, nil
}

// ImportWeights puts the estimator in the Trained state with the given weights.
// The record must come from the same variant and the same basis set.
func (e *Estimator) ImportWeights(mw *ModelWeights) error {
	if err := mw.Validate(); err != nil {
		return err
	}
	if mw.ModelType != e.Name() {
		return errors.NewValidationError("model_type", "weights belong to a different model", mw.ModelType)
	}
	set, err := basis.NewSet(mw.Basis...)
	if err != nil {
		return err
	}
	if !set.Equal(e.basis) {
		return errors.NewValidationError("basis", "weights were trained with a different basis set", mw.Basis)
	}
	if act := e.variant.Activation().Name; mw.Activation != act {
		return errors.NewValidationError("activation", "weights were trained with a different activation", mw.Activation)
	}

	if mw.LearningRate > 0 {
		e.cfg.LearningRate = mw.LearningRate
	}
	e.weights = append([]float64(nil), mw.Coefficients...)
	e.result = nil
	e.state.SetTrained(mw.NFeatures, 0)
	return nil
}
