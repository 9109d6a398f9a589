package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/basiskit/basiskit/pkg/errors"
)

// SaveModel gob-encodes model into filename.
//
// Example:
//
//	mw, _ := clf.ExportWeights()
//	err := model.SaveModel(mw, "model.gob")
func SaveModel(model interface{}, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer file.Close()

	return SaveModelToWriter(model, file)
}

// LoadModel gob-decodes filename into model, which must be a pointer.
//
// Example:
//
//	var mw model.ModelWeights
//	err := model.LoadModel(&mw, "model.gob")
func LoadModel(model interface{}, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	return LoadModelFromReader(model, file)
}

// SaveModelToWriter gob-encodes model into w.
func SaveModelToWriter(model interface{}, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(model); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// LoadModelFromReader gob-decodes r into model.
func LoadModelFromReader(model interface{}, r io.Reader) error {
	if err := gob.NewDecoder(r).Decode(model); err != nil {
		return errors.Wrap(err, "failed to decode model")
	}
	return nil
}

// Save writes the estimator's weights to filename.
func (e *Estimator) Save(filename string) error {
	mw, err := e.ExportWeights()
	if err != nil {
		return err
	}
	return SaveModel(mw, filename)
}

// Load restores the estimator's weights from filename.
func (e *Estimator) Load(filename string) error {
	var mw ModelWeights
	if err := LoadModel(&mw, filename); err != nil {
		return err
	}
	return e.ImportWeights(&mw)
}
