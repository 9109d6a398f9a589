// Package model provides the shared train/predict/report lifecycle for basiskit models.
package model

import (
	"sync"

	"github.com/basiskit/basiskit/pkg/errors"
)

// StateManager tracks whether a model is trained and the shape it was trained on.
// It is embedded by composition, not inheritance, in every estimator and scaler.
type StateManager struct {
	Trained bool // Public for gob encoding
	mu      sync.RWMutex

	// Shape seen during training - Public for gob encoding
	NFeatures int
	NSamples  int
}

// NewStateManager creates a StateManager in the Untrained state.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsTrained reports whether the model is in the Trained state.
func (s *StateManager) IsTrained() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Trained
}

// SetTrained moves the model to the Trained state and records the training shape.
func (s *StateManager) SetTrained(nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Trained = true
	s.NFeatures = nFeatures
	s.NSamples = nSamples
}

// Reset moves the model back to the Untrained state.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Trained = false
	s.NFeatures = 0
	s.NSamples = 0
}

// GetDimensions returns the number of features and samples seen during training.
func (s *StateManager) GetDimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.NFeatures, s.NSamples
}

// RequireTrained returns a NotFittedError if the model is Untrained.
func (s *StateManager) RequireTrained(modelName, method string) error {
	if !s.IsTrained() {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}

// ModelState is the serialisable form of a StateManager.
type ModelState struct {
	Trained   bool `json:"trained"`
	NFeatures int  `json:"n_features,omitempty"`
	NSamples  int  `json:"n_samples,omitempty"`
}

// GetState returns a snapshot of the current state.
func (s *StateManager) GetState() ModelState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ModelState{
		Trained:   s.Trained,
		NFeatures: s.NFeatures,
		NSamples:  s.NSamples,
	}
}

// SetState restores a snapshot.
func (s *StateManager) SetState(state ModelState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Trained = state.Trained
	s.NFeatures = state.NFeatures
	s.NSamples = state.NSamples
}
