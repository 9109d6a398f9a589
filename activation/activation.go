// Package activation holds the output nonlinearities applied after basis expansion.
package activation

import (
	"math"

	"github.com/basiskit/basiskit/pkg/errors"
)

// Func is a named scalar nonlinearity.
type Func struct {
	Name string
	Fn   func(float64) float64
}

// Apply evaluates the function at z.
func (f Func) Apply(z float64) float64 {
	return f.Fn(z)
}

// ApplySlice evaluates the function element-wise in place.
func (f Func) ApplySlice(z []float64) {
	for i, v := range z {
		z[i] = f.Fn(v)
	}
}

var (
	// Identity returns its input unchanged.
	Identity = Func{Name: "identity", Fn: func(z float64) float64 { return z }}

	// Sigmoid is the logistic function 1/(1+e^-z).
	Sigmoid = Func{Name: "sigmoid", Fn: sigmoid}

	// Tanh is the hyperbolic tangent.
	Tanh = Func{Name: "tanh", Fn: math.Tanh}

	// ReLU is max(0, z).
	ReLU = Func{Name: "relu", Fn: func(z float64) float64 { return math.Max(0, z) }}
)

var byName = map[string]Func{
	Identity.Name: Identity,
	Sigmoid.Name:  Sigmoid,
	Tanh.Name:     Tanh,
	ReLU.Name:     ReLU,
}

// Lookup returns the activation registered as name.
func Lookup(name string) (Func, error) {
	f, ok := byName[name]
	if !ok {
		return Func{}, errors.NewValidationError("activation", "unknown activation function", name)
	}
	return f, nil
}

// sigmoid avoids overflow of e^-z for large negative z.
func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	ez := math.Exp(z)
	return ez / (1 + ez)
}
