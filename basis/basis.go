// Package basis expands raw feature rows into basis-function features.
//
// A Set is an ordered list of unary functions. The first function is the bias
// term and is applied to the constant 1; every remaining function is applied
// to every feature. For F features and B functions the expansion has
//
//	F*(B-1) + 1
//
// columns, laid out feature-major:
//
//	[ b0(1), b1(x0), b2(x0), ..., b1(x1), b2(x1), ... ]
//
// Functions are referenced by registered name so that a weight vector can be
// persisted together with the exact transform that produced it.
package basis

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/basiskit/basiskit/pkg/errors"
)

// Func is a named unary transform.
type Func struct {
	Name string
	Fn   func(float64) float64
}

var (
	registryMu sync.RWMutex
	registry   = map[string]func(float64) float64{
		"one":        func(float64) float64 { return 1 },
		"identity":   func(x float64) float64 { return x },
		"square":     func(x float64) float64 { return x * x },
		"cube":       func(x float64) float64 { return x * x * x },
		"sqrt":       math.Sqrt,
		"abs":        math.Abs,
		"exp":        math.Exp,
		"log":        math.Log,
		"log1p":      math.Log1p,
		"sin":        math.Sin,
		"cos":        math.Cos,
		"tanh":       math.Tanh,
		"reciprocal": func(x float64) float64 { return 1 / x },
		"sigmoid":    func(x float64) float64 { return 1 / (1 + math.Exp(-x)) },
	}
)

// Register adds a named function. Persisted models that use it can only be
// restored in processes that register the same name.
func Register(name string, fn func(float64) float64) error {
	if name == "" || fn == nil {
		return errors.NewValidationError("name", "basis function needs a name and a body", name)
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		return errors.NewValidationError("name", "basis function already registered", name)
	}
	registry[name] = fn
	return nil
}

// Lookup returns the registered function called name.
func Lookup(name string) (Func, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fn, ok := registry[name]
	if !ok {
		return Func{}, errors.NewValidationError("basis", "unknown basis function", name)
	}
	return Func{Name: name, Fn: fn}, nil
}

// Registered lists every registered name in sorted order.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set is an immutable, ordered list of basis functions.
type Set struct {
	funcs []Func
}

// NewSet builds a set from registered names. The first name is the bias transform.
func NewSet(names ...string) (Set, error) {
	if len(names) == 0 {
		return Set{}, errors.NewValidationError("basis", "a basis set needs at least one function", names)
	}
	funcs := make([]Func, len(names))
	for i, name := range names {
		f, err := Lookup(name)
		if err != nil {
			return Set{}, err
		}
		funcs[i] = f
	}
	return Set{funcs: funcs}, nil
}

// MustSet is NewSet that panics on unknown names. Intended for package-level defaults.
func MustSet(names ...string) Set {
	s, err := NewSet(names...)
	if err != nil {
		panic(err)
	}
	return s
}

// Linear is the set {one, identity}: a bias plus one weight per feature.
func Linear() Set {
	return MustSet("one", "identity")
}

// Polynomial is {one, identity, square, cube} truncated to degree (1..3).
func Polynomial(degree int) (Set, error) {
	names := []string{"one", "identity", "square", "cube"}
	if degree < 1 || degree >= len(names) {
		return Set{}, errors.NewValidationError("degree", "polynomial degree must be 1, 2 or 3", degree)
	}
	return NewSet(names[:degree+1]...)
}

// Len returns the number of functions, bias included.
func (s Set) Len() int {
	return len(s.funcs)
}

// Names returns the function names in order.
func (s Set) Names() []string {
	names := make([]string, len(s.funcs))
	for i, f := range s.funcs {
		names[i] = f.Name
	}
	return names
}

// Equal reports whether both sets name the same functions in the same order.
func (s Set) Equal(other Set) bool {
	if len(s.funcs) != len(other.funcs) {
		return false
	}
	for i := range s.funcs {
		if s.funcs[i].Name != other.funcs[i].Name {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer.
func (s Set) String() string {
	return fmt.Sprintf("basis%v", s.Names())
}

// WeightCount is the length of a weight vector for nFeatures raw features.
func (s Set) WeightCount(nFeatures int) int {
	if len(s.funcs) == 0 {
		return 0
	}
	return nFeatures*(len(s.funcs)-1) + 1
}

// WeightIndex returns the position of the weight for basis function k (k >= 1)
// applied to feature f.
func (s Set) WeightIndex(feature, k int) int {
	return 1 + feature*(len(s.funcs)-1) + (k - 1)
}

// ExpandRow writes the expansion of one raw sample into dst and returns it.
// dst is reallocated when it is too short.
func (s Set) ExpandRow(x []float64, dst []float64) []float64 {
	n := s.WeightCount(len(x))
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	if n == 0 {
		return dst
	}
	dst[0] = s.funcs[0].Fn(1)
	rest := s.funcs[1:]
	for f, v := range x {
		base := 1 + f*len(rest)
		for k, bf := range rest {
			dst[base+k] = bf.Fn(v)
		}
	}
	return dst
}
