// Package neural composes basis-expanded models into a layered feed-forward network.
//
// Only forward inference is provided. Nodes can be initialised with random
// weights or trained one at a time as independent logistic models; end-to-end
// training across layers is not implemented.
package neural

import (
	"math/rand/v2"
	"sync"

	"github.com/basiskit/basiskit/activation"
	"github.com/basiskit/basiskit/core/model"
	"github.com/basiskit/basiskit/optimize"
)

// Initial weights of a node are drawn uniformly from [MinInitWeight, MaxInitWeight].
const (
	MinInitWeight = -10.0
	MaxInitWeight = 10.0
)

// Node is a single network unit: a logistic model whose output passes through
// a configurable activation.
type Node struct {
	*model.Estimator
}

type nodeVariant struct {
	act activation.Func
	rng *lockedRand
}

func (v nodeVariant) Name() string                  { return "Node" }
func (v nodeVariant) Activation() activation.Func   { return v.act }
func (v nodeVariant) Objective() optimize.Objective { return optimize.Logistic{} }

func (v nodeVariant) GenerateInitialWeights(n int) []float64 {
	return v.rng.uniform(n, MinInitWeight, MaxInitWeight)
}

// NewNode creates an Untrained node. rng supplies the initial weights; nodes of
// one network share it.
func NewNode(act activation.Func, rng *rand.Rand, opts ...model.Option) *Node {
	return newNode(act, &lockedRand{r: rng}, opts...)
}

func newNode(act activation.Func, rng *lockedRand, opts ...model.Option) *Node {
	return &Node{Estimator: model.NewEstimator(nodeVariant{act: act, rng: rng}, opts...)}
}

// lockedRand serialises draws from a shared generator.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) uniform(n int, lo, hi float64) []float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*l.r.Float64()
	}
	return out
}

func newRand(seed int64) *rand.Rand {
	if seed < 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}
