package neural

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/basiskit/basiskit/activation"
	"github.com/basiskit/basiskit/basis"
	"github.com/basiskit/basiskit/core/model"
	"github.com/basiskit/basiskit/core/parallel"
	"github.com/basiskit/basiskit/metrics"
	"github.com/basiskit/basiskit/optimize"
	"github.com/basiskit/basiskit/pkg/errors"
	"github.com/basiskit/basiskit/pkg/log"
)

// layer is a half-open range of indices into Network.nodes.
type layer struct {
	start, end int
}

func (l layer) width() int { return l.end - l.start }

// Network is a feed-forward stack of node layers. Nodes live in one flat
// slice; each layer is a contiguous index range of it.
//
// The first layer reads the raw features, every later layer reads the
// outputs of the layer before it, and the outputs of the last layer are
// reduced to the single output of largest magnitude, sign preserved.
type Network struct {
	nodes     []*Node
	layers    []layer
	nFeatures int

	act       activation.Func
	basis     basis.Set
	modelOpts []model.Option
	seed      int64
	rng       *lockedRand

	logger log.Logger
}

// Option configures a Network.
type Option func(*Network)

// WithActivation sets the activation used by every node. The default is the sigmoid.
func WithActivation(act activation.Func) Option {
	return func(n *Network) {
		n.act = act
	}
}

// WithBasis sets the basis-function set used by every node.
func WithBasis(set basis.Set) Option {
	return func(n *Network) {
		n.basis = set
	}
}

// WithNodeOptions passes estimator options such as the learning rate to every node.
func WithNodeOptions(opts ...model.Option) Option {
	return func(n *Network) {
		n.modelOpts = append(n.modelOpts, opts...)
	}
}

// WithRandomState seeds the generator for initial weights. A negative seed
// draws from a random source.
func WithRandomState(seed int64) Option {
	return func(n *Network) {
		n.seed = seed
	}
}

// NewNetwork builds a network with depth hidden layers. widths must hold one
// entry per layer including the input and output layers, so len(widths) must
// be depth+2, and every width must be at least 1.
func NewNetwork(depth int, widths []int, opts ...Option) (*Network, error) {
	if depth < 1 {
		return nil, errors.NewValidationError("depth", "must be at least 1", depth)
	}
	if len(widths) != depth+2 {
		return nil, errors.NewValidationError("widths", "every layer including input and output needs a width", widths)
	}
	total := 0
	for _, w := range widths {
		if w < 1 {
			return nil, errors.NewValidationError("widths", "every layer width must be at least 1", widths)
		}
		total += w
	}

	n := &Network{
		act:   activation.Sigmoid,
		basis: basis.Linear(),
		seed:  -1,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.basis.Len() == 0 {
		return nil, errors.NewValidationError("basis", "empty basis set", 0)
	}
	n.rng = &lockedRand{r: newRand(n.seed)}

	nodeOpts := append([]model.Option{model.WithBasis(n.basis)}, n.modelOpts...)
	n.nodes = make([]*Node, 0, total)
	n.layers = make([]layer, len(widths))
	for l, w := range widths {
		n.layers[l] = layer{start: len(n.nodes), end: len(n.nodes) + w}
		for k := 0; k < w; k++ {
			n.nodes = append(n.nodes, newNode(n.act, n.rng, nodeOpts...))
		}
	}

	n.logger = log.GetLoggerWithName("neural").With(
		log.ModelNameKey, "Network",
		log.LayersKey, len(widths),
	)
	return n, nil
}

// Widths returns the number of nodes in each layer.
func (n *Network) Widths() []int {
	out := make([]int, len(n.layers))
	for i, l := range n.layers {
		out[i] = l.width()
	}
	return out
}

// Depth returns the number of hidden layers.
func (n *Network) Depth() int {
	return len(n.layers) - 2
}

// Node returns the node at position pos of layer l.
func (n *Network) Node(l, pos int) (*Node, error) {
	if l < 0 || l >= len(n.layers) {
		return nil, errors.NewValidationError("layer", "layer index out of range", l)
	}
	if pos < 0 || pos >= n.layers[l].width() {
		return nil, errors.NewValidationError("position", "node index out of range", pos)
	}
	return n.nodes[n.layers[l].start+pos], nil
}

// fanIn is the input width of the nodes of layer l.
func (n *Network) fanIn(l, nFeatures int) int {
	if l == 0 {
		return nFeatures
	}
	return n.layers[l-1].width()
}

// Initialize gives every node its generated initial weights so the network
// can run forward inference on samples with nFeatures features.
func (n *Network) Initialize(nFeatures int) error {
	if nFeatures < 1 {
		return errors.NewValidationError("n_features", "must be at least 1", nFeatures)
	}
	for l, ly := range n.layers {
		in := n.fanIn(l, nFeatures)
		for i := ly.start; i < ly.end; i++ {
			node := n.nodes[i]
			mw := &model.ModelWeights{
				ModelType:    node.Name(),
				Version:      model.WeightsVersion,
				Basis:        n.basis.Names(),
				Activation:   n.act.Name,
				Objective:    optimize.Logistic{}.Name(),
				LearningRate: node.LearningRate(),
				NFeatures:    in,
				Coefficients: node.GenerateInitialWeights(n.basis.WeightCount(in)),
			}
			if err := node.ImportWeights(mw); err != nil {
				return err
			}
		}
	}
	n.nFeatures = nFeatures
	n.logger.Debug("network initialised", log.FeaturesKey, nFeatures)
	return nil
}

// TrainNode trains a single node as an independent logistic model on X and y.
// X must have as many columns as the node's fan-in.
func (n *Network) TrainNode(l, pos int, X, y mat.Matrix) error {
	node, err := n.Node(l, pos)
	if err != nil {
		return err
	}
	_, c := X.Dims()
	if l > 0 && c != n.fanIn(l, 0) {
		return errors.NewDimensionError("Network.TrainNode", n.fanIn(l, 0), c, 1)
	}
	if l == 0 && n.nFeatures > 0 && c != n.nFeatures {
		return errors.NewDimensionError("Network.TrainNode", n.nFeatures, c, 1)
	}
	if err := node.Train(X, y); err != nil {
		return err
	}
	if l == 0 {
		n.nFeatures = c
	}
	return nil
}

// Train is not implemented: there is no credit assignment across layers.
// Use Initialize or TrainNode instead.
func (n *Network) Train(X, y mat.Matrix) error {
	return errors.NewModelError("Network.Train", "end-to-end network training", errors.ErrNotImplemented)
}

// IsTrained reports whether every node holds weights.
func (n *Network) IsTrained() bool {
	if n.nFeatures == 0 {
		return false
	}
	for _, node := range n.nodes {
		if !node.IsTrained() {
			return false
		}
	}
	return true
}

// GenerateInitialWeights draws n weights uniformly from [MinInitWeight, MaxInitWeight].
func (n *Network) GenerateInitialWeights(size int) []float64 {
	return n.rng.uniform(size, MinInitWeight, MaxInitWeight)
}

// SetLearningRate sets the learning rate of every node and resets them all.
func (n *Network) SetLearningRate(lr float64) error {
	if !(lr > 0) {
		return errors.NewValidationError("learning_rate", "must be positive", lr)
	}
	for _, node := range n.nodes {
		if err := node.SetLearningRate(lr); err != nil {
			return err
		}
	}
	n.nFeatures = 0
	return nil
}

// SetBasis sets the basis-function set of every node and resets them all.
func (n *Network) SetBasis(set basis.Set) error {
	if set.Len() == 0 {
		return errors.NewValidationError("basis", "empty basis set", 0)
	}
	for _, node := range n.nodes {
		if err := node.SetBasis(set); err != nil {
			return err
		}
	}
	n.basis = set
	n.nFeatures = 0
	return nil
}

// Predict runs one sample, given as a 1xF row or an Fx1 column, through the network.
func (n *Network) Predict(sample mat.Matrix) (float64, error) {
	if !n.IsTrained() {
		return 0, errors.NewNotFittedError("Network", "Predict")
	}
	x, err := model.SampleVector(sample)
	if err != nil {
		return 0, err
	}
	if len(x) != n.nFeatures {
		return 0, errors.NewDimensionError("Network.Predict", n.nFeatures, len(x), 1)
	}
	return n.forward(x)
}

// PredictMany runs every row of X through the network.
func (n *Network) PredictMany(X mat.Matrix) (*mat.VecDense, error) {
	if !n.IsTrained() {
		return nil, errors.NewNotFittedError("Network", "PredictMany")
	}
	r, c := X.Dims()
	if c != n.nFeatures {
		return nil, errors.NewDimensionError("Network.PredictMany", n.nFeatures, c, 1)
	}

	out := mat.NewVecDense(r, nil)
	var (
		once     sync.Once
		firstErr error
	)
	parallel.ParallelizeWithThreshold(r, parallel.DefaultThreshold, func(start, end int) {
		defer func() {
			if p := recover(); p != nil {
				once.Do(func() { firstErr = errors.NewPanicError("Network.PredictMany", p) })
			}
		}()
		row := make([]float64, c)
		for i := start; i < end; i++ {
			mat.Row(row, i, X)
			v, err := n.forward(row)
			if err != nil {
				once.Do(func() { firstErr = err })
				return
			}
			out.SetVec(i, v)
		}
	})
	if firstErr != nil {
		return nil, firstErr
	}

	n.logger.Debug("predicted", log.OperationKey, log.OperationPredict, log.PredsKey, r)
	return out, nil
}

// forward feeds x through every layer and reduces the last layer's outputs.
func (n *Network) forward(x []float64) (float64, error) {
	in := x
	for _, ly := range n.layers {
		sample := mat.NewDense(1, len(in), in)
		out := make([]float64, ly.width())
		for k := range out {
			v, err := n.nodes[ly.start+k].Predict(sample)
			if err != nil {
				return 0, err
			}
			out[k] = v
		}
		in = out
	}
	return largestMagnitude(in), nil
}

// largestMagnitude returns the element with the largest absolute value, keeping its sign.
func largestMagnitude(v []float64) float64 {
	best := 0.0
	for _, x := range v {
		if math.Abs(x) > math.Abs(best) {
			best = x
		}
	}
	return best
}

// Report predicts on X and builds a classification report against y.
func (n *Network) Report(X, y mat.Matrix) (*metrics.ClassificationReport, error) {
	if !n.IsTrained() {
		return nil, errors.NewNotFittedError("Network", "Report")
	}
	pred, err := n.PredictMany(X)
	if err != nil {
		return nil, err
	}
	return metrics.NewClassificationReport(y, pred)
}

var _ model.Model = (*Network)(nil)
