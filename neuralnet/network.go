package neuralnet

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/pkg/errors"
)

// TrainingSample pairs an input vector with its expected output.
type TrainingSample struct {
	Input  []float64
	Target []float64
}

// Network is a fully connected feed-forward network of sigmoid layers.
// layers[0] is an input placeholder: its activation holds a copy of the
// last input and its parameters are never used.
type Network struct {
	layers []*Layer
	cost   Quadratic
	opt    Optimizer

	// per-layer scratch for the backward pass
	deltas [][]float64

	rng    *rand.Rand
	logger *slog.Logger
}

// New builds a network from layer widths, input first. sizes {2, 3, 1}
// gives two inputs, one hidden layer of three neurons and one output.
func New(sizes []int, opts ...Option) (*Network, error) {
	if len(sizes) == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "network needs at least one layer size")
	}
	for i, s := range sizes {
		if s <= 0 {
			return nil, errors.Wrapf(ErrInvalidArgument, "layer %d has non-positive size %d", i, s)
		}
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	nn := &Network{
		layers: make([]*Layer, 0, len(sizes)),
		opt:    &SGD{},
		rng:    o.shuffle,
		logger: o.logger,
	}
	nn.layers = append(nn.layers, NewLayer(Sigmoid{}, sizes[0], 1, o.sampler))
	for i := 0; i < len(sizes)-1; i++ {
		nn.layers = append(nn.layers, NewLayer(Sigmoid{}, sizes[i+1], sizes[i], o.sampler))
	}
	nn.allocScratch()
	return nn, nil
}

func (nn *Network) allocScratch() {
	nn.deltas = make([][]float64, len(nn.layers))
	for i, l := range nn.layers {
		nn.deltas[i] = make([]float64, l.n)
	}
}

// Feedforward evaluates the network on input and returns the output layer's
// activation. The returned slice is reused by the next call.
func (nn *Network) Feedforward(input []float64) ([]float64, error) {
	in := nn.layers[0]
	if len(input) != in.n {
		return nil, errors.Wrapf(ErrInvalidArgument, "network expects %d inputs, got %d", in.n, len(input))
	}
	copy(in.output, input)

	for l := 1; l < len(nn.layers); l++ {
		if _, err := nn.layers[l].Feedforward(nn.layers[l-1].output); err != nil {
			return nil, errors.Wrapf(err, "layer %d", l)
		}
	}
	return nn.layers[len(nn.layers)-1].output, nil
}

// Backpropagate runs one forward pass on sample and overwrites every computed
// layer's weight and bias gradients with those of this sample alone.
func (nn *Network) Backpropagate(sample TrainingSample) error {
	last := len(nn.layers) - 1
	if len(sample.Target) != nn.layers[last].n {
		return errors.Wrapf(ErrInvalidArgument, "network has %d outputs, target has %d",
			nn.layers[last].n, len(sample.Target))
	}
	if _, err := nn.Feedforward(sample.Input); err != nil {
		return err
	}
	if last == 0 {
		return nil
	}

	out := nn.layers[last]
	delta := nn.cost.Gradient(nn.deltas[last], out.output, sample.Target)
	out.scaleByDerivative(delta)
	out.setGradients(delta, nn.layers[last-1].output)

	for li := last - 1; li > 0; li-- {
		l := nn.layers[li]
		next := nn.layers[li+1]
		nextDelta := nn.deltas[li+1]

		// transposed multiply: t[col] = sum over rows of next.weights[row][col] * delta[row]
		t := nn.deltas[li]
		for col := 0; col < l.n; col++ {
			sum := 0.0
			for row := 0; row < next.n; row++ {
				sum += next.weights[row*next.m+col] * nextDelta[row]
			}
			t[col] = sum
		}

		l.scaleByDerivative(t)
		l.setGradients(t, nn.layers[li-1].output)
	}
	return nil
}

// TotalLoss sums the quadratic cost of every sample.
func (nn *Network) TotalLoss(samples []TrainingSample) (float64, error) {
	var loss float64
	for i, s := range samples {
		out, err := nn.Feedforward(s.Input)
		if err != nil {
			return 0, errors.Wrapf(err, "sample %d", i)
		}
		if len(s.Target) != len(out) {
			return 0, errors.Wrapf(ErrInvalidArgument, "sample %d: network has %d outputs, target has %d",
				i, len(out), len(s.Target))
		}
		loss += nn.cost.Compute(out, s.Target)
	}
	return loss, nil
}

// replica returns a network sharing nn's parameters with private scratch
// buffers, so it can run Backpropagate concurrently with other replicas as
// long as nobody updates the parameters meanwhile.
func (nn *Network) replica() *Network {
	r := &Network{
		layers: make([]*Layer, len(nn.layers)),
		cost:   nn.cost,
		logger: nn.logger,
	}
	for i, l := range nn.layers {
		r.layers[i] = l.replica()
	}
	r.allocScratch()
	return r
}

// Sizes returns the layer widths the network was built from.
func (nn *Network) Sizes() []int {
	sizes := make([]int, len(nn.layers))
	for i, l := range nn.layers {
		sizes[i] = l.n
	}
	return sizes
}

// NumLayers counts the input placeholder too.
func (nn *Network) NumLayers() int {
	return len(nn.layers)
}

func (nn *Network) Layer(i int) *Layer {
	return nn.layers[i]
}

// Output is the activation of the last layer after the latest forward pass.
func (nn *Network) Output() []float64 {
	return nn.layers[len(nn.layers)-1].output
}

func (nn *Network) String() string {
	var sb strings.Builder

	for i, layer := range nn.layers {
		sb.WriteString(fmt.Sprintf("Layer %d:\n%s\n", i, layer.String()))
	}

	return sb.String()
}
