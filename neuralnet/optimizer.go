package neuralnet

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Gradients accumulates per-layer cost gradients over a mini-batch.
// Index 0 belongs to the input placeholder and stays zero.
type Gradients struct {
	Weights [][]float64
	Bias    [][]float64
}

func newGradients(layers []*Layer) *Gradients {
	g := &Gradients{
		Weights: make([][]float64, len(layers)),
		Bias:    make([][]float64, len(layers)),
	}
	for i, l := range layers {
		g.Weights[i] = make([]float64, l.n*l.m)
		g.Bias[i] = make([]float64, l.n)
	}
	return g
}

// addLayers sums the gradients currently stored in the computed layers.
func (g *Gradients) addLayers(layers []*Layer) {
	for i := 1; i < len(layers); i++ {
		floats.Add(g.Weights[i], layers[i].dCdw)
		floats.Add(g.Bias[i], layers[i].dCdb)
	}
}

func (g *Gradients) add(o *Gradients) {
	for i := range g.Weights {
		floats.Add(g.Weights[i], o.Weights[i])
		floats.Add(g.Bias[i], o.Bias[i])
	}
}

// Optimizer applies summed gradients of a mini-batch to the parameters.
type Optimizer interface {
	Apply(layers []*Layer, g *Gradients, batchSize int, eta float64) error
}

// SGD implements plain stochastic gradient descent:
// w -= eta/batchSize * Σ dC/dw, likewise for the bias.
type SGD struct{}

func (o *SGD) Apply(layers []*Layer, g *Gradients, batchSize int, eta float64) error {
	if batchSize <= 0 {
		return errors.Wrapf(ErrInvalidArgument, "invalid batch size %d", batchSize)
	}
	scale := -eta / float64(batchSize)
	for i := 1; i < len(layers); i++ {
		floats.AddScaled(layers[i].weights, scale, g.Weights[i])
		floats.AddScaled(layers[i].bias, scale, g.Bias[i])
	}
	return nil
}
