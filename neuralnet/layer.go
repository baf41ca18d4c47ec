package neuralnet

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Layer is one affine transform followed by a nonlinearity, mapping an
// m-vector to an n-vector.
//
// activation, z and the gradients hold the values of the last call that
// wrote them. They are reused buffers, not per-call results.
type Layer struct {
	n, m       int
	activation ActivationFunction

	// weights[i*m+j] connects input j to neuron i
	weights []float64
	bias    []float64

	output []float64
	z      []float64

	dCdw []float64
	dCdb []float64
}

// NewLayer allocates a layer with every weight and bias drawn from s.
func NewLayer(act ActivationFunction, n, m int, s Sampler) *Layer {
	l := &Layer{
		n:          n,
		m:          m,
		activation: act,
		weights:    make([]float64, n*m),
		bias:       make([]float64, n),
		output:     make([]float64, n),
		z:          make([]float64, n),
		dCdw:       make([]float64, n*m),
		dCdb:       make([]float64, n),
	}
	for i := 0; i < n; i++ {
		l.bias[i] = s.Rand()
		for j := 0; j < m; j++ {
			l.weights[i*m+j] = s.Rand()
		}
	}
	return l
}

// Feedforward computes z and the activation for input and returns the
// activation buffer. The result must not be modified and is only valid
// until the next call.
func (l *Layer) Feedforward(input []float64) ([]float64, error) {
	if len(input) != l.m {
		return nil, errors.Wrapf(ErrInvalidArgument, "layer expects %d inputs, got %d", l.m, len(input))
	}
	for i := 0; i < l.n; i++ {
		sum := l.bias[i]
		row := l.weights[i*l.m : (i+1)*l.m]
		for j, w := range row {
			sum += w * input[j]
		}
		l.z[i] = sum
		l.output[i] = l.activation.Activate(sum)
	}
	return l.output, nil
}

// scaleByDerivative multiplies delta elementwise by the activation's
// derivative at the last pre-activation z.
func (l *Layer) scaleByDerivative(delta []float64) {
	for i, z := range l.z {
		delta[i] *= l.activation.Derivative(z)
	}
}

// setGradients stores the outer product delta ⊗ prev and delta itself.
func (l *Layer) setGradients(delta, prev []float64) {
	for i := 0; i < l.n; i++ {
		l.dCdb[i] = delta[i]
		for j := 0; j < l.m; j++ {
			l.dCdw[i*l.m+j] = delta[i] * prev[j]
		}
	}
}

// replica shares the parameters of l but owns its scratch buffers.
func (l *Layer) replica() *Layer {
	return &Layer{
		n:          l.n,
		m:          l.m,
		activation: l.activation,
		weights:    l.weights,
		bias:       l.bias,
		output:     make([]float64, l.n),
		z:          make([]float64, l.n),
		dCdw:       make([]float64, l.n*l.m),
		dCdb:       make([]float64, l.n),
	}
}

func (l *Layer) N() int { return l.n }
func (l *Layer) M() int { return l.m }

func (l *Layer) Weights() []float64        { return l.weights }
func (l *Layer) Bias() []float64           { return l.bias }
func (l *Layer) Activation() []float64     { return l.output }
func (l *Layer) Z() []float64              { return l.z }
func (l *Layer) WeightGradient() []float64 { return l.dCdw }
func (l *Layer) BiasGradient() []float64   { return l.dCdb }

// Debug
func (l *Layer) String() string {
	w := mat.NewDense(l.n, l.m, l.weights)
	return fmt.Sprintf("n=%d m=%d\nweights=\n%v\nbias=%v\nactivation=%v\n",
		l.n, l.m, mat.Formatted(w, mat.Prefix(""), mat.Squeeze()), l.bias, l.output)
}
