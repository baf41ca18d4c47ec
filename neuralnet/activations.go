package neuralnet

import "math"

type ActivationFunction interface {
	Activate(x float64) float64
	Derivative(x float64) float64
}

// Sigmoid is the only nonlinearity the engine supports.
// Derivative expects the pre-activation z, not the activation.
type Sigmoid struct{}

func (s Sigmoid) Activate(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func (s Sigmoid) Derivative(x float64) float64 {
	sigmoid := s.Activate(x)
	return sigmoid * (1 - sigmoid)
}
