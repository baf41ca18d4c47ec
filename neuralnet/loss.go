package neuralnet

import "gonum.org/v1/gonum/floats"

// Quadratic is the squared-error cost C = ½‖output − target‖².
type Quadratic struct{}

// Compute returns the cost of one sample.
func (Quadratic) Compute(output []float64, target []float64) float64 {
	d := floats.Distance(output, target, 2)
	return 0.5 * d * d
}

// Gradient writes ∂C/∂output = output − target into dst and returns it.
func (Quadratic) Gradient(dst, output, target []float64) []float64 {
	return floats.SubTo(dst, output, target)
}
