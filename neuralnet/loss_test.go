package neuralnet

import (
	"testing"
)

func TestQuadraticCompute(t *testing.T) {
	q := Quadratic{}
	output := []float64{0.5, 0.5}
	target := []float64{1.0, 0.0}
	loss := q.Compute(output, target)
	want := 0.25
	if diff := loss - want; diff < -1e-12 || diff > 1e-12 {
		t.Errorf("Quadratic.Compute = %v; want %v", loss, want)
	}
}

func TestQuadraticGradient(t *testing.T) {
	q := Quadratic{}
	output := []float64{0.5, 0.5}
	target := []float64{1.0, 0.0}
	grad := q.Gradient(make([]float64, 2), output, target)
	want := []float64{-0.5, 0.5}
	for i := range grad {
		if grad[i] != want[i] {
			t.Errorf("Quadratic.Gradient[%d] = %v; want %v", i, grad[i], want[i])
		}
	}
}
