// Package dataset turns CSV rows, tensors and matrices into training
// samples for neuralnet.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"

	"toynet/neuralnet"
)

type errInvalidLine struct {
	lineNum  int
	fields   int
	expected int
}

func (e errInvalidLine) Error() string {
	return fmt.Sprintf("at line %d, expected %d values, got %d",
		e.lineNum, e.expected, e.fields)
}

// ReadCSV reads one sample per line: inputs values followed by outputs
// target values, comma separated. Blank lines are skipped.
func ReadCSV(r io.Reader, inputs, outputs int) ([]neuralnet.TrainingSample, error) {
	if inputs < 0 || outputs < 0 {
		return nil, errors.Errorf("invalid column counts: %d inputs, %d outputs", inputs, outputs)
	}
	scanner := bufio.NewScanner(r)
	var samples []neuralnet.TrainingSample
	var lineNum int
	for scanner.Scan() {
		lineNum++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Split(text, ",")
		if len(fields) != inputs+outputs {
			return nil, errInvalidLine{
				lineNum:  lineNum,
				fields:   len(fields),
				expected: inputs + outputs,
			}
		}

		values := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d, column %d", lineNum, i+1)
			}
			values[i] = v
		}
		samples = append(samples, neuralnet.TrainingSample{
			Input:  values[:inputs:inputs],
			Target: values[inputs:],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading samples")
	}
	return samples, nil
}

// OneHot encodes labels as a (len(labels), numClasses) tensor.
func OneHot(labels []int, numClasses int) (*tensor.Dense, error) {
	norm := make([]float64, len(labels)*numClasses)
	for i, label := range labels {
		if label < 0 || label >= numClasses {
			return nil, errors.Errorf("label %d at %d outside [0, %d)", label, i, numClasses)
		}
		norm[i*numClasses+label] = 1.0
	}
	return tensor.New(tensor.Of(tensor.Float64), tensor.WithShape(len(labels), numClasses), tensor.WithBacking(norm)), nil
}

// FromTensors pairs row i of inputs with row i of targets. Both must be
// two-dimensional float64 tensors with the same number of rows.
func FromTensors(inputs, targets *tensor.Dense) ([]neuralnet.TrainingSample, error) {
	in, err := rows(inputs)
	if err != nil {
		return nil, errors.Wrap(err, "inputs")
	}
	out, err := rows(targets)
	if err != nil {
		return nil, errors.Wrap(err, "targets")
	}
	if len(in) != len(out) {
		return nil, errors.Errorf("%d input rows but %d target rows", len(in), len(out))
	}
	return zip(in, out), nil
}

// FromLabels is FromTensors with targets one-hot encoded from labels.
func FromLabels(inputs *tensor.Dense, labels []int, numClasses int) ([]neuralnet.TrainingSample, error) {
	targets, err := OneHot(labels, numClasses)
	if err != nil {
		return nil, err
	}
	return FromTensors(inputs, targets)
}

// FromMatrix pairs row i of inputs with row i of targets.
func FromMatrix(inputs, targets mat.Matrix) ([]neuralnet.TrainingSample, error) {
	r, _ := inputs.Dims()
	tr, _ := targets.Dims()
	if r != tr {
		return nil, errors.Errorf("%d input rows but %d target rows", r, tr)
	}
	return zip(matRows(inputs), matRows(targets)), nil
}

func rows(t *tensor.Dense) ([][]float64, error) {
	if t.Dtype() != tensor.Float64 {
		return nil, errors.Errorf("expected float64 tensor, got %v", t.Dtype())
	}
	shape := t.Shape()
	if len(shape) != 2 {
		return nil, errors.Errorf("expected 2 dimensions, got shape %v", shape)
	}
	out := make([][]float64, shape[0])
	for i := range out {
		row := make([]float64, shape[1])
		for j := range row {
			v, err := t.At(i, j)
			if err != nil {
				return nil, err
			}
			row[j] = v.(float64)
		}
		out[i] = row
	}
	return out, nil
}

func matRows(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = mat.Row(make([]float64, c), i, m)
	}
	return out
}

func zip(in, out [][]float64) []neuralnet.TrainingSample {
	samples := make([]neuralnet.TrainingSample, len(in))
	for i := range in {
		samples[i] = neuralnet.TrainingSample{Input: in[i], Target: out[i]}
	}
	return samples
}
