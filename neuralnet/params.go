package neuralnet

import (
	"encoding/json"
	"io"
	"math"

	"github.com/pkg/errors"
)

// LayerParameters is one entry of a parameter document, for a {2, 2, 2}
// network:
//
//	[
//		{"weights": [1, 2, 1, 0], "bias": [1, 0]},
//		{"weights": [2, 2, 0, 1], "bias": [0, 3]}
//	]
type LayerParameters struct {
	Weights []float64 `json:"weights"`
	Bias    []float64 `json:"bias"`
}

// LayerState is the debug rendering of a layer.
type LayerState struct {
	N          int       `json:"n"`
	M          int       `json:"m"`
	Weights    []float64 `json:"weights"`
	Bias       []float64 `json:"bias"`
	Activation []float64 `json:"activation"`
	Z          []float64 `json:"z"`
	DCdw       []float64 `json:"dC_dw"`
	DCdb       []float64 `json:"dC_db"`
}

// LoadParameters overwrites the weights and biases of the computed layers,
// doc[i] going to layer i+1. Every entry is checked before any layer is
// written, so on error the network is unchanged.
func (nn *Network) LoadParameters(doc []LayerParameters) error {
	if len(doc) != len(nn.layers)-1 {
		return errors.Wrapf(ErrShapeMismatch, "document has %d layers, network has %d computed layers",
			len(doc), len(nn.layers)-1)
	}
	for i, p := range doc {
		l := nn.layers[i+1]
		if len(p.Weights) != l.n*l.m {
			return errors.Wrapf(ErrShapeMismatch, "layer %d: given %d weights, layer is %dx%d",
				i+1, len(p.Weights), l.n, l.m)
		}
		if len(p.Bias) != l.n {
			return errors.Wrapf(ErrShapeMismatch, "layer %d: given %d biases, layer has %d neurons",
				i+1, len(p.Bias), l.n)
		}
	}
	for i, p := range doc {
		l := nn.layers[i+1]
		copy(l.weights, p.Weights)
		copy(l.bias, p.Bias)
	}
	return nil
}

// LoadParametersJSON decodes a parameter document from r and loads it.
func (nn *Network) LoadParametersJSON(r io.Reader) error {
	var doc []LayerParameters
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return errors.Wrap(err, "failed to decode parameters")
	}
	return nn.LoadParameters(doc)
}

// Parameters returns a copy of the computed layers' weights and biases in
// the form LoadParameters accepts.
func (nn *Network) Parameters() []LayerParameters {
	doc := make([]LayerParameters, 0, len(nn.layers)-1)
	for _, l := range nn.layers[1:] {
		doc = append(doc, LayerParameters{
			Weights: append([]float64(nil), l.weights...),
			Bias:    append([]float64(nil), l.bias...),
		})
	}
	return doc
}

// Export snapshots every layer, the input placeholder included.
func (nn *Network) Export() []LayerState {
	states := make([]LayerState, len(nn.layers))
	for i, l := range nn.layers {
		states[i] = LayerState{
			N:          l.n,
			M:          l.m,
			Weights:    append([]float64(nil), l.weights...),
			Bias:       append([]float64(nil), l.bias...),
			Activation: append([]float64(nil), l.output...),
			Z:          append([]float64(nil), l.z...),
			DCdw:       append([]float64(nil), l.dCdw...),
			DCdb:       append([]float64(nil), l.dCdb...),
		}
	}
	return states
}

// ExportJSON writes Export as indented JSON. Values that overflowed to
// ±Inf or became NaN are written as the strings "+Inf", "-Inf" and "NaN".
func (nn *Network) ExportJSON(w io.Writer) error {
	states := nn.Export()
	doc := make([]debugState, len(states))
	for i, s := range states {
		doc[i] = debugState{
			N:          s.N,
			M:          s.M,
			Weights:    debugFloats(s.Weights),
			Bias:       debugFloats(s.Bias),
			Activation: debugFloats(s.Activation),
			Z:          debugFloats(s.Z),
			DCdw:       debugFloats(s.DCdw),
			DCdb:       debugFloats(s.DCdb),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "failed to encode network state")
	}
	return nil
}

type debugState struct {
	N          int         `json:"n"`
	M          int         `json:"m"`
	Weights    debugFloats `json:"weights"`
	Bias       debugFloats `json:"bias"`
	Activation debugFloats `json:"activation"`
	Z          debugFloats `json:"z"`
	DCdw       debugFloats `json:"dC_dw"`
	DCdb       debugFloats `json:"dC_db"`
}

// debugFloats encodes like []float64 but tolerates non-finite values.
type debugFloats []float64

func (f debugFloats) MarshalJSON() ([]byte, error) {
	b := []byte{'['}
	for i, v := range f {
		if i > 0 {
			b = append(b, ',')
		}
		switch {
		case math.IsNaN(v):
			b = append(b, `"NaN"`...)
		case math.IsInf(v, 1):
			b = append(b, `"+Inf"`...)
		case math.IsInf(v, -1):
			b = append(b, `"-Inf"`...)
		default:
			num, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			b = append(b, num...)
		}
	}
	return append(b, ']'), nil
}
