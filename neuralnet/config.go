package neuralnet

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// TrainConfig holds the hyper-parameters of an SGD run.
type TrainConfig struct {
	Epochs        int
	MiniBatchSize int
	// Eta is the learning rate.
	Eta float64
	// Workers > 1 computes the samples of a mini-batch concurrently.
	Workers int
	// ReportLoss logs the training loss after every epoch.
	ReportLoss bool
}

// Validate validates training configuration
func (c TrainConfig) Validate() error {
	if c.Epochs < 0 {
		return errors.Wrapf(ErrInvalidArgument, "epochs must not be negative, got %d", c.Epochs)
	}
	if c.MiniBatchSize <= 0 {
		return errors.Wrapf(ErrInvalidArgument, "mini-batch size must be positive, got %d", c.MiniBatchSize)
	}
	if c.Workers < 0 {
		return errors.Wrapf(ErrInvalidArgument, "workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// ParseSizes parses a list of layer widths such as "2 3 1" or "2,3,1".
func ParseSizes(s string) ([]int, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(parts) == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "no layer sizes given")
	}
	sizes := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidArgument, "layer size %q: %v", p, err)
		}
		if n <= 0 {
			return nil, errors.Wrapf(ErrInvalidArgument, "layer size %d must be positive", n)
		}
		sizes[i] = n
	}
	return sizes, nil
}
