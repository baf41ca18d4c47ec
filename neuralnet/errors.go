package neuralnet

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument is returned for malformed construction sizes,
	// vectors of the wrong length and empty mini-batches.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrShapeMismatch is returned when a parameter document does not fit
	// the network's layer dimensions.
	ErrShapeMismatch = errors.New("shape mismatch")
)
