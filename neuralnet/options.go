package neuralnet

import (
	"io"
	"log/slog"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler is a source of independent draws used to initialize parameters.
// distuv.Normal satisfies it.
type Sampler interface {
	Rand() float64
}

// NewNormalSampler returns a seeded standard-normal sampler.
func NewNormalSampler(seed uint64) Sampler {
	return distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
}

type options struct {
	sampler Sampler
	shuffle *rand.Rand
	logger  *slog.Logger
}

// Option configures a Network at construction.
type Option func(*options)

// WithSeed makes initialization and epoch shuffling reproducible.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.sampler = NewNormalSampler(seed)
		o.shuffle = rand.New(rand.NewPCG(seed, ^seed))
	}
}

// WithSampler overrides the parameter initializer.
func WithSampler(s Sampler) Option {
	return func(o *options) {
		o.sampler = s
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func defaultOptions() options {
	return options{
		// nil Src draws from the global, entropy-seeded generator
		sampler: distuv.Normal{Mu: 0, Sigma: 1},
		shuffle: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
