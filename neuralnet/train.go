package neuralnet

import (
	"log/slog"
	"sync"

	"github.com/pkg/errors"
)

// UpdateMiniBatch runs Backpropagate for every sample, sums the gradients
// and applies one gradient descent step with learning rate eta averaged over
// the batch. An empty batch is rejected. If any sample fails, no parameter
// is changed.
func (nn *Network) UpdateMiniBatch(samples []TrainingSample, eta float64) error {
	return nn.updateMiniBatch(samples, eta, 1)
}

func (nn *Network) updateMiniBatch(samples []TrainingSample, eta float64, workers int) error {
	if len(samples) == 0 {
		return errors.Wrap(ErrInvalidArgument, "empty mini-batch")
	}

	var (
		grads *Gradients
		err   error
	)
	if workers > 1 && len(samples) > 1 {
		grads, err = nn.accumulateParallel(samples, workers)
	} else {
		grads, err = nn.accumulate(samples)
	}
	if err != nil {
		return err
	}
	return nn.opt.Apply(nn.layers, grads, len(samples), eta)
}

func (nn *Network) accumulate(samples []TrainingSample) (*Gradients, error) {
	grads := newGradients(nn.layers)
	for i, s := range samples {
		if err := nn.Backpropagate(s); err != nil {
			return nil, errors.Wrapf(err, "sample %d", i)
		}
		grads.addLayers(nn.layers)
	}
	return grads, nil
}

// accumulateParallel splits samples into contiguous runs, one per worker.
// Each worker backpropagates on its own replica; partial sums are added in
// worker order so the result does not depend on scheduling.
// The layers' own activation and gradient buffers are left untouched.
func (nn *Network) accumulateParallel(samples []TrainingSample, workers int) (*Gradients, error) {
	if workers > len(samples) {
		workers = len(samples)
	}
	chunk := (len(samples) + workers - 1) / workers

	parts := make([]*Gradients, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= len(samples) {
			break
		}
		end := min(start+chunk, len(samples))

		wg.Add(1)
		go func(w, offset int, batch []TrainingSample) {
			defer wg.Done()
			r := nn.replica()
			g := newGradients(r.layers)
			for i, s := range batch {
				if err := r.Backpropagate(s); err != nil {
					errs[w] = errors.Wrapf(err, "sample %d", offset+i)
					return
				}
				g.addLayers(r.layers)
			}
			parts[w] = g
		}(w, start, samples[start:end])
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	grads := newGradients(nn.layers)
	for _, p := range parts {
		if p != nil {
			grads.add(p)
		}
	}
	return grads, nil
}

// SGD trains the network for cfg.Epochs epochs. Each epoch shuffles a copy
// of data, cuts it into consecutive mini-batches of cfg.MiniBatchSize (the
// last one may be shorter) and applies UpdateMiniBatch to each in order.
func (nn *Network) SGD(data []TrainingSample, cfg TrainConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	samples := make([]TrainingSample, len(data))
	copy(samples, data)

	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		nn.rng.Shuffle(len(samples), func(i, j int) {
			samples[i], samples[j] = samples[j], samples[i]
		})

		batches := 0
		for start := 0; start < len(samples); start += cfg.MiniBatchSize {
			end := min(start+cfg.MiniBatchSize, len(samples))
			if err := nn.updateMiniBatch(samples[start:end], cfg.Eta, cfg.Workers); err != nil {
				return errors.Wrapf(err, "epoch %d, mini-batch %d", epoch, batches)
			}
			batches++
		}
		nn.logger.Debug("epoch complete", slog.Int("epoch", epoch), slog.Int("batches", batches))

		if cfg.ReportLoss {
			loss, err := nn.TotalLoss(samples)
			if err != nil {
				return errors.Wrapf(err, "epoch %d", epoch)
			}
			nn.logger.Info("training loss", slog.Int("epoch", epoch), slog.Float64("loss", loss))
		}
	}
	return nil
}
