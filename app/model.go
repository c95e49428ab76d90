package app

import (
	"fmt"
	"log"

	"coref/alg/kernel"
	"coref/alg/perceptron"
	"coref/nlp/coref"
	"coref/util"
)

// BuildTrainer returns the binary trainer selected by opts. heldout may be nil.
func BuildTrainer(heldout *coref.Dataset, onEpoch perceptron.EpochFunc) (perceptron.ClassTrainer, error) {
	var heldoutSet perceptron.Instances
	if heldout != nil {
		heldoutSet = heldout
	}
	if explicitWeights() {
		var updater perceptron.UpdateStrategy = new(perceptron.TrivialStrategy)
		if opts.Averaged {
			updater = new(perceptron.AveragedStrategy)
		}
		p := &perceptron.LinearPerceptron{
			Iterations:     opts.Iterations,
			Margin:         opts.Margin,
			Epsilon:        opts.Epsilon,
			PositiveWeight: opts.PositiveWeight,
			NegativeWeight: opts.NegativeWeight,
			Scale:          opts.Scale,
			Updater:        updater,
			Shuffle:        opts.Shuffle,
			Seed:           opts.Seed,
			Log:            allOut,
			Heldout:        heldoutSet,
			OnEpoch:        onEpoch,
		}
		return p.ClassTrainer(), nil
	}
	k, err := kernel.FromSpec(kernel.Spec{Type: opts.Kernel, Exponent: opts.Exponent, Range: opts.Range})
	if err != nil {
		return nil, err
	}
	t := &perceptron.KernelPerceptron{
		Kernel:         k,
		Iterations:     opts.Iterations,
		Margin:         opts.Margin,
		Epsilon:        opts.Epsilon,
		PositiveWeight: opts.PositiveWeight,
		NegativeWeight: opts.NegativeWeight,
		MaxCorrections: opts.MaxCorrections,
		Shuffle:        opts.Shuffle,
		Seed:           opts.Seed,
		Log:            allOut,
		Heldout:        heldoutSet,
		OnEpoch:        onEpoch,
	}
	return t.ClassTrainer(opts.Voted), nil
}

// scoring wraps kernel models in their voted form when voting is on.
func scoring(m perceptron.Model) perceptron.Model {
	if km, ok := m.(*perceptron.KernelModel); ok && opts.Voted {
		return perceptron.Voted{KernelModel: km}
	}
	return m
}

func NewApplier(m perceptron.Model) *coref.Applier {
	return &coref.Applier{
		Model:     m,
		Threshold: opts.Threshold,
		Positive:  opts.PositiveClass,
		Negative:  opts.NegativeClass,
		Workers:   CPUs,
	}
}

func WriteModel(file string, m perceptron.Model) error {
	var err error
	switch model := m.(type) {
	case *perceptron.LinearModel:
		err = perceptron.WriteWeightsFile(file, model)
	case *perceptron.KernelModel:
		err = perceptron.WriteKernelModelFile(file, model)
	case perceptron.Voted:
		err = perceptron.WriteKernelModelFile(file, model.KernelModel)
	default:
		err = fmt.Errorf("can not write model of type %T", m)
	}
	if err != nil {
		return fmt.Errorf("writing model %s: %w", file, err)
	}
	if allOut {
		if sum, err := util.MD5File(file); err == nil {
			log.Printf("Wrote model %s (md5 %s)", file, sum)
		}
	}
	return nil
}

// ReadModel reads a weight file when the kernel is none and a kernel model otherwise.
func ReadModel(file string, dim int) (perceptron.Model, error) {
	if explicitWeights() {
		m, err := perceptron.ReadWeightsFile(file, dim, opts.Scale)
		if err != nil {
			return nil, fmt.Errorf("reading model %s: %w", file, err)
		}
		return m, nil
	}
	m, err := perceptron.ReadKernelModelFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading model %s: %w", file, err)
	}
	if m.Dim() != dim {
		return nil, fmt.Errorf("%w: model %s has %d features, data has %d", perceptron.ErrDimensionMismatch, file, m.Dim(), dim)
	}
	if allOut {
		log.Printf("Read %s model %s with %d corrections", m.Kernel.Name(), file, m.Len())
	}
	return scoring(m), nil
}
