package perceptron

import (
	"fmt"
	"log"
	"math"

	"coref/alg/featurevector"
	"coref/alg/kernel"
)

// LinearPerceptron keeps an explicit weight vector of length Dim()+1 (bias last).
// Inputs are rescaled by 1/Scale and the bias input is 1; the margin and epsilon
// rules are the ones of KernelPerceptron.
type LinearPerceptron struct {
	Iterations     int
	Margin         float64
	Epsilon        float64
	PositiveWeight float64
	NegativeWeight float64
	Scale          float64
	Updater        UpdateStrategy
	Shuffle        bool
	Seed           int64
	Log            bool

	Heldout Instances
	OnEpoch EpochFunc
}

const DefaultScale = 255.0

func (p *LinearPerceptron) scale() float64 {
	if p.Scale == 0 {
		return DefaultScale
	}
	return p.Scale
}

func (p *LinearPerceptron) radius(data Instances) float64 {
	vectors := make([]featurevector.Vector, data.Len())
	for i := range vectors {
		vectors[i] = data.Features(i).Copy()
		vectors[i].Scale(1 / p.scale())
	}
	// 1 + <x/s, x/s> is the squared norm of the bias-augmented input
	return kernel.MaxNorm(kernel.Linear(), vectors)
}

func (p *LinearPerceptron) toModel(w featurevector.Vector) *LinearModel {
	n := len(w) - 1
	return &LinearModel{Weights: w[:n].Copy(), Threshold: -w[n], Scale: p.scale()}
}

func (p *LinearPerceptron) Train(data Instances, positive string) (*LinearModel, error) {
	if p.Updater == nil {
		p.Updater = new(TrivialStrategy)
	}
	if data.Len() == 0 {
		return nil, ErrNoInstances
	}
	if err := validate(data, data.Dim()); err != nil {
		return nil, err
	}
	if p.Heldout != nil {
		if err := validate(p.Heldout, data.Dim()); err != nil {
			return nil, fmt.Errorf("heldout: %w", err)
		}
	}
	margin, epsilon := p.Margin, p.Epsilon
	if margin < 0 || epsilon < 0 {
		r := p.radius(data)
		margin, epsilon = resolveRelative(margin, r), resolveRelative(epsilon, r)
		if p.Log {
			log.Printf("Max norm R = %v; margin %v epsilon %v", r, margin, epsilon)
		}
	}
	if epsilon != 0 {
		for i := 0; i < data.Len(); i++ {
			data.SetWeight(i, 0)
		}
	}

	var (
		n                    = data.Dim()
		scale                = p.scale()
		w                    = featurevector.Zeros(n + 1)
		order                = trainingOrder(data, p.Shuffle, p.Seed)
		posWeight, negWeight = classWeights(p.PositiveWeight, p.NegativeWeight)
		corrections          int
	)
	p.Updater.Init(w, p.Iterations)
	prevPrefix := log.Prefix()
	defer log.SetPrefix(prevPrefix)
	for epoch := 0; epoch < p.Iterations; epoch++ {
		log.SetPrefix(fmt.Sprintf("IT #%d ", epoch) + prevPrefix)
		stats := EpochStats{Class: positive, Epoch: epoch}
		for _, i := range order {
			cl := label(data, i, positive)
			if cl == 0 {
				continue
			}
			x := data.Features(i)
			prediction := linearScore(w[:n], x, scale, -w[n])
			if cl*(prediction+data.Weight(i)*epsilon) > margin {
				if math.Abs(prediction) <= margin {
					stats.NearMisses++
				}
				p.Updater.Update(w)
				continue
			}
			amount := posWeight
			if cl < 0 {
				amount = -negWeight
			}
			w[:n].AddScaled(amount/scale, x)
			w[n] += amount
			corrections++
			if cl > 0 {
				stats.Positive++
				data.SetWeight(i, data.Weight(i)+epsilon)
			} else {
				stats.Negative++
				data.SetWeight(i, data.Weight(i)-epsilon)
			}
			p.Updater.Update(w)
		}
		stats.Corrections = corrections
		stats.Norm = w.Norm()
		var snapshot *LinearModel
		if p.Heldout != nil || p.OnEpoch != nil {
			snapshot = p.toModel(p.Updater.Finalize(w))
		}
		if p.Heldout != nil {
			stats.HeldoutCorrect, stats.HeldoutTotal = heldoutCorrect(p.Heldout, positive, func(i int) float64 {
				return snapshot.Score(p.Heldout.Features(i))
			})
		}
		if p.Log {
			logEpoch(stats)
		}
		if p.OnEpoch != nil {
			p.OnEpoch(stats, snapshot)
		}
	}
	return p.toModel(p.Updater.Finalize(w)), nil
}

// UpdateStrategy observes the weight vector after every training example and decides
// which weights the trained model ends up with.
type UpdateStrategy interface {
	Init(w featurevector.Vector, iterations int)
	Update(w featurevector.Vector)
	// Finalize must not modify the strategy's state, it is called once per epoch
	Finalize(w featurevector.Vector) featurevector.Vector
}

// TrivialStrategy keeps the last weights.
type TrivialStrategy struct{}

func (u *TrivialStrategy) Init(w featurevector.Vector, iterations int) {

}

func (u *TrivialStrategy) Update(w featurevector.Vector) {

}

func (u *TrivialStrategy) Finalize(w featurevector.Vector) featurevector.Vector {
	return w
}

// AveragedStrategy sums the weight vector after every example, the averaged
// perceptron predicts with the mean.
type AveragedStrategy struct {
	N     int64
	accum featurevector.Vector
}

func (u *AveragedStrategy) Init(w featurevector.Vector, iterations int) {
	u.N = 0
	u.accum = featurevector.Zeros(len(w))
}

func (u *AveragedStrategy) Update(w featurevector.Vector) {
	u.accum.AddScaled(1, w)
	u.N += 1
}

func (u *AveragedStrategy) Finalize(w featurevector.Vector) featurevector.Vector {
	if u.N == 0 {
		return w.Copy()
	}
	avg := u.accum.Copy()
	avg.Scale(1 / float64(u.N))
	return avg
}
