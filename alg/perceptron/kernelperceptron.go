package perceptron

import (
	"fmt"
	"log"
	"math"
	"math/rand"

	"coref/alg/featurevector"
	"coref/alg/kernel"
	"coref/util"
)

// KernelPerceptron trains a kernel expansion by recording a Correction for every
// example that fails the margin test. Margin and Epsilon given as negative values are
// relative to the largest feature vector norm of the training set.
type KernelPerceptron struct {
	Kernel         kernel.Kernel
	Iterations     int
	Margin         float64
	Epsilon        float64
	PositiveWeight float64
	NegativeWeight float64
	MaxCorrections int
	Shuffle        bool
	Seed           int64
	Log            bool

	Heldout Instances
	OnEpoch EpochFunc
}

// Spanner is implemented by datasets whose records come in contiguous documents;
// shuffling then moves whole documents.
type Spanner interface {
	Spans() [][2]int
}

func trainingOrder(data Instances, shuffle bool, seed int64) []int {
	if !shuffle {
		return util.RangeInt(data.Len())
	}
	r := rand.New(rand.NewSource(seed))
	spanner, ok := data.(Spanner)
	if !ok {
		return r.Perm(data.Len())
	}
	spans := spanner.Spans()
	order := make([]int, 0, data.Len())
	for _, s := range r.Perm(len(spans)) {
		for i := spans[s][0]; i < spans[s][1]; i++ {
			order = append(order, i)
		}
	}
	return order
}

func validate(data Instances, dim int) error {
	if data.Dim() != dim {
		return fmt.Errorf("%w: %d features, expected %d", ErrDimensionMismatch, data.Dim(), dim)
	}
	return checkDims(data)
}

func classWeights(pos, neg float64) (float64, float64) {
	if pos == 0 {
		pos = 1
	}
	if neg == 0 {
		neg = 1
	}
	return pos, neg
}

func (t *KernelPerceptron) radius(data Instances) float64 {
	vectors := make([]featurevector.Vector, data.Len())
	for i := range vectors {
		vectors[i] = data.Features(i)
	}
	return kernel.MaxNorm(t.Kernel, vectors)
}

func (t *KernelPerceptron) Train(data Instances, positive string) (*KernelModel, error) {
	if t.Kernel == nil {
		panic("Kernel not initialized")
	}
	if data.Len() == 0 {
		return nil, ErrNoInstances
	}
	if err := validate(data, data.Dim()); err != nil {
		return nil, err
	}
	if t.Heldout != nil {
		if err := validate(t.Heldout, data.Dim()); err != nil {
			return nil, fmt.Errorf("heldout: %w", err)
		}
	}
	if v, ok := t.Kernel.(kernel.Validator); ok {
		for _, set := range []Instances{data, t.Heldout} {
			if set == nil {
				continue
			}
			for i := 0; i < set.Len(); i++ {
				if err := v.Validate(set.Features(i)); err != nil {
					return nil, fmt.Errorf("record %d: %w", i, err)
				}
			}
		}
	}

	margin, epsilon := t.Margin, t.Epsilon
	if margin < 0 || epsilon < 0 {
		r := t.radius(data)
		margin, epsilon = resolveRelative(margin, r), resolveRelative(epsilon, r)
		if t.Log {
			log.Printf("Max norm R = %v; margin %v epsilon %v", r, margin, epsilon)
		}
	}
	if epsilon != 0 {
		for i := 0; i < data.Len(); i++ {
			data.SetWeight(i, 0)
		}
	}

	posWeight, negWeight := classWeights(t.PositiveWeight, t.NegativeWeight)
	var (
		model   = NewKernelModel(t.Kernel, data.Dim(), positive, posWeight, negWeight)
		memos   = NewMemos(data.Len())
		order   = trainingOrder(data, t.Shuffle, t.Seed)
		normSq  float64
		heldout []Memo
	)
	if t.Heldout != nil {
		heldout = NewMemos(t.Heldout.Len())
	}
	prevPrefix := log.Prefix()
	defer log.SetPrefix(prevPrefix)
	for epoch := 0; epoch < t.Iterations; epoch++ {
		log.SetPrefix(fmt.Sprintf("IT #%d ", epoch) + prevPrefix)
		stats := EpochStats{Class: positive, Epoch: epoch}
		for _, i := range order {
			cl := label(data, i, positive)
			if cl == 0 {
				continue
			}
			x := data.Features(i)
			prediction := model.ScoreMemo(model.Len(), x, &memos[i])
			if cl*(prediction+data.Weight(i)*epsilon) > margin {
				if math.Abs(prediction) <= margin {
					stats.NearMisses++
				}
				model.Votes[model.Len()]++
				continue
			}
			// the bound admits MaxCorrections corrections; the next mistake fails
			if t.MaxCorrections > 0 && model.Len() >= t.MaxCorrections {
				return nil, &MaxCorrectionsError{Max: t.MaxCorrections, Count: model.Len() + 1}
			}
			sign, amount := int8(1), posWeight
			if cl < 0 {
				sign, amount = -1, -negWeight
			}
			normSq += 2*amount*(prediction-model.Kernel.Zero(x)) + amount*amount*model.Kernel.Eval(x, x)
			if normSq < 0 {
				if normSq < -1e-9*(1+math.Abs(prediction)) {
					panic(fmt.Sprintf("negative squared norm %v after correction %d", normSq, model.Len()))
				}
				normSq = 0
			}
			model.add(i, sign, x)
			if sign > 0 {
				stats.Positive++
				data.SetWeight(i, data.Weight(i)+epsilon)
			} else {
				stats.Negative++
				data.SetWeight(i, data.Weight(i)-epsilon)
			}
		}
		stats.Corrections = model.Len()
		stats.Norm = math.Sqrt(normSq)
		stats.HeldoutCorrect, stats.HeldoutTotal = heldoutCorrect(t.Heldout, positive, func(i int) float64 {
			return model.ScoreMemo(model.Len(), t.Heldout.Features(i), &heldout[i])
		})
		if t.Log {
			logEpoch(stats)
		}
		if t.OnEpoch != nil {
			t.OnEpoch(stats, model.Snapshot())
		}
	}
	return model, nil
}

func logEpoch(stats EpochStats) {
	log.Printf("Updates +%d -%d (near misses %d); corrections %d; |w| %.6g",
		stats.Positive, stats.Negative, stats.NearMisses, stats.Corrections, stats.Norm)
	if stats.HeldoutTotal > 0 {
		log.Printf("Heldout accuracy %.4f (%d of %d)", stats.HeldoutAccuracy(), stats.HeldoutCorrect, stats.HeldoutTotal)
	}
}
