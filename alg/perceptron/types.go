package perceptron

import (
	"errors"
	"fmt"

	"coref/alg/featurevector"
)

var (
	ErrDimensionMismatch = errors.New("model and data dimensions differ")
	ErrModelLength       = errors.New("weight file length matches neither n nor n+1")
	ErrNoInstances       = errors.New("no training instances")
)

// MaxCorrectionsError stops training on the first mistake that would push the
// correction list past its bound. Count is the number of that correction.
type MaxCorrectionsError struct {
	Max, Count int
}

func (e *MaxCorrectionsError) Error() string {
	return fmt.Sprintf("maximum number of corrections exceeded: correction %d over a bound of %d, raise the bound or reduce iterations", e.Count, e.Max)
}

// Instances is the training view of a pair dataset. Label is "" for records whose
// class is missing; Weight/SetWeight expose the per-record slack weight.
type Instances interface {
	Len() int
	Dim() int
	Features(i int) featurevector.Vector
	Label(i int) string
	Weight(i int) float64
	SetWeight(i int, w float64)
}

// Model scores a feature vector; a pair is accepted when the score exceeds the
// applier's threshold.
type Model interface {
	Score(x featurevector.Vector) float64
	Dim() int
}

// EpochStats is reported after every training epoch.
type EpochStats struct {
	Class          string
	Epoch          int
	Positive       int
	Negative       int
	NearMisses     int
	Corrections    int
	Norm           float64
	HeldoutCorrect int
	HeldoutTotal   int
}

// HeldoutAccuracy is -1 when no held-out set was given.
func (s EpochStats) HeldoutAccuracy() float64 {
	if s.HeldoutTotal == 0 {
		return -1
	}
	return float64(s.HeldoutCorrect) / float64(s.HeldoutTotal)
}

type EpochFunc func(stats EpochStats, snapshot Model)

// label returns +1 for the positive class, -1 otherwise, 0 for missing labels
func label(data Instances, i int, positive string) float64 {
	l := data.Label(i)
	switch {
	case l == "":
		return 0
	case l == positive:
		return 1
	default:
		return -1
	}
}

func checkDims(data Instances) error {
	dim := data.Dim()
	for i := 0; i < data.Len(); i++ {
		if n := len(data.Features(i)); n != dim {
			return fmt.Errorf("%w: record %d has %d features, expected %d", ErrDimensionMismatch, i, n, dim)
		}
	}
	return nil
}

// resolveRelative turns a negative (relative) value into |value| * radius.
func resolveRelative(value, radius float64) float64 {
	if value < 0 {
		return -value * radius
	}
	return value
}

func heldoutCorrect(heldout Instances, positive string, scores func(i int) float64) (correct, total int) {
	if heldout == nil {
		return 0, 0
	}
	for i := 0; i < heldout.Len(); i++ {
		cl := label(heldout, i, positive)
		if cl == 0 {
			continue
		}
		total++
		if cl*scores(i) > 0 {
			correct++
		}
	}
	return
}
