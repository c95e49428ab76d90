package perceptron

import (
	"errors"
	"testing"

	"coref/alg/featurevector"
)

func TestTrivialStrategy(t *testing.T) {
	v := featurevector.Vector{1, 2}
	w := new(TrivialStrategy)
	w.Init(v, 10)
	w.Update(v)
	if !w.Finalize(v).Equal(v) {
		t.Error("Should return trivial value")
	}
}

func TestAveragedStrategy(t *testing.T) {
	v := featurevector.Vector{4, 1}
	w := new(AveragedStrategy)
	w.Init(v, 4)
	w.Update(v)
	v[0], v[1] = 0, 0
	w.Update(v)
	w.Update(v)
	w.Update(v)
	avg := w.Finalize(v)
	if avg[0] != 1.0 {
		t.Error("Got averaged value", avg[0], "expected", 1.0)
	}
	if avg[1] != 0.25 {
		t.Error("Got averaged value", avg[1], "expected", 0.25)
	}
	// finalizing twice gives the same result
	if again := w.Finalize(v); !again.Equal(avg) {
		t.Error("Finalize changed the strategy state")
	}
}

func trainingErrors(m Model, d *testData) int {
	var errs int
	for i := range d.vectors {
		cl := label(d, i, "positive")
		if cl*m.Score(d.vectors[i]) <= 0 {
			errs++
		}
	}
	return errs
}

func TestLinearConvergesOnSeparableData(t *testing.T) {
	d := separable()
	p := &LinearPerceptron{Iterations: 300}
	m, err := p.Train(d, "positive")
	if err != nil {
		t.Fatal(err)
	}
	if errs := trainingErrors(m, d); errs != 0 {
		t.Errorf("Expected no training errors, got %d of %d", errs, d.Len())
	}
	if m.Dim() != 2 || m.Scale != DefaultScale {
		t.Errorf("Unexpected model shape %+v", m)
	}
}

func TestLinearEpochStats(t *testing.T) {
	d := separable()
	var last EpochStats
	epochs := 0
	p := &LinearPerceptron{
		Iterations: 300,
		Heldout:    separable(),
		OnEpoch: func(stats EpochStats, snapshot Model) {
			epochs++
			last = stats
			if snapshot == nil {
				t.Fatal("Expected a model snapshot")
			}
		},
	}
	if _, err := p.Train(d, "positive"); err != nil {
		t.Fatal(err)
	}
	if epochs != 300 {
		t.Errorf("Expected 300 epochs, got %d", epochs)
	}
	if last.Positive != 0 || last.Negative != 0 {
		t.Errorf("Expected a clean final epoch, got +%d -%d", last.Positive, last.Negative)
	}
	if last.HeldoutAccuracy() != 1 {
		t.Errorf("Expected held-out accuracy 1, got %v", last.HeldoutAccuracy())
	}
	if last.Norm <= 0 {
		t.Errorf("Expected a positive weight norm, got %v", last.Norm)
	}
}

func TestAveragedLinearWeights(t *testing.T) {
	d := newTestData(1).add("positive", 255).add("negative", 0)
	// updates: [1 1] after the positive, [1 0] after the negative, then a correct
	// positive and a mistake on the negative at score 0 leaving [1 -1]
	last, err := (&LinearPerceptron{Iterations: 2}).Train(d, "positive")
	if err != nil {
		t.Fatal(err)
	}
	if last.Weights[0] != 1 || last.Threshold != 1 {
		t.Errorf("Unexpected last weights %v threshold %v", last.Weights, last.Threshold)
	}
	avg, err := (&LinearPerceptron{Iterations: 2, Updater: new(AveragedStrategy)}).Train(d, "positive")
	if err != nil {
		t.Fatal(err)
	}
	// ([1 1] + [1 0] + [1 0] + [1 -1]) / 4
	if avg.Weights[0] != 1 || avg.Threshold != 0 {
		t.Errorf("Unexpected averaged weights %v threshold %v", avg.Weights, avg.Threshold)
	}
}

func TestLinearSkipsMissingClass(t *testing.T) {
	d := newTestData(1).add("positive", 200).add("", 0).add("negative", 10)
	stats := []EpochStats{}
	p := &LinearPerceptron{Iterations: 1, OnEpoch: func(s EpochStats, _ Model) { stats = append(stats, s) }}
	if _, err := p.Train(d, "positive"); err != nil {
		t.Fatal(err)
	}
	// 0 > 0 fails for the first positive, the bias then pushes the negative above 0
	if stats[0].Positive != 1 || stats[0].Negative != 1 {
		t.Errorf("Unexpected updates %+v", stats[0])
	}
}

func TestLinearDimensionMismatch(t *testing.T) {
	d := newTestData(2).add("positive", 1, 2).add("negative", 1)
	p := &LinearPerceptron{Iterations: 1}
	if _, err := p.Train(d, "positive"); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Expected dimension mismatch, got %v", err)
	}
	if _, err := p.Train(newTestData(2), "positive"); !errors.Is(err, ErrNoInstances) {
		t.Errorf("Expected no instances error, got %v", err)
	}
}
