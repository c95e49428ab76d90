package perceptron

import (
	"errors"
	"math"
	"testing"

	"coref/alg/kernel"
)

// one positive pair followed by five negatives with a disjoint feature
func pairsData() *testData {
	d := newTestData(2).add("positive", 1, 0)
	for i := 0; i < 5; i++ {
		d.add("negative", 0, 1)
	}
	return d
}

func TestKernelPerceptronTrace(t *testing.T) {
	var stats []EpochStats
	p := &KernelPerceptron{
		Kernel:     kernel.Linear(),
		Iterations: 10,
		OnEpoch:    func(s EpochStats, _ Model) { stats = append(stats, s) },
	}
	m, err := p.Train(pairsData(), "positive")
	if err != nil {
		t.Fatal(err)
	}
	if m.Len() != 3 {
		t.Fatalf("Expected 3 corrections, got %d: %v", m.Len(), m.Corrections)
	}
	expected := []Correction{{1, -1}, {0, 1}, {1, -1}}
	for i, c := range expected {
		if m.Corrections[i] != c {
			t.Errorf("Correction %d: expected %v, got %v", i, c, m.Corrections[i])
		}
	}
	if stats[0].Negative != 1 || stats[0].Positive != 0 {
		t.Errorf("Epoch 0 updates %+v", stats[0])
	}
	if stats[1].Negative != 1 || stats[1].Positive != 1 {
		t.Errorf("Epoch 1 updates %+v", stats[1])
	}
	if stats[9].Corrections != 3 || stats[9].Positive+stats[9].Negative != 0 {
		t.Errorf("Expected converged final epoch, got %+v", stats[9])
	}
	// w = x0 - 2 x1
	if stats[9].Norm != math.Sqrt(6) {
		t.Errorf("Expected norm sqrt(6), got %v", stats[9].Norm)
	}
	if s := m.Score(pairsData().Features(0)); s != 1 {
		t.Errorf("Expected positive score 1, got %v", s)
	}
	if s := m.Score(pairsData().Features(1)); s != -2 {
		t.Errorf("Expected negative score -2, got %v", s)
	}
}

func TestVotedScore(t *testing.T) {
	p := &KernelPerceptron{Kernel: kernel.Linear(), Iterations: 10}
	m, err := p.Train(pairsData(), "positive")
	if err != nil {
		t.Fatal(err)
	}
	expectedVotes := []int{1, 5, 1, 53}
	for i, v := range expectedVotes {
		if m.Votes[i] != v {
			t.Errorf("Vote %d: expected %d, got %d", i, v, m.Votes[i])
		}
	}
	voted := Voted{m}
	if s := voted.Score(pairsData().Features(0)); s != 55 {
		t.Errorf("Expected voted score 55, got %v", s)
	}
	if s := voted.Score(pairsData().Features(1)); s != -57 {
		t.Errorf("Expected voted score -57, got %v", s)
	}
}

func TestMaxCorrections(t *testing.T) {
	p := &KernelPerceptron{Kernel: kernel.Linear(), Iterations: 10, MaxCorrections: 2}
	_, err := p.Train(pairsData(), "positive")
	var maxErr *MaxCorrectionsError
	if !errors.As(err, &maxErr) {
		t.Fatalf("Expected max corrections error, got %v", err)
	}
	if maxErr.Max != 2 || maxErr.Count != 3 {
		t.Errorf("Unexpected bound report %+v", maxErr)
	}

	// the data needs exactly 3 corrections, a bound of 3 admits all of them
	p.MaxCorrections = 3
	m, err := p.Train(pairsData(), "positive")
	if err != nil {
		t.Fatalf("Expected training within the bound, got %v", err)
	}
	if m.Len() != 3 {
		t.Errorf("Expected 3 corrections, got %d", m.Len())
	}
}

func TestEpsilonWeights(t *testing.T) {
	d := pairsData()
	p := &KernelPerceptron{Kernel: kernel.Linear(), Iterations: 1, Epsilon: 0.5}
	if _, err := p.Train(d, "positive"); err != nil {
		t.Fatal(err)
	}
	// weights are reset to 0, the only mistake of the first epoch is record 1
	for i, w := range d.weights {
		expected := 0.0
		if i == 1 {
			expected = -0.5
		}
		if w != expected {
			t.Errorf("Record %d weight %v, expected %v", i, w, expected)
		}
	}
}

func TestResolveRelative(t *testing.T) {
	if v := resolveRelative(-0.5, 4); v != 2 {
		t.Errorf("Expected 2, got %v", v)
	}
	if v := resolveRelative(0.5, 4); v != 0.5 {
		t.Errorf("Absolute value changed to %v", v)
	}
}

func TestRelativeMarginCountsNearMisses(t *testing.T) {
	var stats []EpochStats
	p := &KernelPerceptron{
		Kernel:     kernel.Linear(),
		Iterations: 5,
		Margin:     -0.1,
		OnEpoch:    func(s EpochStats, _ Model) { stats = append(stats, s) },
	}
	if _, err := p.Train(pairsData(), "positive"); err != nil {
		t.Fatal(err)
	}
	// R = sqrt(2), so the margin is ~0.14 and the first positive at score 1 passes
	if stats[0].Positive != 0 {
		t.Errorf("Unexpected positive update in first epoch %+v", stats[0])
	}
}

func TestQuantizedRejectsOutOfRange(t *testing.T) {
	d := newTestData(1).add("positive", 300)
	p := &KernelPerceptron{Kernel: kernel.NewQuantized(255, 1), Iterations: 1}
	if _, err := p.Train(d, "positive"); !errors.Is(err, kernel.ErrOutOfRange) {
		t.Errorf("Expected out of range error, got %v", err)
	}
}

func TestKernelHeldout(t *testing.T) {
	var last EpochStats
	p := &KernelPerceptron{
		Kernel:     kernel.NewQuantized(1, 2),
		Iterations: 10,
		Heldout:    pairsData(),
		OnEpoch:    func(s EpochStats, _ Model) { last = s },
	}
	if _, err := p.Train(pairsData(), "positive"); err != nil {
		t.Fatal(err)
	}
	if last.HeldoutTotal != 6 || last.HeldoutAccuracy() != 1 {
		t.Errorf("Expected perfect held-out accuracy, got %d of %d", last.HeldoutCorrect, last.HeldoutTotal)
	}
	bad := newTestData(3).add("positive", 1, 0, 0)
	p.Heldout = bad
	if _, err := p.Train(pairsData(), "positive"); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Expected held-out dimension mismatch, got %v", err)
	}
}
