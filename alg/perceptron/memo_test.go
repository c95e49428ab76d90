package perceptron

import (
	"math/rand"
	"testing"

	"coref/alg/featurevector"
	"coref/alg/kernel"
)

func randomModel(r *rand.Rand, k kernel.Kernel, dim, corrections int) *KernelModel {
	m := NewKernelModel(k, dim, "positive", 1.5, 0.5)
	for i := 0; i < corrections; i++ {
		v := make(featurevector.Vector, dim)
		for f := range v {
			v[f] = float64(r.Intn(256))
		}
		sign := int8(1)
		if r.Intn(2) == 0 {
			sign = -1
		}
		m.add(i, sign, v)
	}
	return m
}

func TestMemoEquivalence(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for _, k := range []kernel.Kernel{kernel.NewQuantized(255, 1), kernel.NewQuantized(255, 2)} {
		m := randomModel(r, k, 6, 40)
		for trial := 0; trial < 20; trial++ {
			x := randomModel(r, k, 6, 1).Support[0]
			memo := NewMemo()
			// advance through increasing rounds, checking the prefixes it stops at
			for round := 0; ; {
				got := m.ScoreMemo(round, x, &memo)
				if expected := m.ScratchScore(round, x); got != expected {
					t.Fatalf("%s round %d: memo %v != scratch %v", k.Name(), round, got, expected)
				}
				if memo.LastRound != round {
					t.Fatalf("Memo at round %d, expected %d", memo.LastRound, round)
				}
				if round == m.Len() {
					break
				}
				round += 1 + r.Intn(3)
				if round > m.Len() {
					round = m.Len()
				}
			}
			for n := 0; n <= m.Len(); n++ {
				fresh := NewMemo()
				if got, expected := m.ScoreMemo(n, x, &fresh), m.ScratchScore(n, x); got != expected {
					t.Fatalf("Fresh memo at %d: %v != %v", n, got, expected)
				}
			}
		}
	}
}

func TestMemoSeedsWithZeroBaseline(t *testing.T) {
	m := NewKernelModel(&kernel.Polynomial{Exponent: 2}, 2, "positive", 1, 1)
	memo := NewMemo()
	if s := m.ScoreMemo(0, featurevector.Vector{3, 4}, &memo); s != 1 {
		t.Errorf("Expected baseline 1, got %v", s)
	}
	if memo.LastRound != 0 {
		t.Errorf("Expected round 0, got %d", memo.LastRound)
	}
}

func TestMemoRewinds(t *testing.T) {
	m := randomModel(rand.New(rand.NewSource(3)), kernel.NewQuantized(255, 1), 3, 10)
	x := featurevector.Vector{10, 20, 30}
	memo := NewMemo()
	m.ScoreMemo(10, x, &memo)
	if got, expected := m.ScoreMemo(4, x, &memo), m.ScratchScore(4, x); got != expected {
		t.Errorf("Rewound memo %v != scratch %v", got, expected)
	}
}

func TestNewMemos(t *testing.T) {
	for i, memo := range NewMemos(5) {
		if memo.LastRound != -1 || memo.Score != 0 {
			t.Errorf("Memo %d not fresh: %+v", i, memo)
		}
	}
}
