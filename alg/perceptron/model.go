package perceptron

import (
	"coref/alg/featurevector"
	"coref/alg/kernel"
	"coref/util"
)

// Correction records one training mistake: the model moved by the kernel expansion
// of training record Index, towards the positive class when Sign > 0.
type Correction struct {
	Index int
	Sign  int8
}

// KernelModel is the kernel expansion built by KernelPerceptron: the zero-vector
// baseline plus the weighted sum of kernel evaluations against the support vector of
// every correction, in correction order.
type KernelModel struct {
	Kernel         kernel.Kernel
	Dimension      int
	Class          string
	Support        []featurevector.Vector
	Corrections    []Correction
	Votes          []int
	PositiveWeight float64
	NegativeWeight float64
}

var _ Model = &KernelModel{}

func NewKernelModel(k kernel.Kernel, dim int, class string, posWeight, negWeight float64) *KernelModel {
	return &KernelModel{
		Kernel:         k,
		Dimension:      dim,
		Class:          class,
		Votes:          []int{0},
		PositiveWeight: posWeight,
		NegativeWeight: negWeight,
	}
}

func (m *KernelModel) amount(i int) float64 {
	if m.Corrections[i].Sign > 0 {
		return m.PositiveWeight
	}
	return -m.NegativeWeight
}

func (m *KernelModel) add(index int, sign int8, x featurevector.Vector) {
	m.Corrections = append(m.Corrections, Correction{index, sign})
	m.Support = append(m.Support, x)
	m.Votes = append(m.Votes, 1)
}

func (m *KernelModel) Len() int {
	return len(m.Corrections)
}

func (m *KernelModel) Dim() int {
	return m.Dimension
}

// Score evaluates the full expansion from scratch.
func (m *KernelModel) Score(x featurevector.Vector) float64 {
	memo := NewMemo()
	return m.ScoreMemo(len(m.Corrections), x, &memo)
}

// Snapshot shares the current corrections without letting later appends show through.
func (m *KernelModel) Snapshot() *KernelModel {
	n := len(m.Corrections)
	snap := *m
	snap.Corrections = m.Corrections[:n:n]
	snap.Support = m.Support[:n:n]
	snap.Votes = make([]int, len(m.Votes))
	copy(snap.Votes, m.Votes)
	return &snap
}

// Voted scores with the voted perceptron: every intermediate perceptron votes with the
// sign of its score, weighted by the number of examples it survived during training.
type Voted struct {
	*KernelModel
}

func (v Voted) Score(x featurevector.Vector) float64 {
	m := v.KernelModel
	if len(m.Votes) != len(m.Corrections)+1 {
		return m.Score(x)
	}
	var (
		score = m.Kernel.Zero(x)
		vote  float64
	)
	for k := 0; k <= len(m.Corrections); k++ {
		if k > 0 {
			score += m.amount(k-1) * m.Kernel.Eval(m.Support[k-1], x)
		}
		if m.Votes[k] > 0 {
			vote += float64(m.Votes[k]) * util.SignFloat(score)
		}
	}
	return vote
}

// LinearModel scores <Weights, x>/Scale - Threshold. A trained model's threshold is
// the negated bias.
type LinearModel struct {
	Weights   featurevector.Vector
	Threshold float64
	Scale     float64
}

var _ Model = &LinearModel{}

func linearScore(w, x featurevector.Vector, scale, threshold float64) float64 {
	return w.Dot(x)/scale - threshold
}

func (m *LinearModel) Score(x featurevector.Vector) float64 {
	return linearScore(m.Weights, x, m.scale(), m.Threshold)
}

func (m *LinearModel) Dim() int {
	return len(m.Weights)
}

func (m *LinearModel) scale() float64 {
	if m.Scale == 0 {
		return 1
	}
	return m.Scale
}
