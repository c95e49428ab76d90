package perceptron

import "coref/alg/featurevector"

// Memo caches the partial score of one record against a growing KernelModel.
// LastRound is the number of corrections already folded into Score; -1 means the
// zero-vector baseline has not been added yet.
type Memo struct {
	LastRound int
	Score     float64
}

func NewMemo() Memo {
	return Memo{LastRound: -1}
}

func NewMemos(n int) []Memo {
	memos := make([]Memo, n)
	for i := range memos {
		memos[i].LastRound = -1
	}
	return memos
}

// ScoreMemo returns the score of x using the first round corrections, only
// evaluating the corrections added since the memo was last updated. The result is
// bit-identical to ScratchScore(round, x).
func (m *KernelModel) ScoreMemo(round int, x featurevector.Vector, memo *Memo) float64 {
	if round > len(m.Corrections) {
		panic("score requested past the last correction")
	}
	if memo.LastRound == -1 || round < memo.LastRound {
		memo.Score = m.Kernel.Zero(x)
		memo.LastRound = 0
	}
	for i := memo.LastRound; i < round; i++ {
		memo.Score += m.amount(i) * m.Kernel.Eval(m.Support[i], x)
	}
	memo.LastRound = round
	return memo.Score
}

// ScratchScore evaluates the first k corrections without a memo.
func (m *KernelModel) ScratchScore(k int, x featurevector.Vector) float64 {
	score := m.Kernel.Zero(x)
	for i := 0; i < k; i++ {
		score += m.amount(i) * m.Kernel.Eval(m.Support[i], x)
	}
	return score
}
