// Package eval scores coreference output: pairwise decisions against gold labels and
// predicted partitions against gold partitions (MUC, B-cubed).
//
// Every ratio with a zero denominator is 0, and so is an F1 whose precision and
// recall are both 0.
package eval

import "coref/util"

func Precision(truePositives, testPositives int) float64 {
	return util.SafeDiv(float64(truePositives), float64(testPositives))
}

func Recall(truePositives, conditionPositives int) float64 {
	return util.SafeDiv(float64(truePositives), float64(conditionPositives))
}

func F1(precision, recall float64) float64 {
	return util.SafeDiv(2.0*(precision*recall), precision+recall)
}

// Result counts pairwise decisions.
type Result struct {
	TP, FP, TN, FN int
}

func (r *Result) All() int {
	return r.TP + r.FP + r.TN + r.FN
}

func (r *Result) Correct() int {
	return r.TP + r.TN
}

func (r *Result) Incorrect() int {
	return r.FP + r.FN
}

func (r *Result) TestPositives() int {
	return r.TP + r.FP
}

func (r *Result) TestNegatives() int {
	return r.TN + r.FN
}

func (r *Result) ConditionPositives() int {
	return r.TP + r.FN
}

func (r *Result) ConditionNegatives() int {
	return r.TN + r.FP
}

func (r *Result) Precision() float64 {
	return Precision(r.TP, r.TestPositives())
}

func (r *Result) Recall() float64 {
	return Recall(r.TP, r.ConditionPositives())
}

func (r *Result) Accuracy() float64 {
	return util.SafeDiv(float64(r.Correct()), float64(r.All()))
}

func (r *Result) F1() float64 {
	return F1(r.Precision(), r.Recall())
}

// Add counts one decision.
func (r *Result) Add(predicted, gold bool) {
	switch {
	case predicted && gold:
		r.TP++
	case predicted:
		r.FP++
	case gold:
		r.FN++
	default:
		r.TN++
	}
}

// Total sums per-document results; Exact counts documents without a wrong decision.
type Total struct {
	Result
	Results           []*Result
	Exact, Population int
}

func (t *Total) Add(r *Result) {
	t.TP += r.TP
	t.FP += r.FP
	t.TN += r.TN
	t.FN += r.FN
	if r.Incorrect() == 0 {
		t.Exact += 1
	}
	t.Population += 1
	if t.Results != nil {
		t.Results = append(t.Results, r)
	}
}

func (t *Total) ExactMatch() float64 {
	return util.SafeDiv(float64(t.Exact), float64(t.Population))
}
