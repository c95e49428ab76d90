package eval

import (
	"math"
	"testing"
)

func TestResult(t *testing.T) {
	r := &Result{}
	r.Add(true, true)
	r.Add(true, false)
	r.Add(false, true)
	r.Add(false, false)
	r.Add(false, false)
	if r.TP != 1 || r.FP != 1 || r.FN != 1 || r.TN != 2 {
		t.Fatalf("Unexpected counts %+v", r)
	}
	if r.Precision() != 0.5 || r.Recall() != 0.5 || r.F1() != 0.5 {
		t.Errorf("Got P/R/F1 %v %v %v", r.Precision(), r.Recall(), r.F1())
	}
	if r.Accuracy() != 0.6 {
		t.Errorf("Expected accuracy 0.6, got %v", r.Accuracy())
	}
}

func TestResultZeroDenominators(t *testing.T) {
	r := &Result{TN: 3}
	if r.Precision() != 0 || r.Recall() != 0 || r.F1() != 0 {
		t.Errorf("Expected zeros, got %v %v %v", r.Precision(), r.Recall(), r.F1())
	}
	empty := &Result{}
	if math.IsNaN(empty.Accuracy()) {
		t.Error("Accuracy of an empty result is NaN")
	}
}

func TestTotal(t *testing.T) {
	total := &Total{Results: make([]*Result, 0, 2)}
	total.Add(&Result{TP: 2, TN: 4})
	total.Add(&Result{TP: 1, FP: 1})
	if total.TP != 3 || total.FP != 1 || total.TN != 4 {
		t.Errorf("Unexpected sums %+v", total.Result)
	}
	if total.Exact != 1 || total.Population != 2 || total.ExactMatch() != 0.5 {
		t.Errorf("Unexpected exact match %d of %d", total.Exact, total.Population)
	}
	if len(total.Results) != 2 {
		t.Errorf("Expected collected results, got %d", len(total.Results))
	}
}
