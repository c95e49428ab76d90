package eval

import (
	"math"
	"testing"
)

func partition(clusters ...[]int) Partition {
	p := make(Partition)
	for _, c := range clusters {
		for _, m := range c {
			p[m] = c[0]
		}
	}
	return p
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

func TestIdentity(t *testing.T) {
	keys := []Partition{
		partition([]int{1, 2}, []int{3}, []int{4}),
		partition([]int{0, 5, 7}, []int{1, 2}, []int{3}),
		partition([]int{0, 1, 2, 3, 4}),
	}
	for _, key := range keys {
		for name, metric := range map[string]Metric{"bcubed": BCubed, "muc": MUC} {
			total := &ClusterTotal{}
			total.Add(metric, key, key)
			if total.Precision.Value() != 1 || total.Recall.Value() != 1 || total.F1() != 1 {
				t.Errorf("%s on %v: P/R/F1 %v %v %v", name, key.Clusters(),
					total.Precision.Value(), total.Recall.Value(), total.F1())
			}
		}
	}
}

func TestAllSingletonKey(t *testing.T) {
	key := partition([]int{1}, []int{2}, []int{3})
	responses := []Partition{
		partition([]int{1}, []int{2}, []int{3}),
		partition([]int{1, 2, 3}),
		partition([]int{1, 2}, []int{3}),
	}
	for _, response := range responses {
		p, r := BCubed(key, response)
		if p.Value() != 0 || r.Value() != 0 || p.Den != 0 || r.Den != 0 {
			t.Errorf("B-cubed on singleton key: %+v %+v", p, r)
		}
		p, r = MUC(key, response)
		if r.Num != 0 || r.Den != 0 {
			t.Errorf("MUC recall on singleton key: %+v", r)
		}
		total := &ClusterTotal{}
		total.Add(MUC, key, response)
		if math.IsNaN(total.F1()) || total.F1() != 0 || p.Value() != 0 {
			t.Errorf("MUC on singleton key: precision %v F1 %v", p.Value(), total.F1())
		}
	}
}

func TestBCubedExample(t *testing.T) {
	key := partition([]int{1, 2, 3}, []int{4, 5})
	response := partition([]int{1, 2}, []int{3, 4, 5})
	p, r := BCubed(key, response)
	if !near(p.Num, 11.0/3) || p.Den != 5 {
		t.Errorf("Precision %+v", p)
	}
	if !near(r.Num, 11.0/3) || r.Den != 5 {
		t.Errorf("Recall %+v", r)
	}
}

func TestMUCExample(t *testing.T) {
	key := partition([]int{1, 2, 3}, []int{4, 5})
	response := partition([]int{1, 2}, []int{3, 4, 5})
	p, r := MUC(key, response)
	if p.Num != 2 || p.Den != 3 {
		t.Errorf("Precision %+v", p)
	}
	if r.Num != 2 || r.Den != 3 {
		t.Errorf("Recall %+v", r)
	}
}

func TestMissingMentionsAreSingletons(t *testing.T) {
	key := partition([]int{1, 2, 3})
	response := partition([]int{1, 2})
	p, r := MUC(key, response)
	// key cluster split into {1,2} and {3}
	if r.Num != 1 || r.Den != 2 || p.Num != 1 || p.Den != 1 {
		t.Errorf("MUC %+v %+v", p, r)
	}
	bp, br := BCubed(key, response)
	if bp.Value() != 1 || !near(br.Value(), (2.0/3+2.0/3+1.0/3)/3) {
		t.Errorf("B-cubed %v %v", bp.Value(), br.Value())
	}
}

func TestCorpusAggregation(t *testing.T) {
	total := &ClusterTotal{}
	total.Add(MUC, partition([]int{1, 2, 3}, []int{4, 5}), partition([]int{1, 2}, []int{3, 4, 5}))
	total.Add(MUC, partition([]int{1, 2}), partition([]int{1, 2}))
	total.Add(MUC, Partition{}, Partition{})
	// (2 + 1) / (3 + 1) on both axes
	if total.Precision.Value() != 0.75 || total.Recall.Value() != 0.75 || total.F1() != 0.75 {
		t.Errorf("Unexpected corpus MUC %v %v %v", total.Precision.Value(), total.Recall.Value(), total.F1())
	}
	if total.Documents != 2 {
		t.Errorf("Expected 2 documents with mentions, got %d", total.Documents)
	}
}

func TestClustersAndEquivalent(t *testing.T) {
	p := Partition{4: 9, 1: 9, 2: 2, 7: 9}
	clusters := p.Clusters()
	if len(clusters) != 2 || clusters[0][0] != 1 || len(clusters[0]) != 3 || clusters[1][0] != 2 {
		t.Errorf("Unexpected clusters %v", clusters)
	}
	if !p.Equivalent(Partition{4: 0, 1: 0, 7: 0, 2: 5}) {
		t.Error("Relabeled partition not equivalent")
	}
	if p.Equivalent(Partition{4: 0, 1: 0, 7: 5, 2: 5}) {
		t.Error("Different partition reported equivalent")
	}
}
