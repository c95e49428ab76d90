package coref

import (
	"fmt"

	"coref/alg/graph"
	"coref/eval"
	"coref/util"
)

type Partition = eval.Partition

func maxMention(records []*Record) (int, error) {
	max := -1
	for _, r := range records {
		if r.ID1 < 0 || r.ID2 < 0 {
			return 0, fmt.Errorf("%w: %v", ErrNegativeMention, r)
		}
		max = util.Max(max, util.Max(r.ID1, r.ID2))
	}
	return max, nil
}

// BuildForest unions the mentions of every accepted record of one document in a fresh
// forest over 0..max mention id.
func BuildForest(records []*Record, accept func(*Record) bool) (*graph.DisjointSet, error) {
	max, err := maxMention(records)
	if err != nil {
		return nil, err
	}
	forest := graph.NewDisjointSet(max + 1)
	for _, r := range records {
		if accept(r) {
			forest.Union(r.ID1, r.ID2)
		}
	}
	return forest, nil
}

// ForestPartition maps every mention appearing in records to its root in forest.
func ForestPartition(records []*Record, forest *graph.DisjointSet) Partition {
	p := make(Partition)
	for _, r := range records {
		p[r.ID1] = forest.Find(r.ID1)
		p[r.ID2] = forest.Find(r.ID2)
	}
	return p
}

func BuildPartition(records []*Record, accept func(*Record) bool) (Partition, error) {
	forest, err := BuildForest(records, accept)
	if err != nil {
		return nil, err
	}
	return ForestPartition(records, forest), nil
}

// GoldPartition closes the pairs labeled positive.
func GoldPartition(records []*Record, positive string) (Partition, error) {
	return BuildPartition(records, func(r *Record) bool { return r.Class == positive })
}

// PredictedPartition closes the pairs predicted positive.
func PredictedPartition(records []*Record, positive string) (Partition, error) {
	return BuildPartition(records, func(r *Record) bool { return r.Predicted == positive })
}
