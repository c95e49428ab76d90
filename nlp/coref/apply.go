package coref

import (
	"fmt"
	"runtime"
	"sync"

	"coref/alg/graph"
	"coref/alg/kernel"
	"coref/alg/perceptron"

	"golang.org/x/sync/errgroup"
)

// Applier scores pairs with a trained model and closes the accepted ones into
// per-document clusters.
type Applier struct {
	Model     perceptron.Model
	Threshold float64
	Positive  string
	Negative  string
	Workers   int
}

func (a *Applier) labels() (string, string) {
	pos, neg := a.Positive, a.Negative
	if pos == "" {
		pos = DefaultPositive
	}
	if neg == "" {
		neg = DefaultNegative
	}
	return pos, neg
}

func (a *Applier) workers() int {
	if a.Workers > 0 {
		return a.Workers
	}
	return runtime.NumCPU()
}

// valueValidator returns the value check of a kernel model whose kernel only
// accepts a restricted feature domain, or nil.
func valueValidator(m perceptron.Model) kernel.Validator {
	var km *perceptron.KernelModel
	switch model := m.(type) {
	case *perceptron.KernelModel:
		km = model
	case perceptron.Voted:
		km = model.KernelModel
	}
	if km == nil {
		return nil
	}
	v, _ := km.Kernel.(kernel.Validator)
	return v
}

func validateRecords(m perceptron.Model, records []*Record) error {
	v := valueValidator(m)
	if v == nil {
		return nil
	}
	for _, r := range records {
		if err := v.Validate(r.Features); err != nil {
			return fmt.Errorf("record %v: %w", r, err)
		}
	}
	return nil
}

// ApplyDocument scores the records of one document, fills their Score and Predicted
// slots and returns the forest built from the accepted pairs.
func (a *Applier) ApplyDocument(records []*Record) (*graph.DisjointSet, error) {
	if err := validateRecords(a.Model, records); err != nil {
		return nil, err
	}
	pos, neg := a.labels()
	for _, r := range records {
		r.Score = a.Model.Score(r.Features)
		if r.Score > a.Threshold {
			r.Predicted = pos
		} else {
			r.Predicted = neg
		}
	}
	return BuildForest(records, func(r *Record) bool { return r.Predicted == pos })
}

// Apply runs ApplyDocument over every document of ds, documents in parallel.
func (a *Applier) Apply(ds *Dataset) (map[string]Partition, error) {
	if a.Model.Dim() != ds.Dim() {
		return nil, fmt.Errorf("%w: model has %d features, data has %d", ErrDimensionMismatch, a.Model.Dim(), ds.Dim())
	}
	if err := validateRecords(a.Model, ds.Records); err != nil {
		return nil, err
	}
	var (
		mu         sync.Mutex
		partitions = make(map[string]Partition)
		g          errgroup.Group
	)
	g.SetLimit(a.workers())
	for _, doc := range ds.Documents() {
		records := ds.DocumentRecords(doc)
		id := doc.ID
		g.Go(func() error {
			forest, err := a.ApplyDocument(records)
			if err != nil {
				return fmt.Errorf("document %s: %w", id, err)
			}
			p := ForestPartition(records, forest)
			mu.Lock()
			partitions[id] = p
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return partitions, nil
}

// Classify labels every record with the best scoring class of a one-vs-rest model set.
func Classify(ds *Dataset, models map[string]perceptron.Model, classes []string) error {
	for class, m := range models {
		if m.Dim() != ds.Dim() {
			return fmt.Errorf("%w: model of class %s has %d features, data has %d", ErrDimensionMismatch, class, m.Dim(), ds.Dim())
		}
		if err := validateRecords(m, ds.Records); err != nil {
			return fmt.Errorf("model of class %s: %w", class, err)
		}
	}
	for _, r := range ds.Records {
		r.Predicted, r.Score = perceptron.Classify(models, classes, r.Features)
	}
	return nil
}

// Partitions closes the pairs predicted positive of every document of ds.
func Partitions(ds *Dataset, positive string) (map[string]Partition, error) {
	partitions := make(map[string]Partition)
	for _, doc := range ds.Documents() {
		p, err := PredictedPartition(ds.DocumentRecords(doc), positive)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", doc.ID, err)
		}
		partitions[doc.ID] = p
	}
	return partitions, nil
}
