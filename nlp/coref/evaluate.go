package coref

import (
	"fmt"
	"runtime"

	"coref/eval"

	"golang.org/x/sync/errgroup"
)

type documentScore struct {
	pairs         eval.Result
	key, response Partition
}

func scoreDocument(records []*Record, positive string) (*documentScore, error) {
	s := &documentScore{}
	for _, r := range records {
		if r.Class == "" {
			continue
		}
		s.pairs.Add(r.Predicted == positive, r.Class == positive)
	}
	var err error
	if s.key, err = GoldPartition(records, positive); err != nil {
		return nil, err
	}
	if s.response, err = PredictedPartition(records, positive); err != nil {
		return nil, err
	}
	return s, nil
}

// Evaluate scores the Predicted slots of ds against the gold classes. Documents are
// scored in parallel and summed in dataset order.
func Evaluate(ds *Dataset, positive string, workers int) (*eval.Report, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	docs := ds.Documents()
	scores := make([]*documentScore, len(docs))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			s, err := scoreDocument(ds.DocumentRecords(doc), positive)
			if err != nil {
				return fmt.Errorf("document %s: %w", doc.ID, err)
			}
			scores[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	report := &eval.Report{}
	for _, s := range scores {
		report.AddDocument(&s.pairs, s.key, s.response)
	}
	return report, nil
}

// ApplyAndEvaluate applies the model to ds and scores the result.
func ApplyAndEvaluate(a *Applier, ds *Dataset) (*eval.Report, error) {
	if _, err := a.Apply(ds); err != nil {
		return nil, err
	}
	pos, _ := a.labels()
	return Evaluate(ds, pos, a.workers())
}
