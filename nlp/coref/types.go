// Package coref holds the mention-pair data model and turns pairwise decisions into
// per-document coreference partitions.
package coref

import (
	"errors"
	"fmt"

	"coref/alg/featurevector"
	"coref/alg/perceptron"
	"coref/util"
)

const (
	DefaultPositive = "positive"
	DefaultNegative = "negative"
)

var (
	ErrNotContiguous     = errors.New("records of a document are not contiguous")
	ErrNegativeMention   = errors.New("negative mention id")
	ErrDimensionMismatch = perceptron.ErrDimensionMismatch
)

// Record is one candidate mention pair. Class is "" when the gold label is missing.
// Weight and Predicted are written by training and applying.
type Record struct {
	Doc       string
	ID1, ID2  int
	Class     string
	Features  featurevector.Vector
	Weight    float64
	Predicted string
	Score     float64
}

func NewRecord(doc string, id1, id2 int, class string, features featurevector.Vector) *Record {
	return &Record{Doc: doc, ID1: id1, ID2: id2, Class: class, Features: features, Weight: 1}
}

func (r *Record) String() string {
	return fmt.Sprintf("%s:(%d,%d)", r.Doc, r.ID1, r.ID2)
}

// Dataset is an ordered list of records sharing one feature schema, with the records
// of every document contiguous.
type Dataset struct {
	Schema  []string
	Records []*Record
	Classes *util.EnumSet
}

var (
	_ perceptron.Instances = &Dataset{}
	_ perceptron.Spanner   = &Dataset{}
)

func NewDataset(schema []string) *Dataset {
	return &Dataset{Schema: schema, Classes: util.NewEnumSet(2)}
}

func (d *Dataset) Add(r *Record) {
	if r.Class != "" {
		d.Classes.Add(r.Class)
	}
	d.Records = append(d.Records, r)
}

func (d *Dataset) Len() int {
	return len(d.Records)
}

func (d *Dataset) Dim() int {
	return len(d.Schema)
}

func (d *Dataset) Features(i int) featurevector.Vector {
	return d.Records[i].Features
}

func (d *Dataset) Label(i int) string {
	return d.Records[i].Class
}

func (d *Dataset) Weight(i int) float64 {
	return d.Records[i].Weight
}

func (d *Dataset) SetWeight(i int, w float64) {
	d.Records[i].Weight = w
}

// ResetWeights sets the weight of every record.
func (d *Dataset) ResetWeights(w float64) {
	for _, r := range d.Records {
		r.Weight = w
	}
}

// Document is the span [Start, End) of the records of one document.
type Document struct {
	ID         string
	Start, End int
}

func (d *Dataset) Documents() []Document {
	var docs []Document
	for i, r := range d.Records {
		if len(docs) == 0 || docs[len(docs)-1].ID != r.Doc {
			docs = append(docs, Document{ID: r.Doc, Start: i, End: i + 1})
			continue
		}
		docs[len(docs)-1].End = i + 1
	}
	return docs
}

func (d *Dataset) DocumentRecords(doc Document) []*Record {
	return d.Records[doc.Start:doc.End]
}

func (d *Dataset) Spans() [][2]int {
	docs := d.Documents()
	spans := make([][2]int, len(docs))
	for i, doc := range docs {
		spans[i] = [2]int{doc.Start, doc.End}
	}
	return spans
}

// Validate checks document contiguity, feature counts and mention ids.
func (d *Dataset) Validate() error {
	seen := make(map[string]bool)
	for _, doc := range d.Documents() {
		if seen[doc.ID] {
			return fmt.Errorf("%w: document %s reappears at record %d", ErrNotContiguous, doc.ID, doc.Start)
		}
		seen[doc.ID] = true
	}
	for i, r := range d.Records {
		if len(r.Features) != len(d.Schema) {
			return fmt.Errorf("%w: record %d (%v) has %d features, schema has %d", ErrDimensionMismatch, i, r, len(r.Features), len(d.Schema))
		}
		if r.ID1 < 0 || r.ID2 < 0 {
			return fmt.Errorf("%w: record %d (%v)", ErrNegativeMention, i, r)
		}
	}
	return nil
}
