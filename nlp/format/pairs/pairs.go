// Package pairs reads and writes mention-pair TSV files.
//
// A pair file starts with a header row naming its columns. The doc, id1, id2 and
// class columns are designated, every other column is a numeric feature. A "?"
// feature reads as 0; a "?" or empty class marks a record without a gold label.
package pairs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"coref/alg/featurevector"
	"coref/nlp/coref"
)

const (
	FIELD_SEPARATOR = '\t'
	MISSING         = "?"
)

var ErrMissingColumn = errors.New("missing designated column")

// Columns names the designated columns of a pair file.
type Columns struct {
	Doc, ID1, ID2, Class string
}

var DefaultColumns = Columns{Doc: "doc", ID1: "id1", ID2: "id2", Class: "class"}

type layout struct {
	doc, id1, id2, class int
	features             []int
	schema               []string
}

func newLayout(header []string, cols Columns) (*layout, error) {
	l := &layout{doc: -1, id1: -1, id2: -1, class: -1}
	for i, name := range header {
		switch name {
		case cols.Doc:
			l.doc = i
		case cols.ID1:
			l.id1 = i
		case cols.ID2:
			l.id2 = i
		case cols.Class:
			l.class = i
		default:
			l.features = append(l.features, i)
			l.schema = append(l.schema, name)
		}
	}
	for name, index := range map[string]int{cols.Doc: l.doc, cols.ID1: l.id1, cols.ID2: l.id2} {
		if index < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	return l, nil
}

func ParseID(value string) (int, error) {
	i, err := strconv.ParseInt(value, 10, 0)
	return int(i), err
}

func ParseFeature(value string) (float64, error) {
	if value == MISSING || value == "" {
		return 0, nil
	}
	return strconv.ParseFloat(value, 64)
}

func ParseClass(value string) string {
	if value == MISSING {
		return ""
	}
	return value
}

func (l *layout) parseRow(row []string) (*coref.Record, error) {
	id1, err := ParseID(row[l.id1])
	if err != nil {
		return nil, fmt.Errorf("Error parsing id1 field (%s): %w", row[l.id1], err)
	}
	id2, err := ParseID(row[l.id2])
	if err != nil {
		return nil, fmt.Errorf("Error parsing id2 field (%s): %w", row[l.id2], err)
	}
	features := make(featurevector.Vector, len(l.features))
	for i, col := range l.features {
		if features[i], err = ParseFeature(row[col]); err != nil {
			return nil, fmt.Errorf("Error parsing feature %s (%s): %w", l.schema[i], row[col], err)
		}
	}
	var class string
	if l.class >= 0 {
		class = ParseClass(row[l.class])
	}
	return coref.NewRecord(row[l.doc], id1, id2, class, features), nil
}

func newReader(reader io.Reader) *csv.Reader {
	csvReader := csv.NewReader(reader)
	csvReader.Comma = FIELD_SEPARATOR
	csvReader.LazyQuotes = true
	return csvReader
}

// Read parses a pair file into a dataset and validates it.
func Read(reader io.Reader, cols Columns) (*coref.Dataset, error) {
	csvReader := newReader(reader)
	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("Failure reading header: %w", err)
	}
	l, err := newLayout(header, cols)
	if err != nil {
		return nil, err
	}
	ds := coref.NewDataset(l.schema)
	for i := 1; ; i++ {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("Failure reading delimited file: %w", err)
		}
		record, err := l.parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("Error processing record %d: %w", i, err)
		}
		ds.Add(record)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

func ReadFile(filename string, cols Columns) (*coref.Dataset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file, cols)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// WritePredictions writes one "doc id1 id2 score predicted" row per record.
func WritePredictions(writer io.Writer, records []*coref.Record) error {
	w := csv.NewWriter(writer)
	w.Comma = FIELD_SEPARATOR
	w.Write([]string{"doc", "id1", "id2", "score", "predicted"})
	for _, r := range records {
		w.Write([]string{r.Doc, strconv.Itoa(r.ID1), strconv.Itoa(r.ID2), formatFloat(r.Score), r.Predicted})
	}
	w.Flush()
	return w.Error()
}

// WritePartitions writes one "doc mention cluster" row per mention, documents in the
// given order and mentions ascending.
func WritePartitions(writer io.Writer, docs []string, partitions map[string]coref.Partition) error {
	w := csv.NewWriter(writer)
	w.Comma = FIELD_SEPARATOR
	w.Write([]string{"doc", "mention", "cluster"})
	for _, doc := range docs {
		p := partitions[doc]
		mentions := make([]int, 0, len(p))
		for m := range p {
			mentions = append(mentions, m)
		}
		sort.Ints(mentions)
		for _, m := range mentions {
			w.Write([]string{doc, strconv.Itoa(m), strconv.Itoa(p[m])})
		}
	}
	w.Flush()
	return w.Error()
}

// Prediction is one row of a predictions file.
type Prediction struct {
	Doc       string
	ID1, ID2  int
	Score     float64
	Predicted string
}

func ReadPredictions(reader io.Reader) ([]Prediction, error) {
	csvReader := newReader(reader)
	csvReader.FieldsPerRecord = 5
	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("Failure reading delimited file: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	predictions := make([]Prediction, 0, len(rows)-1)
	for i, row := range rows[1:] {
		var (
			p   = Prediction{Doc: row[0], Predicted: row[4]}
			err error
		)
		if p.ID1, err = ParseID(row[1]); err == nil {
			if p.ID2, err = ParseID(row[2]); err == nil {
				p.Score, err = strconv.ParseFloat(row[3], 64)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("Error processing prediction %d: %w", i+1, err)
		}
		predictions = append(predictions, p)
	}
	return predictions, nil
}

// Merge copies predicted labels and scores into the matching records of ds. Every
// labeled record must have a prediction.
func Merge(ds *coref.Dataset, predictions []Prediction) error {
	type key struct {
		doc      string
		id1, id2 int
	}
	index := make(map[key]Prediction, len(predictions))
	for _, p := range predictions {
		index[key{p.Doc, p.ID1, p.ID2}] = p
	}
	for _, r := range ds.Records {
		p, exists := index[key{r.Doc, r.ID1, r.ID2}]
		if !exists {
			if r.Class == "" {
				continue
			}
			return fmt.Errorf("no prediction for pair %v", r)
		}
		r.Predicted, r.Score = p.Predicted, p.Score
	}
	return nil
}
