package perceptron

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"coref/alg/featurevector"
	"coref/alg/kernel"
)

// WriteWeights writes one weight per line followed by the threshold line.
// Values are formatted for an exact round trip.
func WriteWeights(writer io.Writer, m *LinearModel) error {
	bw := bufio.NewWriter(writer)
	for _, v := range m.Weights {
		if _, err := bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64) + "\n"); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString(strconv.FormatFloat(m.Threshold, 'g', -1, 64) + "\n"); err != nil {
		return err
	}
	return bw.Flush()
}

// ReadWeights reads a weight file for dim features. A file of dim+1 lines carries the
// decision threshold in its last line, a file of dim lines uses threshold 0; any other
// length is ErrModelLength.
func ReadWeights(reader io.Reader, dim int, scale float64) (*LinearModel, error) {
	values := make([]float64, 0, dim+1)
	scanner := bufio.NewScanner(reader)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("weight file line %d: %w", lineNum, err)
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	m := &LinearModel{Scale: scale}
	switch len(values) {
	case dim:
		m.Weights = featurevector.Vector(values)
	case dim + 1:
		m.Weights = featurevector.Vector(values[:dim])
		m.Threshold = values[dim]
	default:
		return nil, fmt.Errorf("%w: %d values for %d features", ErrModelLength, len(values), dim)
	}
	return m, nil
}

func WriteWeightsFile(filename string, m *LinearModel) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := WriteWeights(file, m); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func ReadWeightsFile(filename string, dim int, scale float64) (*LinearModel, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadWeights(file, dim, scale)
}

// kernelSerialization is the gob form of a KernelModel.
type kernelSerialization struct {
	Kernel         kernel.Spec
	Dimension      int
	Class          string
	Support        [][]float64
	Corrections    []Correction
	Votes          []int
	PositiveWeight float64
	NegativeWeight float64
}

func WriteKernelModel(writer io.Writer, m *KernelModel) error {
	data := &kernelSerialization{
		Kernel:         m.Kernel.Spec(),
		Dimension:      m.Dimension,
		Class:          m.Class,
		Support:        make([][]float64, len(m.Support)),
		Corrections:    m.Corrections,
		Votes:          m.Votes,
		PositiveWeight: m.PositiveWeight,
		NegativeWeight: m.NegativeWeight,
	}
	for i, v := range m.Support {
		data.Support[i] = v
	}
	return gob.NewEncoder(writer).Encode(data)
}

func ReadKernelModel(reader io.Reader) (*KernelModel, error) {
	data := &kernelSerialization{}
	if err := gob.NewDecoder(reader).Decode(data); err != nil {
		return nil, err
	}
	k, err := kernel.FromSpec(data.Kernel)
	if err != nil {
		return nil, err
	}
	if len(data.Support) != len(data.Corrections) {
		return nil, fmt.Errorf("%w: %d support vectors for %d corrections", ErrModelLength, len(data.Support), len(data.Corrections))
	}
	m := &KernelModel{
		Kernel:         k,
		Dimension:      data.Dimension,
		Class:          data.Class,
		Support:        make([]featurevector.Vector, len(data.Support)),
		Corrections:    data.Corrections,
		Votes:          data.Votes,
		PositiveWeight: data.PositiveWeight,
		NegativeWeight: data.NegativeWeight,
	}
	for i, v := range data.Support {
		if len(v) != m.Dimension {
			return nil, fmt.Errorf("%w: support vector %d has %d features, expected %d", ErrDimensionMismatch, i, len(v), m.Dimension)
		}
		m.Support[i] = v
	}
	return m, nil
}

func WriteKernelModelFile(filename string, m *KernelModel) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := WriteKernelModel(file, m); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func ReadKernelModelFile(filename string) (*KernelModel, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadKernelModel(file)
}
