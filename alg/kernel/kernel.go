// Package kernel evaluates the similarity of two pair feature vectors for the kernel
// perceptron. Every kernel is of the form (1 + <a,b>)^exponent; the quantized kernel
// replaces the products of byte-range values with a precomputed table.
package kernel

import (
	"errors"
	"fmt"
	"math"

	"coref/alg/featurevector"
	"coref/util"
)

var (
	ErrDimensionMismatch = errors.New("feature vector dimensions differ")
	ErrOutOfRange        = errors.New("feature value outside quantized range")
	ErrUnknownKernel     = errors.New("unknown kernel type")
)

// DimensionMismatchError is the panic value of Eval for vectors of different
// lengths. It wraps ErrDimensionMismatch.
type DimensionMismatchError struct {
	A, B int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: %d != %d", ErrDimensionMismatch, e.A, e.B)
}

func (e *DimensionMismatchError) Unwrap() error {
	return ErrDimensionMismatch
}

type Kernel interface {
	// Eval panics with *DimensionMismatchError when len(a) != len(b)
	Eval(a, b featurevector.Vector) float64
	// Zero is Eval against the all-zero vector
	Zero(b featurevector.Vector) float64
	Name() string
	Spec() Spec
}

// Validator is implemented by kernels that only accept a subset of feature values.
type Validator interface {
	Validate(v featurevector.Vector) error
}

func checkDims(a, b featurevector.Vector) {
	if len(a) != len(b) {
		panic(&DimensionMismatchError{len(a), len(b)})
	}
}

func power(base, exponent float64) float64 {
	switch exponent {
	case 1:
		return base
	case 2:
		return base * base
	default:
		return math.Pow(base, exponent)
	}
}

// Polynomial is (1 + <a,b>)^Exponent; exponent 1 is the linear kernel.
type Polynomial struct {
	Exponent float64
}

var _ Kernel = &Polynomial{}

func Linear() *Polynomial {
	return &Polynomial{Exponent: 1}
}

func (p *Polynomial) Eval(a, b featurevector.Vector) float64 {
	checkDims(a, b)
	return power(1+a.Dot(b), p.Exponent)
}

func (p *Polynomial) Zero(b featurevector.Vector) float64 {
	return power(1, p.Exponent)
}

func (p *Polynomial) Name() string {
	if p.Exponent == 1 {
		return "linear"
	}
	return fmt.Sprintf("poly^%v", p.Exponent)
}

func (p *Polynomial) Spec() Spec {
	return Spec{Type: "poly", Exponent: p.Exponent}
}

// Quantized evaluates (1 + Σ table[a[f]][b[f]])^Exponent for features holding integral
// values in [0, Range], with table[i][j] = i*j / Range².
type Quantized struct {
	Range    int
	Exponent float64
	table    [][]float64
}

var _ Kernel = &Quantized{}
var _ Validator = &Quantized{}

func NewQuantized(valueRange int, exponent float64) *Quantized {
	if valueRange <= 0 {
		panic("quantized kernel needs a positive value range")
	}
	q := &Quantized{Range: valueRange, Exponent: exponent}
	norm := float64(valueRange) * float64(valueRange)
	q.table = make([][]float64, valueRange+1)
	for i := range q.table {
		q.table[i] = make([]float64, valueRange+1)
		for j := range q.table[i] {
			q.table[i][j] = float64(i) * float64(j) / norm
		}
	}
	return q
}

func (q *Quantized) Eval(a, b featurevector.Vector) float64 {
	checkDims(a, b)
	var sum float64
	for f, av := range a {
		sum += q.table[int(av)][int(b[f])]
	}
	return power(1+sum, q.Exponent)
}

func (q *Quantized) Zero(b featurevector.Vector) float64 {
	return power(1, q.Exponent)
}

func (q *Quantized) Validate(v featurevector.Vector) error {
	for f, x := range v {
		if x < 0 || x > float64(q.Range) || !util.IsIntegral(x) {
			return fmt.Errorf("%w: feature %d value %v not in [0,%d]", ErrOutOfRange, f, x, q.Range)
		}
	}
	return nil
}

func (q *Quantized) Name() string {
	return fmt.Sprintf("quantized[0,%d]^%v", q.Range, q.Exponent)
}

func (q *Quantized) Spec() Spec {
	return Spec{Type: "quantized", Exponent: q.Exponent, Range: q.Range}
}

// Spec is the serializable description of a kernel.
type Spec struct {
	Type     string
	Exponent float64
	Range    int
}

func FromSpec(s Spec) (Kernel, error) {
	exponent := s.Exponent
	if exponent == 0 {
		exponent = 1
	}
	switch s.Type {
	case "linear":
		return Linear(), nil
	case "poly", "polynomial":
		return &Polynomial{Exponent: exponent}, nil
	case "quantized":
		if s.Range <= 0 {
			return nil, fmt.Errorf("%w: quantized kernel with range %d", ErrUnknownKernel, s.Range)
		}
		return NewQuantized(s.Range, exponent), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKernel, s.Type)
	}
}

// MaxNorm is max over vectors of sqrt(k(v,v)), the radius used to turn relative
// margins into absolute ones.
func MaxNorm(k Kernel, vectors []featurevector.Vector) float64 {
	var r float64
	for _, v := range vectors {
		self := k.Eval(v, v)
		if self < 0 {
			panic(fmt.Sprintf("negative self similarity %v", self))
		}
		if n := math.Sqrt(self); n > r {
			r = n
		}
	}
	return r
}
