// Package featurevector holds the dense feature vectors of mention pairs and the
// blas-backed arithmetic the perceptrons run on them.
package featurevector

import (
	"math"

	"gonum.org/v1/gonum/blas/blas64"
)

// Vector is the ordered, fixed-length list of feature values of a pair record.
type Vector []float64

func (v Vector) blas() blas64.Vector {
	return blas64.Vector{N: len(v), Inc: 1, Data: v}
}

func (v Vector) Len() int {
	return len(v)
}

// Dot is the plain inner product; lengths must match.
func (v Vector) Dot(other Vector) float64 {
	if len(v) != len(other) {
		panic("featurevector: dot of vectors with different lengths")
	}
	if len(v) == 0 {
		return 0
	}
	return blas64.Dot(v.blas(), other.blas())
}

// AddScaled performs v += alpha * other in place.
func (v Vector) AddScaled(alpha float64, other Vector) {
	if len(v) != len(other) {
		panic("featurevector: axpy of vectors with different lengths")
	}
	if len(v) == 0 {
		return
	}
	blas64.Axpy(alpha, other.blas(), v.blas())
}

// Scale multiplies every value by alpha in place.
func (v Vector) Scale(alpha float64) {
	if len(v) == 0 {
		return
	}
	blas64.Scal(alpha, v.blas())
}

func (v Vector) Norm() float64 {
	if len(v) == 0 {
		return 0
	}
	return blas64.Nrm2(v.blas())
}

func (v Vector) Copy() Vector {
	retval := make(Vector, len(v))
	copy(retval, v)
	return retval
}

func (v Vector) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Equal compares values bit for bit, so NaN never equals itself.
func (v Vector) Equal(other Vector) bool {
	if len(v) != len(other) {
		return false
	}
	for i, x := range v {
		if math.Float64bits(x) != math.Float64bits(other[i]) {
			return false
		}
	}
	return true
}

func Zeros(n int) Vector {
	return make(Vector, n)
}
