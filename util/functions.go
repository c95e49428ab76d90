package util

import (
	"log"
	"math"
	"runtime"
)

func RangeInt(to int) []int {
	retval := make([]int, to)
	for i := 0; i < to; i++ {
		retval[i] = i
	}
	return retval
}

func Max(a, b int) int {
	if a < b {
		return b
	}
	return a
}

// SignFloat is -1, 0 or 1 following the sign of x.
func SignFloat(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// SafeDiv returns 0 instead of NaN or Inf for a zero denominator.
func SafeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// IsIntegral reports whether x holds an integer value.
func IsIntegral(x float64) bool {
	return x == math.Trunc(x) && !math.IsInf(x, 0)
}

func LogMemory() {
	s := &runtime.MemStats{}
	runtime.ReadMemStats(s)
	log.Println("*** Memory Info ***")
	log.Println("Bytes Allocated InUse:\t", s.Alloc)
	log.Println("Mallocs:\t\t", s.Mallocs)
	log.Println("Frees:\t\t\t", s.Frees)
	log.Println("Heap Allocated InUse:\t", s.HeapAlloc)
	log.Println("Heap Objects:\t\t", s.HeapObjects)
	log.Println("*** ***")
}
