package index

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDimsMismatch is returned when two vectors differ in length.
	ErrDimsMismatch = errors.New("index: vector dims mismatch")
	// ErrZeroVector is returned when cosine similarity is asked of an empty
	// or all-zero vector.
	ErrZeroVector = errors.New("index: zero vector has no direction")
)

// moments holds the float64 sums a single pass over two vectors yields.
type moments struct {
	dot, aa, bb, diff float64
}

func pairMoments(a, b []float32) (moments, error) {
	var m moments
	if len(a) != len(b) {
		return m, fmt.Errorf("%w: %d and %d", ErrDimsMismatch, len(a), len(b))
	}
	for i, x := range a {
		va, vb := float64(x), float64(b[i])
		m.dot += va * vb
		m.aa += va * va
		m.bb += vb * vb
		m.diff += (va - vb) * (va - vb)
	}
	return m, nil
}

// CosineSimilarity returns the cosine of the angle between a and b, in
// [-1, 1]. Sums are kept in float64 so the SQL functions match what a
// caller computing in float64 would see.
func CosineSimilarity(a, b []float32) (float64, error) {
	m, err := pairMoments(a, b)
	if err != nil {
		return 0, err
	}
	if m.aa == 0 || m.bb == 0 {
		return 0, ErrZeroVector
	}
	return m.dot / math.Sqrt(m.aa*m.bb), nil
}

// L2Distance returns the Euclidean distance between a and b.
func L2Distance(a, b []float32) (float64, error) {
	m, err := pairMoments(a, b)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(m.diff), nil
}
