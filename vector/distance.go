package vector

import (
	"fmt"
	"math"
)

// moments returns the dot product and squared norms of a and b in float64.
func moments(a, b []float32) (dot, aa, bb float64) {
	for i := range a {
		va, vb := float64(a[i]), float64(b[i])
		dot += va * vb
		aa += va * va
		bb += vb * vb
	}
	return dot, aa, bb
}

// CosineSimilarity returns the cosine of the angle between a and b. Vectors
// of different lengths, empty vectors and zero vectors are rejected.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector: cosine similarity dimension mismatch: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("vector: cosine similarity on empty vectors")
	}
	dot, aa, bb := moments(a, b)
	if aa == 0 || bb == 0 {
		return 0, fmt.Errorf("vector: cosine similarity with zero-magnitude vector")
	}
	return dot / (math.Sqrt(aa) * math.Sqrt(bb)), nil
}

// L2Distance returns the Euclidean distance between a and b.
func L2Distance(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector: L2 distance dimension mismatch: %d vs %d", len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum), nil
}
