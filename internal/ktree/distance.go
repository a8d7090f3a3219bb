package ktree

import "github.com/viant/vec/search"

// DistanceFunction enumerates supported distance metrics.
type DistanceFunction string

const (
	DistanceEuclidean DistanceFunction = "euclidean"
	DistanceCosine    DistanceFunction = "cosine"
)

// DistanceFunc computes the distance between two vectors of equal length.
type DistanceFunc func(a, b []float32) float32

// Function resolves the callable distance implementation, nil when unknown.
func (d DistanceFunction) Function() DistanceFunc {
	switch d {
	case DistanceEuclidean:
		return EuclideanDistance
	case DistanceCosine:
		return CosineDistance
	default:
		return nil
	}
}

func (d DistanceFunction) code() uint8 {
	if d == DistanceCosine {
		return 1
	}
	return 0
}

func distanceFromCode(c uint8) (DistanceFunction, bool) {
	switch c {
	case 0:
		return DistanceEuclidean, true
	case 1:
		return DistanceCosine, true
	}
	return "", false
}

// EuclideanDistance returns the L2 distance between a and b.
func EuclideanDistance(a, b []float32) float32 {
	return search.Float32s(a).EuclideanDistance(b)
}

// CosineDistance returns 1 - cosine similarity. A zero vector is at distance 1 from everything.
func CosineDistance(a, b []float32) float32 {
	va, vb := search.Float32s(a), search.Float32s(b)
	ma, mb := va.Magnitude(), vb.Magnitude()
	if ma == 0 || mb == 0 {
		return 1
	}
	return va.CosineDistance(b)
}
