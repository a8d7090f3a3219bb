package ktree

import (
	"bytes"
	"fmt"
	"math"
)

// ObjectSelfTest checks object allocation and the distance metrics.
func ObjectSelfTest() error {
	alloc := NewAllocator(8)
	tree, err := New(alloc, 4, 3)
	if err != nil {
		return err
	}
	a, b := tree.NewObject(alloc), tree.NewObject(alloc)
	if len(a.Vector) != 3 || cap(a.Vector) != 3 {
		return fmt.Errorf("ktree: object has len %d cap %d, want 3", len(a.Vector), cap(a.Vector))
	}
	copy(a.Vector, []float32{0, 0, 0})
	copy(b.Vector, []float32{3, 4, 0})
	if a.Vector[0] != 0 || b.Vector[1] != 4 {
		return fmt.Errorf("ktree: objects share storage")
	}
	if d := EuclideanDistance(a.Vector, b.Vector); math.Abs(float64(d)-5) > 1e-5 {
		return fmt.Errorf("ktree: euclidean distance %v, want 5", d)
	}
	if d := CosineDistance(b.Vector, b.Vector); math.Abs(float64(d)) > 1e-5 {
		return fmt.Errorf("ktree: cosine distance to self %v, want 0", d)
	}
	if stats := alloc.Stats(); stats.Allocs != 2 || stats.FloatsUsed != 6 {
		return fmt.Errorf("ktree: allocator stats %+v", stats)
	}
	return nil
}

// TreeSelfTest builds a small tree on a grid of points, checks its invariants
// and round-trips it through the serializer.
func TreeSelfTest() error {
	alloc := NewAllocator(0)
	tree, err := New(alloc, 3, 2)
	if err != nil {
		return err
	}
	const side = 10
	for i := 0; i < side*side; i++ {
		obj := tree.NewObject(alloc)
		obj.Vector[0] = float32(i % side)
		obj.Vector[1] = float32(i / side)
		if err := tree.PushBack(alloc, obj); err != nil {
			return err
		}
	}
	if tree.Len() != side*side {
		return fmt.Errorf("ktree: len %d, want %d", tree.Len(), side*side)
	}
	if tree.Depth() < 2 {
		return fmt.Errorf("ktree: depth %d after %d inserts at order 3", tree.Depth(), side*side)
	}
	if err := tree.Validate(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := tree.WriteTo(&buf); err != nil {
		return err
	}
	decoded, err := Read(&buf, NewAllocator(0))
	if err != nil {
		return err
	}
	if decoded.Len() != tree.Len() || decoded.Depth() != tree.Depth() {
		return fmt.Errorf("ktree: decoded len %d depth %d, want %d %d", decoded.Len(), decoded.Depth(), tree.Len(), tree.Depth())
	}
	if err := decoded.Validate(); err != nil {
		return fmt.Errorf("ktree: decoded tree: %w", err)
	}
	return nil
}
