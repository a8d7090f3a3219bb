package ktree

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

const (
	// MinOrder and MaxOrder bound the branching factor of a tree.
	MinOrder = 2
	MaxOrder = 1_000_000

	defaultSplitIterations = 16
)

var (
	// ErrInvalidOrder is returned for an order outside [MinOrder, MaxOrder].
	ErrInvalidOrder = errors.New("ktree: order must be between 2 and 1,000,000")
	// ErrInvalidDimensions is returned for a non-positive dimensionality.
	ErrInvalidDimensions = errors.New("ktree: dimensions must be positive")
	// ErrDimensionMismatch is returned when an object does not match the tree dimensionality.
	ErrDimensionMismatch = errors.New("ktree: object dimension mismatch")
)

// Option configures a Tree.
type Option func(*Tree)

// WithDistance selects the metric used to route vectors and seed splits.
// Unknown metrics keep the Euclidean default.
func WithDistance(d DistanceFunction) Option {
	return func(t *Tree) {
		if fn := d.Function(); fn != nil {
			t.distanceName = d
			t.distance = fn
		}
	}
}

// WithSplitIterations caps the 2-means iterations run when a node splits.
func WithSplitIterations(n int) Option {
	return func(t *Tree) {
		if n > 0 {
			t.splitIterations = n
		}
	}
}

// Tree is a k-tree over vectors of a fixed dimensionality.
type Tree struct {
	order           int
	dims            int
	distanceName    DistanceFunction
	distance        DistanceFunc
	splitIterations int
	root            *node
	size            int
	depth           int
	mu              sync.RWMutex
}

// New creates an empty tree of the given order and dimensionality. The
// allocator is the one objects for this tree will be carved from; it is not
// retained.
func New(alloc *Allocator, order, dims int, opts ...Option) (*Tree, error) {
	if alloc == nil {
		return nil, errors.New("ktree: nil allocator")
	}
	if order < MinOrder || order > MaxOrder {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOrder, order)
	}
	if dims <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDimensions, dims)
	}
	t := &Tree{
		order:           order,
		dims:            dims,
		distanceName:    DistanceEuclidean,
		distance:        EuclideanDistance,
		splitIterations: defaultSplitIterations,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Order returns the maximum number of entries per node.
func (t *Tree) Order() int { return t.order }

// Dimensions returns the vector dimensionality.
func (t *Tree) Dimensions() int { return t.dims }

// Distance returns the configured metric.
func (t *Tree) Distance() DistanceFunction { return t.distanceName }

// Len returns the number of inserted objects.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.size
}

// Depth returns the number of levels, leaves included; 0 for an empty tree.
func (t *Tree) Depth() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.depth
}

// PushBack inserts obj. Centroids along the insertion path are refreshed and
// any node overflowing the order is split; a root split adds a level.
func (t *Tree) PushBack(alloc *Allocator, obj *Object) error {
	if alloc == nil {
		return errors.New("ktree: nil allocator")
	}
	if obj == nil || len(obj.Vector) != t.dims {
		got := 0
		if obj != nil {
			got = len(obj.Vector)
		}
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, got, t.dims)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.root == nil {
		t.root = newNode(true, t.order)
		t.depth = 1
	}
	if sibling := t.insert(alloc, t.root, obj); sibling != nil {
		root := newNode(false, t.order)
		root.entries = append(root.entries, t.summary(alloc, t.root), t.summary(alloc, sibling))
		t.root = root
		t.depth++
	}
	t.size++
	return nil
}

// insert adds obj below n and returns the new sibling when n had to split.
func (t *Tree) insert(alloc *Allocator, n *node, obj *Object) *node {
	if n.leaf {
		n.entries = append(n.entries, entry{vector: obj.Vector, count: 1, object: obj})
	} else {
		i := t.nearest(n, obj.Vector)
		e := &n.entries[i]
		sibling := t.insert(alloc, e.child, obj)
		if sibling == nil {
			e.count++
			scale := 1 / float32(e.count)
			for d, v := range obj.Vector {
				e.vector[d] += (v - e.vector[d]) * scale
			}
		} else {
			e.count = e.child.centroid(e.vector)
			n.entries = append(n.entries, t.summary(alloc, sibling))
		}
	}
	if len(n.entries) > t.order {
		return t.split(n)
	}
	return nil
}

// summary builds the parent entry describing child.
func (t *Tree) summary(alloc *Allocator, child *node) entry {
	e := entry{vector: alloc.Float32s(t.dims), child: child}
	e.count = child.centroid(e.vector)
	return e
}

func (t *Tree) nearest(n *node, v []float32) int {
	best, bestDist := 0, float32(math.MaxFloat32)
	for i := range n.entries {
		if d := t.distance(v, n.entries[i].vector); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Objects returns every stored object, leaves visited left to right.
func (t *Tree) Objects() []*Object {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Object, 0, t.size)
	var walk func(n *node)
	walk = func(n *node) {
		for i := range n.entries {
			if n.leaf {
				out = append(out, n.entries[i].object)
			} else {
				walk(n.entries[i].child)
			}
		}
	}
	if t.root != nil {
		walk(t.root)
	}
	return out
}

func (t *Tree) nodeCount() int {
	var count func(n *node) int
	count = func(n *node) int {
		total := 1
		if !n.leaf {
			for i := range n.entries {
				total += count(n.entries[i].child)
			}
		}
		return total
	}
	if t.root == nil {
		return 0
	}
	return count(t.root)
}

// Validate checks the structural invariants: node fill within the order,
// every leaf at the same depth, entry counts matching the objects below them
// and centroids matching their children.
func (t *Tree) Validate() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.root == nil {
		if t.size != 0 || t.depth != 0 {
			return fmt.Errorf("ktree: empty root with size %d depth %d", t.size, t.depth)
		}
		return nil
	}
	scratch := make([]float32, t.dims)
	var check func(n *node, level int) (int, error)
	check = func(n *node, level int) (int, error) {
		if len(n.entries) == 0 || len(n.entries) > t.order {
			return 0, fmt.Errorf("ktree: node at level %d holds %d entries (order %d)", level, len(n.entries), t.order)
		}
		if n.leaf {
			if level != t.depth {
				return 0, fmt.Errorf("ktree: leaf at level %d, depth %d", level, t.depth)
			}
			return len(n.entries), nil
		}
		total := 0
		for i := range n.entries {
			e := &n.entries[i]
			below, err := check(e.child, level+1)
			if err != nil {
				return 0, err
			}
			if below != e.count {
				return 0, fmt.Errorf("ktree: entry count %d, %d objects below", e.count, below)
			}
			e.child.centroid(scratch)
			if drift := EuclideanDistance(scratch, e.vector); drift > 1e-3*(1+magnitude(scratch)) {
				return 0, fmt.Errorf("ktree: centroid drifted by %g at level %d", drift, level)
			}
			total += below
		}
		return total, nil
	}
	total, err := check(t.root, 1)
	if err != nil {
		return err
	}
	if total != t.size {
		return fmt.Errorf("ktree: %d objects reachable, size %d", total, t.size)
	}
	return nil
}

func magnitude(v []float32) float32 {
	var s float64
	for _, x := range v {
		s += float64(x) * float64(x)
	}
	return float32(math.Sqrt(s))
}
