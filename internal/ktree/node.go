package ktree

// entry is one slot of a node. In a leaf it carries an object and its vector;
// in an internal node it carries a child and the mean of every vector below it.
type entry struct {
	vector []float32
	count  int
	child  *node
	object *Object
}

type node struct {
	leaf    bool
	entries []entry
}

// maxInitialEntries caps the up-front capacity of a node; large orders grow on demand.
const maxInitialEntries = 64

func newNode(leaf bool, order int) *node {
	return &node{leaf: leaf, entries: make([]entry, 0, min(order+1, maxInitialEntries))}
}

// centroid writes the count-weighted mean of n's entries into dst and returns the total count.
func (n *node) centroid(dst []float32) int {
	for i := range dst {
		dst[i] = 0
	}
	total := 0
	for i := range n.entries {
		e := &n.entries[i]
		w := float32(e.count)
		for d, v := range e.vector {
			dst[d] += v * w
		}
		total += e.count
	}
	if total > 0 {
		scale := 1 / float32(total)
		for d := range dst {
			dst[d] *= scale
		}
	}
	return total
}
