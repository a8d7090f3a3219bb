package ktree

import "github.com/viant/ktree/index"

// Object is a vector stored in the tree.
type Object struct {
	Vector []float32
}

// NewObject returns a zeroed object of the tree's dimensionality backed by alloc.
func (t *Tree) NewObject(alloc *Allocator) *Object {
	return &Object{Vector: alloc.Float32s(t.dims)}
}

var _ index.Builder[*Allocator, *Object] = (*Tree)(nil)

// Factory adapts New to index.Factory.
func Factory(opts ...Option) index.Factory[*Allocator, *Object] {
	return func(alloc *Allocator, order, dims int) (index.Builder[*Allocator, *Object], error) {
		tree, err := New(alloc, order, dims, opts...)
		if err != nil {
			return nil, err
		}
		return tree, nil
	}
}
