package index

import "io"

// Builder is the contract the ingestion driver relies on. A is the allocator
// handle threaded through every mutating call and O the vector object type.
type Builder[A any, O any] interface {
	// NewObject returns a writable object of the index dimensionality backed by alloc.
	NewObject(alloc A) O

	// PushBack inserts a filled object. Objects are inserted in the order received.
	PushBack(alloc A, obj O) error

	// Depth reports the number of levels, leaves included.
	Depth() int

	// WriteTo streams the serialized index.
	io.WriterTo
}

// Factory constructs an empty index for the given order (branching factor)
// and dimensionality.
type Factory[A any, O any] func(alloc A, order, dims int) (Builder[A, O], error)
