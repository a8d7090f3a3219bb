package vector

import "context"

// Record is one ingested vector keyed by its 1-based position in the input.
type Record struct {
	Ordinal   int
	Embedding []float32
}

// Match is a catalog hit with its distance to the query.
type Match struct {
	Record
	Distance   float64
	Similarity float64
}

// Catalog persists ingested vectors alongside the serialized tree so they can
// be inspected with plain SQL.
type Catalog interface {
	// Put inserts or replaces records in one transaction.
	Put(ctx context.Context, records []Record) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Nearest returns up to k records ordered by L2 distance to query. It
	// requires the vec_l2 SQL function to be registered on the driver.
	Nearest(ctx context.Context, query []float32, k int) ([]Match, error)

	// SetMeta records a build attribute (source file, order, dimensions...).
	SetMeta(ctx context.Context, key, value string) error

	// Replace swaps all records and build attributes atomically.
	Replace(ctx context.Context, records []Record, meta map[string]string) error
}
