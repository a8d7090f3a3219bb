// Package index defines the minimal contract between the vector ingestion
// pipeline and a hierarchical vector index: an object factory, ordered
// insertion and streaming serialization, all parameterized by the allocator
// handle the index uses for vector storage.
package index
