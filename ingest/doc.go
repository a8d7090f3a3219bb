// Package ingest turns a human-readable vector corpus into fixed-dimension
// float32 vectors. It covers loading the file into a single buffer, splitting
// the buffer into non-blank line spans, sniffing the dimensionality from the
// first line and parsing every line into a caller supplied vector slot.
package ingest
