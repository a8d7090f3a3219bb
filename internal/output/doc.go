// Package output writes build artifacts atomically. Data goes to a temporary
// file next to the destination, optionally through a zstd or lz4 stream, and
// only replaces the destination on Commit. An aborted or failed write leaves
// the destination untouched.
package output
