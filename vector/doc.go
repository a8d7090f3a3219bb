// Package vector stores ingested vectors in a SQLite catalog. It includes:
//   - Record/Match models and the Catalog interface
//   - SQLiteStore: ordinal-keyed vector rows plus build metadata
//   - Schema helpers for the vectors and catalog_meta tables
//   - Embedding BLOB encoding and distance functions
package vector
