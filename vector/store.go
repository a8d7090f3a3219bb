package vector

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteStore is a Catalog backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a store over db, creating the schema if needed.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("vector: db is nil")
	}
	if err := EnsureSchema(ctx, db); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Put inserts or replaces records in a single transaction.
func (s *SQLiteStore) Put(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := putRecords(ctx, tx, records); err != nil {
		return err
	}
	return tx.Commit()
}

// Replace swaps the whole catalog content for records and meta in one
// transaction; on error the previous content is kept.
func (s *SQLiteStore) Replace(ctx context.Context, records []Record, meta map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"vectors", "catalog_meta"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return err
		}
	}
	if err := putRecords(ctx, tx, records); err != nil {
		return err
	}
	for key, value := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO catalog_meta(key, value) VALUES(?, ?)`, key, value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func putRecords(ctx context.Context, tx *sql.Tx, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO vectors(ordinal, dims, embedding) VALUES(?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if r.Ordinal <= 0 {
			return fmt.Errorf("vector: record ordinal must be positive, got %d", r.Ordinal)
		}
		if len(r.Embedding) == 0 {
			return fmt.Errorf("vector: record %d has no embedding", r.Ordinal)
		}
		if _, err := stmt.ExecContext(ctx, r.Ordinal, len(r.Embedding), EncodeEmbedding(r.Embedding)); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of stored vectors.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vectors`).Scan(&n)
	return n, err
}

// Get loads one record by ordinal; sql.ErrNoRows when absent.
func (s *SQLiteStore) Get(ctx context.Context, ordinal int) (*Record, error) {
	var blob []byte
	if err := s.db.QueryRowContext(ctx, `SELECT embedding FROM vectors WHERE ordinal = ?`, ordinal).Scan(&blob); err != nil {
		return nil, err
	}
	vec, err := DecodeEmbedding(blob)
	if err != nil {
		return nil, err
	}
	return &Record{Ordinal: ordinal, Embedding: vec}, nil
}

// Nearest orders rows with the vec_l2 SQL function and scores the hits in Go.
func (s *SQLiteStore) Nearest(ctx context.Context, query []float32, k int) ([]Match, error) {
	if k <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT ordinal, embedding FROM vectors WHERE dims = ? ORDER BY vec_l2(embedding, ?), ordinal LIMIT ?`,
		len(query), EncodeEmbedding(query), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var m Match
		var blob []byte
		if err := rows.Scan(&m.Ordinal, &blob); err != nil {
			return nil, err
		}
		if m.Embedding, err = DecodeEmbedding(blob); err != nil {
			return nil, err
		}
		if m.Distance, err = L2Distance(query, m.Embedding); err != nil {
			return nil, err
		}
		// zero-magnitude vectors have no direction; leave similarity at 0
		m.Similarity, _ = CosineSimilarity(query, m.Embedding)
		out = append(out, m)
	}
	return out, rows.Err()
}

// SetMeta upserts a catalog_meta entry.
func (s *SQLiteStore) SetMeta(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO catalog_meta(key, value) VALUES(?, ?)`, key, value)
	return err
}

// Meta reads a catalog_meta entry; sql.ErrNoRows when absent.
func (s *SQLiteStore) Meta(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM catalog_meta WHERE key = ?`, key).Scan(&value)
	return value, err
}

var _ Catalog = (*SQLiteStore)(nil)
