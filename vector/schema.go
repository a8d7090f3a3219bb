package vector

import (
	"context"
	"database/sql"
)

const catalogSchema = `
CREATE TABLE IF NOT EXISTS vectors (
    ordinal   INTEGER PRIMARY KEY,
    dims      INTEGER NOT NULL,
    embedding BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS catalog_meta (
    key   TEXT PRIMARY KEY,
    value TEXT
);
`

// EnsureSchema creates the vectors and catalog_meta tables if missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, catalogSchema)
	return err
}
