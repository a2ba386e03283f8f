package sqlite

import (
	"context"
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    ord INTEGER PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS postings (
    doc   INTEGER NOT NULL,
    field TEXT    NOT NULL,
    term  TEXT    NOT NULL,
    freq  INTEGER NOT NULL,
    PRIMARY KEY (doc, field, term)
);
CREATE INDEX IF NOT EXISTS postings_term ON postings(term, field);
`

// EnsureSchema creates the index tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
