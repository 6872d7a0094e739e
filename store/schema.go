package store

import (
	"context"
	"database/sql"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS tokens (
    pos       INTEGER PRIMARY KEY,
    name      TEXT NOT NULL UNIQUE,
    embedding BLOB
)`,
	`CREATE TABLE IF NOT EXISTS table_meta (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`,
}

const dimsKey = "dims"

// EnsureSchema creates the tokens and table_meta tables if they do not
// already exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, ddl := range schema {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}
