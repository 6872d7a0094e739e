// Package store persists embedding tables in SQLite. Each token is a row in
// the tokens table with its vector as a little-endian float32 BLOB; the
// table's dimensionality lives in table_meta.
package store
