package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/viant/wordvec/embedding"
)

// Store keeps one embedding table in a SQLite database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a Store and ensures its schema exists. A nil logger discards
// output.
func New(ctx context.Context, db *sql.DB, logger *slog.Logger) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("store: db is nil")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("store: ensure schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Save replaces the stored table with t in a single transaction. Row order
// follows t's insertion order.
func (s *Store) Save(ctx context.Context, t *embedding.Table) error {
	if err := t.Validate(); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tokens`); err != nil {
		return fmt.Errorf("store: clear tokens: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO table_meta(key, value) VALUES(?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		dimsKey, strconv.Itoa(t.Dims())); err != nil {
		return fmt.Errorf("store: write dims: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO tokens(pos, name, embedding) VALUES(?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	pos := 0
	t.Range(func(name string, vec []float32) bool {
		if _, err = stmt.ExecContext(ctx, pos, name, embedding.EncodeVector(vec)); err != nil {
			err = fmt.Errorf("store: insert %q: %w", name, err)
			return false
		}
		pos++
		return true
	})
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Debug("saved embedding table", "size", pos, "dims", t.Dims())
	return nil
}

// Load reads the stored table back in its saved order. Every BLOB must match
// the stored dimensionality.
func (s *Store) Load(ctx context.Context) (*embedding.Table, error) {
	dims, err := s.Dims(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT name, embedding FROM tokens ORDER BY pos`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	t := embedding.NewTable()
	for rows.Next() {
		var name string
		var blob []byte
		if err := rows.Scan(&name, &blob); err != nil {
			return nil, err
		}
		vec, err := decodeRow(name, blob, dims)
		if err != nil {
			return nil, err
		}
		t.Set(name, vec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	s.logger.Debug("loaded embedding table", "size", t.Len(), "dims", dims)
	return t, nil
}

// Lookup returns the vector stored for name; ok is false when absent.
func (s *Store) Lookup(ctx context.Context, name string) (vec []float32, ok bool, err error) {
	dims, err := s.Dims(ctx)
	if err != nil {
		return nil, false, err
	}
	var blob []byte
	err = s.db.QueryRowContext(ctx, `SELECT embedding FROM tokens WHERE name = ?`, name).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	vec, err = decodeRow(name, blob, dims)
	if err != nil {
		return nil, false, err
	}
	return vec, true, nil
}

// Similarity returns the cosine similarity of two stored tokens, computed in
// SQL by vec_cosine (see engine.Open).
func (s *Store) Similarity(ctx context.Context, a, b string) (float64, error) {
	var sim sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `SELECT vec_cosine(x.embedding, y.embedding)
FROM tokens x, tokens y WHERE x.name = ? AND y.name = ?`, a, b).Scan(&sim)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("store: token %q or %q not found", a, b)
	}
	if err != nil {
		return 0, fmt.Errorf("store: similarity %q/%q: %w", a, b, err)
	}
	if !sim.Valid {
		return 0, fmt.Errorf("store: similarity %q/%q: empty vectors", a, b)
	}
	return sim.Float64, nil
}

// Count returns the number of stored tokens.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM tokens`).Scan(&n)
	return n, err
}

// Dims returns the stored dimensionality, 0 when nothing was saved yet.
func (s *Store) Dims(ctx context.Context) (int, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM table_meta WHERE key = ?`, dimsKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	dims, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("store: invalid dims %q: %w", raw, err)
	}
	return dims, nil
}

func decodeRow(name string, blob []byte, dims int) ([]float32, error) {
	vec, err := embedding.DecodeVector(blob)
	if err != nil {
		return nil, fmt.Errorf("store: token %q: %w", name, err)
	}
	if len(vec) != dims {
		return nil, fmt.Errorf("store: token %q has %d dims, want %d", name, len(vec), dims)
	}
	if vec == nil {
		vec = []float32{}
	}
	return vec, nil
}
