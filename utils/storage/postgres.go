package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore persists chain documents in a Postgres table. Bodies are
// stored as jsonb so operators can query inside documents directly.
type PostgresStore struct {
	db *sql.DB
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS chain_documents (
    name        TEXT PRIMARY KEY,
    body        JSONB NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// NewPostgresStore opens a connection with the given URL and ensures the
// documents table exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating chain_documents table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM chain_documents ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning document name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return names, nil
}

func (s *PostgresStore) Load(ctx context.Context, name string) (*Document, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM chain_documents WHERE name = $1`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loading %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", name, err)
	}
	return &Document{Name: name, Body: body}, nil
}

func (s *PostgresStore) Save(ctx context.Context, doc *Document) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO chain_documents (name, body, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = now()`,
		doc.Name, doc.Body)
	if err != nil {
		return fmt.Errorf("saving %q: %w", doc.Name, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM chain_documents WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("deleting %q: %w", name, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
