// Package store exports a built graph to SQLite as a one-shot snapshot.
// Each save replaces the previous snapshot wholesale — the database mirrors
// the in-memory rebuild-from-scratch model and is never patched
// incrementally.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite access layer for graph snapshots.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates all snapshot tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS nodes (
  key             TEXT PRIMARY KEY,
  kind            TEXT NOT NULL,
  display_name    TEXT NOT NULL,
  owner_key       TEXT,
  method_count    INTEGER DEFAULT 0,
  lifecycle       BOOLEAN DEFAULT FALSE,
  x               REAL,
  y               REAL
);

CREATE TABLE IF NOT EXISTS edges (
  id              INTEGER PRIMARY KEY,
  from_key        TEXT NOT NULL REFERENCES nodes(key),
  to_key          TEXT NOT NULL REFERENCES nodes(key),
  kind            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS edge_labels (
  id              INTEGER PRIMARY KEY,
  edge_id         INTEGER NOT NULL REFERENCES edges(id),
  label           TEXT NOT NULL,
  occurrences     INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS metadata (
  key             TEXT PRIMARY KEY,
  value           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_nodes_kind ON nodes(kind);
CREATE INDEX IF NOT EXISTS idx_edges_from ON edges(from_key);
CREATE INDEX IF NOT EXISTS idx_edges_to ON edges(to_key);
CREATE INDEX IF NOT EXISTS idx_edge_labels_edge ON edge_labels(edge_id);
`
