package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jward/scenemap/internal/graph"
)

// Save writes a full graph snapshot, replacing any previous one in the same
// transaction. buildID identifies the build that produced the graph and is
// recorded in the metadata table alongside the save timestamp.
func (s *Store) Save(g *graph.Graph, buildID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Wholesale replacement, reverse-dependency order.
	for _, q := range []string{
		"DELETE FROM edge_labels",
		"DELETE FROM edges",
		"DELETE FROM nodes",
	} {
		if _, err := tx.Exec(q); err != nil {
			return fmt.Errorf("clear snapshot: %w", err)
		}
	}

	nodeStmt, err := tx.Prepare(
		`INSERT INTO nodes (key, kind, display_name, owner_key, method_count, lifecycle, x, y)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare node insert: %w", err)
	}
	defer nodeStmt.Close()

	for _, n := range g.Nodes() {
		if _, err := nodeStmt.Exec(
			n.Key, string(n.Kind), n.DisplayName, n.OwnerKey,
			n.MethodCount, n.Lifecycle, n.Position.X, n.Position.Y,
		); err != nil {
			return fmt.Errorf("insert node %s: %w", n.Key, err)
		}
	}

	labelStmt, err := tx.Prepare(
		"INSERT INTO edge_labels (edge_id, label, occurrences) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare label insert: %w", err)
	}
	defer labelStmt.Close()

	for _, e := range g.Edges() {
		res, err := tx.Exec(
			"INSERT INTO edges (from_key, to_key, kind) VALUES (?, ?, ?)",
			e.FromKey, e.ToKey, string(e.Kind),
		)
		if err != nil {
			return fmt.Errorf("insert edge %s->%s: %w", e.FromKey, e.ToKey, err)
		}
		edgeID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("edge id: %w", err)
		}
		for _, label := range e.Labels() {
			if _, err := labelStmt.Exec(edgeID, label, e.LabelCount(label)); err != nil {
				return fmt.Errorf("insert edge label %q: %w", label, err)
			}
		}
	}

	for key, value := range map[string]string{
		"build_id": buildID,
		"saved_at": time.Now().UTC().Format(time.RFC3339),
	} {
		if _, err := tx.Exec(
			"INSERT INTO metadata (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
			key, value,
		); err != nil {
			return fmt.Errorf("write metadata %s: %w", key, err)
		}
	}

	return tx.Commit()
}

// Counts returns the stored node and edge counts, for post-export checks.
func (s *Store) Counts() (nodes, edges int, err error) {
	if err = s.db.QueryRow("SELECT COUNT(*) FROM nodes").Scan(&nodes); err != nil {
		return 0, 0, fmt.Errorf("count nodes: %w", err)
	}
	if err = s.db.QueryRow("SELECT COUNT(*) FROM edges").Scan(&edges); err != nil {
		return 0, 0, fmt.Errorf("count edges: %w", err)
	}
	return nodes, edges, nil
}

// GetMetadata returns the value stored under key, or "" when absent.
func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get metadata %s: %w", key, err)
	}
	return value, nil
}
