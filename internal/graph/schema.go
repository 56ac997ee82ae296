// Package graph provides the SQLite-backed node/edge store with an
// append-only version log and optional FTS5 full-text search.
package graph

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/jera/internal/apperr"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS nodes (
	id         TEXT PRIMARY KEY,
	type       TEXT NOT NULL,
	properties TEXT NOT NULL DEFAULT '{}',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS node_versions (
	node_id    TEXT NOT NULL,
	version    INTEGER NOT NULL,
	status     TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	PRIMARY KEY (node_id, version)
);

CREATE TABLE IF NOT EXISTS edges (
	id         TEXT PRIMARY KEY,
	from_id    TEXT NOT NULL,
	to_id      TEXT NOT NULL,
	type       TEXT NOT NULL,
	properties TEXT NOT NULL DEFAULT '{}',
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_edges_from ON edges(from_id);
CREATE INDEX IF NOT EXISTS idx_edges_to   ON edges(to_id);
CREATE INDEX IF NOT EXISTS idx_versions_node ON node_versions(node_id);
`

// activeJoinSQL joins nodes to their latest version row only. Joining against
// all ACTIVE rows would return duplicate or stale nodes once updates append
// further versions.
const activeJoinSQL = `
	JOIN node_versions v ON v.node_id = n.id
	 AND v.version = (SELECT MAX(version) FROM node_versions WHERE node_id = n.id)
`

// DB wraps a sql.DB with graph store operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("graph: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("graph: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("graph: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("graph: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Ping reports whether the store is reachable. Used by readiness checks.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("graph: ping: %v: %w", err, apperr.ErrUnavailable)
	}
	return nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
