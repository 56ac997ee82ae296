package graph

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/starford/jera/internal/apperr"
)

// CreateNode inserts a node with its first ACTIVE version row.
// Fails with apperr.ErrConflict when the id is already taken.
func (db *DB) CreateNode(id, nodeType string, properties map[string]any) (*Node, error) {
	if id == "" || nodeType == "" {
		return nil, fmt.Errorf("graph: create node: id and type are required: %w", apperr.ErrInvalidArgument)
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("graph: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	var exists int
	if err := tx.QueryRow(`SELECT count(*) FROM nodes WHERE id = ?`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("graph: check node exists: %w", err)
	}
	if exists > 0 {
		return nil, fmt.Errorf("graph: node %s: %w", id, apperr.ErrConflict)
	}

	now := time.Now().UTC()
	propsJSON, err := marshalProps(properties)
	if err != nil {
		return nil, err
	}
	_, err = tx.Exec(`INSERT INTO nodes (id, type, properties, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, nodeType, propsJSON, now, now)
	if err != nil {
		return nil, fmt.Errorf("graph: insert node: %w", err)
	}
	if err := appendVersion(tx, id, StatusActive, now); err != nil {
		return nil, err
	}
	if err := ftsUpsert(tx, id, searchText(properties)); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("graph: commit: %w", err)
	}
	return &Node{ID: id, Type: nodeType, Properties: properties, CreatedAt: now, UpdatedAt: now}, nil
}

// GetNode returns a node by id regardless of its version status.
func (db *DB) GetNode(id string) (*Node, error) {
	row := db.conn.QueryRow(`SELECT id, type, properties, created_at, updated_at FROM nodes WHERE id = ?`, id)
	n, err := scanNode(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("graph: node %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("graph: get node: %w", err)
	}
	return n, nil
}

// ListNodes returns a page of currently active nodes ordered by creation time
// descending, optionally filtered by type.
func (db *DB) ListNodes(nodeType string, limit, offset int) ([]Node, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	q := `SELECT n.id, n.type, n.properties, n.created_at, n.updated_at FROM nodes n` +
		activeJoinSQL + ` WHERE v.status = ?`
	args := []any{StatusActive}
	if nodeType != "" {
		q += ` AND n.type = ?`
		args = append(args, nodeType)
	}
	q += ` ORDER BY n.created_at DESC, n.id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("graph: list nodes: %w", err)
	}
	defer rows.Close()
	return collectNodes(rows)
}

// UpdateNode replaces type and properties and appends a new ACTIVE version.
func (db *DB) UpdateNode(id, nodeType string, properties map[string]any) (*Node, error) {
	if nodeType == "" {
		return nil, fmt.Errorf("graph: update node: type is required: %w", apperr.ErrInvalidArgument)
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("graph: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var createdAt time.Time
	err = tx.QueryRow(`SELECT created_at FROM nodes WHERE id = ?`, id).Scan(&createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("graph: node %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("graph: check node: %w", err)
	}

	now := time.Now().UTC()
	propsJSON, err := marshalProps(properties)
	if err != nil {
		return nil, err
	}
	_, err = tx.Exec(`UPDATE nodes SET type = ?, properties = ?, updated_at = ? WHERE id = ?`,
		nodeType, propsJSON, now, id)
	if err != nil {
		return nil, fmt.Errorf("graph: update node: %w", err)
	}
	if err := appendVersion(tx, id, StatusActive, now); err != nil {
		return nil, err
	}
	if err := ftsUpsert(tx, id, searchText(properties)); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("graph: commit: %w", err)
	}
	return &Node{ID: id, Type: nodeType, Properties: properties, CreatedAt: createdAt, UpdatedAt: now}, nil
}

// DeleteNode appends a DELETED version row. Deleting an already-deleted node
// appends another row and succeeds; a node that never existed is NotFound.
func (db *DB) DeleteNode(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("graph: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var exists int
	if err := tx.QueryRow(`SELECT count(*) FROM nodes WHERE id = ?`, id).Scan(&exists); err != nil {
		return fmt.Errorf("graph: check node exists: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("graph: node %s: %w", id, apperr.ErrNotFound)
	}
	if err := appendVersion(tx, id, StatusDeleted, time.Now().UTC()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("graph: commit: %w", err)
	}
	return nil
}

// Versions returns the full version log for a node, oldest first.
func (db *DB) Versions(nodeID string) ([]VersionRow, error) {
	rows, err := db.conn.Query(
		`SELECT node_id, version, status, created_at FROM node_versions WHERE node_id = ? ORDER BY version`, nodeID)
	if err != nil {
		return nil, fmt.Errorf("graph: versions: %w", err)
	}
	defer rows.Close()

	var out []VersionRow
	for rows.Next() {
		var v VersionRow
		if err := rows.Scan(&v.NodeID, &v.Version, &v.Status, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// CreateEdge inserts a directed edge with a store-assigned id.
// Both endpoints must exist.
func (db *DB) CreateEdge(fromID, toID, edgeType string, properties map[string]any) (*Edge, error) {
	if fromID == "" || toID == "" || edgeType == "" {
		return nil, fmt.Errorf("graph: create edge: from, to and type are required: %w", apperr.ErrInvalidArgument)
	}
	var endpoints int
	err := db.conn.QueryRow(`SELECT count(*) FROM nodes WHERE id IN (?, ?)`, fromID, toID).Scan(&endpoints)
	if err != nil {
		return nil, fmt.Errorf("graph: check endpoints: %w", err)
	}
	want := 2
	if fromID == toID {
		want = 1
	}
	if endpoints < want {
		return nil, fmt.Errorf("graph: edge endpoints %s -> %s: %w", fromID, toID, apperr.ErrNotFound)
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	propsJSON, err := marshalProps(properties)
	if err != nil {
		return nil, err
	}
	_, err = db.conn.Exec(`INSERT INTO edges (id, from_id, to_id, type, properties, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, fromID, toID, edgeType, propsJSON, now)
	if err != nil {
		return nil, fmt.Errorf("graph: insert edge: %w", err)
	}
	return &Edge{ID: id, FromID: fromID, ToID: toID, Type: edgeType, Properties: properties, CreatedAt: now}, nil
}

// ListEdges returns edges matching the given filters (all optional),
// ordered by creation time.
func (db *DB) ListEdges(fromID, toID, edgeType string) ([]Edge, error) {
	q := `SELECT id, from_id, to_id, type, properties, created_at FROM edges WHERE 1=1`
	var args []any
	if fromID != "" {
		q += ` AND from_id = ?`
		args = append(args, fromID)
	}
	if toID != "" {
		q += ` AND to_id = ?`
		args = append(args, toID)
	}
	if edgeType != "" {
		q += ` AND type = ?`
		args = append(args, edgeType)
	}
	q += ` ORDER BY created_at, id`

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("graph: list edges: %w", err)
	}
	defer rows.Close()
	return collectEdges(rows)
}

// DeleteEdge hard-deletes an edge. Idempotent.
func (db *DB) DeleteEdge(id string) error {
	if _, err := db.conn.Exec(`DELETE FROM edges WHERE id = ?`, id); err != nil {
		return fmt.Errorf("graph: delete edge: %w", err)
	}
	return nil
}

// appendVersion inserts the next version row for a node.
// Versions are strictly increasing per node; rows are never updated.
func appendVersion(tx *sql.Tx, nodeID, status string, at time.Time) error {
	_, err := tx.Exec(`
		INSERT INTO node_versions (node_id, version, status, created_at)
		VALUES (?, (SELECT COALESCE(MAX(version), 0) + 1 FROM node_versions WHERE node_id = ?), ?, ?)
	`, nodeID, nodeID, status, at)
	if err != nil {
		return fmt.Errorf("graph: append version: %w", err)
	}
	return nil
}

func marshalProps(p map[string]any) (string, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("graph: marshal properties: %w", err)
	}
	return string(b), nil
}

func unmarshalProps(s string) map[string]any {
	if s == "" {
		return map[string]any{}
	}
	var p map[string]any
	if err := json.Unmarshal([]byte(s), &p); err != nil || p == nil {
		return map[string]any{}
	}
	return p
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(r rowScanner) (*Node, error) {
	var n Node
	var props string
	if err := r.Scan(&n.ID, &n.Type, &props, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	n.Properties = unmarshalProps(props)
	return &n, nil
}

func collectNodes(rows *sql.Rows) ([]Node, error) {
	var out []Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

func collectEdges(rows *sql.Rows) ([]Edge, error) {
	var out []Edge
	for rows.Next() {
		var e Edge
		var props string
		if err := rows.Scan(&e.ID, &e.FromID, &e.ToID, &e.Type, &props, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Properties = unmarshalProps(props)
		out = append(out, e)
	}
	return out, rows.Err()
}
