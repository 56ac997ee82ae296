//go:build sqlite_fts5

package graph

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS nodes_fts USING fts5(
			node_id UNINDEXED,
			content,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, nodeID, content string) error {
	_, _ = tx.Exec(`DELETE FROM nodes_fts WHERE node_id = ?`, nodeID)
	_, err := tx.Exec(`INSERT INTO nodes_fts (node_id, content) VALUES (?, ?)`, nodeID, content)
	if err != nil {
		return fmt.Errorf("graph: upsert fts: %w", err)
	}
	return nil
}

// SearchNodes runs an FTS5 match and returns currently active nodes ordered
// by relevance rank, best match first. The index entry is consulted for
// matching only; existence and status come from the node tables.
func (db *DB) SearchNodes(matchQuery, nodeType string, limit int) ([]Node, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `
		SELECT n.id, n.type, n.properties, n.created_at, n.updated_at
		FROM nodes_fts f
		JOIN nodes n ON n.id = f.node_id` +
		activeJoinSQL + `
		WHERE nodes_fts MATCH ? AND v.status = ?`
	args := []any{matchQuery, StatusActive}
	if nodeType != "" {
		q += ` AND n.type = ?`
		args = append(args, nodeType)
	}
	q += ` ORDER BY rank LIMIT ?`
	args = append(args, limit)

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("graph: search: %w", err)
	}
	defer rows.Close()
	return collectNodes(rows)
}
