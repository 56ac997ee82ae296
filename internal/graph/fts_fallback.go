//go:build !sqlite_fts5

package graph

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not compiled in; search matches the flattened property text in Go.
	return nil
}

func ftsUpsert(_ *sql.Tx, _, _ string) error {
	// Properties are already stored on the node row; nothing extra to do.
	return nil
}

// SearchNodes is the fallback for builds without FTS5: the same conjunctive
// prefix-token semantics evaluated in Go over the flattened property text.
// Relevance ordering degrades to recency.
func (db *DB) SearchNodes(matchQuery, nodeType string, limit int) ([]Node, error) {
	if limit <= 0 {
		limit = 50
	}
	terms := strings.Fields(matchQuery)
	if len(terms) == 0 {
		return nil, nil
	}

	q := `SELECT n.id, n.type, n.properties, n.created_at, n.updated_at FROM nodes n` +
		activeJoinSQL + ` WHERE v.status = ?`
	args := []any{StatusActive}
	if nodeType != "" {
		q += ` AND n.type = ?`
		args = append(args, nodeType)
	}
	q += ` ORDER BY n.created_at DESC, n.id`

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("graph: search: %w", err)
	}
	defer rows.Close()

	candidates, err := collectNodes(rows)
	if err != nil {
		return nil, err
	}

	var out []Node
	for _, n := range candidates {
		if matchesAllTerms(tokenize(searchText(n.Properties)), terms) {
			out = append(out, n)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}
