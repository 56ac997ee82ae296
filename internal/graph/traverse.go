package graph

import (
	"fmt"
	"strings"
)

const (
	// DefaultDepth is the traversal depth used when the caller passes none.
	DefaultDepth = 2

	// maxEdgeFetchNodes caps the final edge query. Neighborhoods larger than
	// this return no edges instead of building an unbounded parameter list.
	maxEdgeFetchNodes = 100

	// chunkSize bounds every IN-clause built during traversal.
	chunkSize = 50
)

// Neighborhood expands from seed through edges (both directions) for up to
// depth rounds and returns the induced subgraph. A seed with no connections
// comes back alone with no edges.
func (db *DB) Neighborhood(seedID string, depth int) (*Subgraph, error) {
	if depth <= 0 {
		depth = DefaultDepth
	}
	center, err := db.GetNode(seedID)
	if err != nil {
		return nil, err
	}

	visited := map[string]struct{}{seedID: {}}
	order := []string{seedID}
	frontier := []string{seedID}

	for round := 0; round < depth && len(frontier) > 0; round++ {
		var next []string
		for _, chunk := range chunked(frontier, chunkSize) {
			neighbors, err := db.adjacentIDs(chunk)
			if err != nil {
				return nil, err
			}
			for _, id := range neighbors {
				if _, seen := visited[id]; seen {
					continue
				}
				visited[id] = struct{}{}
				order = append(order, id)
				next = append(next, id)
			}
		}
		frontier = next
	}

	nodes, err := db.nodesByIDs(order)
	if err != nil {
		return nil, err
	}

	edges := []Edge{}
	if len(visited) <= maxEdgeFetchNodes {
		edges, err = db.edgesAmong(order, visited)
		if err != nil {
			return nil, err
		}
	}

	return &Subgraph{Center: *center, Depth: depth, Nodes: nodes, Edges: edges}, nil
}

// adjacentIDs returns the ids on the far side of any edge touching the given
// ids. Duplicates are possible across chunks; the caller dedupes via visited.
func (db *DB) adjacentIDs(ids []string) ([]string, error) {
	ph := placeholders(len(ids))
	args := make([]any, 0, len(ids)*2)
	for _, id := range ids {
		args = append(args, id)
	}
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := db.conn.Query(
		`SELECT from_id, to_id FROM edges WHERE from_id IN (`+ph+`) OR to_id IN (`+ph+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("graph: adjacent: %w", err)
	}
	defer rows.Close()

	member := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		member[id] = struct{}{}
	}
	var out []string
	for rows.Next() {
		var from, to string
		if err := rows.Scan(&from, &to); err != nil {
			return nil, err
		}
		if _, ok := member[from]; !ok {
			out = append(out, from)
		}
		if _, ok := member[to]; !ok {
			out = append(out, to)
		}
	}
	return out, rows.Err()
}

// nodesByIDs fetches full node records preserving the order of ids.
func (db *DB) nodesByIDs(ids []string) ([]Node, error) {
	byID := make(map[string]Node, len(ids))
	for _, chunk := range chunked(ids, chunkSize) {
		ph := placeholders(len(chunk))
		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}
		rows, err := db.conn.Query(
			`SELECT id, type, properties, created_at, updated_at FROM nodes WHERE id IN (`+ph+`)`, args...)
		if err != nil {
			return nil, fmt.Errorf("graph: nodes by ids: %w", err)
		}
		fetched, err := collectNodes(rows)
		rows.Close()
		if err != nil {
			return nil, err
		}
		for _, n := range fetched {
			byID[n.ID] = n
		}
	}
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		if n, ok := byID[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

// edgesAmong returns edges whose both endpoints are in the visited set.
func (db *DB) edgesAmong(ids []string, visited map[string]struct{}) ([]Edge, error) {
	seen := make(map[string]struct{})
	out := []Edge{}
	for _, chunk := range chunked(ids, chunkSize) {
		ph := placeholders(len(chunk))
		args := make([]any, 0, len(chunk)*2)
		for _, id := range chunk {
			args = append(args, id)
		}
		for _, id := range chunk {
			args = append(args, id)
		}
		rows, err := db.conn.Query(
			`SELECT id, from_id, to_id, type, properties, created_at FROM edges
			 WHERE from_id IN (`+ph+`) OR to_id IN (`+ph+`) ORDER BY created_at, id`, args...)
		if err != nil {
			return nil, fmt.Errorf("graph: edges among: %w", err)
		}
		fetched, err := collectEdges(rows)
		rows.Close()
		if err != nil {
			return nil, err
		}
		for _, e := range fetched {
			if _, dup := seen[e.ID]; dup {
				continue
			}
			_, fromOK := visited[e.FromID]
			_, toOK := visited[e.ToID]
			if fromOK && toOK {
				seen[e.ID] = struct{}{}
				out = append(out, e)
			}
		}
	}
	return out, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func chunked(ids []string, size int) [][]string {
	var out [][]string
	for len(ids) > size {
		out = append(out, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}
