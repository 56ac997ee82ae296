package graph

import "time"

// Node statuses recorded in the append-only version log.
const (
	StatusActive  = "ACTIVE"
	StatusDeleted = "DELETED"
)

// Well-known node types. The store itself is type-agnostic; these are the
// types the importer and search layer work with.
const (
	TypeRecipe     = "RECIPE"
	TypeIngredient = "INGREDIENT"
	TypeTag        = "TAG"
)

// Well-known edge types.
const (
	EdgeHasIngredient = "HAS_INGREDIENT"
	EdgeHasTag        = "HAS_TAG"
)

// Node is a typed entity with a schema-less property document.
// Identity is the caller-assigned id; type and properties are mutable.
type Node struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Edge is a directed, typed relationship between two nodes.
// Edges are not versioned; deletion is a hard removal.
type Edge struct {
	ID         string         `json:"id"`
	FromID     string         `json:"from_id"`
	ToID       string         `json:"to_id"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// VersionRow is one entry in the append-only per-node status log.
// The current status of a node is the status of its max-version row.
type VersionRow struct {
	NodeID    string    `json:"node_id"`
	Version   int       `json:"version"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Subgraph is the induced neighborhood returned by Neighborhood.
type Subgraph struct {
	Center Node   `json:"centerNode"`
	Depth  int    `json:"depth"`
	Nodes  []Node `json:"nodes"`
	Edges  []Edge `json:"edges"`
}
