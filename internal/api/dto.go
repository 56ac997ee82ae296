package api

import (
	"github.com/starford/jera/internal/graph"
	"github.com/starford/jera/internal/importer"
)

// CreateNodeRequest is the request body for creating a node.
type CreateNodeRequest struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

// UpdateNodeRequest is the request body for updating a node.
type UpdateNodeRequest struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

// CreateEdgeRequest is the request body for creating an edge.
type CreateEdgeRequest struct {
	FromID     string         `json:"from_id"`
	ToID       string         `json:"to_id"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
}

// ImportRequest carries a batch of legacy records.
type ImportRequest struct {
	Records []importer.Record `json:"records"`
}

// NodeListResponse wraps node listings.
type NodeListResponse struct {
	Nodes []graph.Node `json:"nodes"`
}

// EdgeListResponse wraps edge listings.
type EdgeListResponse struct {
	Edges []graph.Edge `json:"edges"`
}
