package graph

// Store defines the node/edge store operations. Consumers should depend on
// this interface rather than the concrete *DB type to facilitate testing.
type Store interface {
	CreateNode(id, nodeType string, properties map[string]any) (*Node, error)
	GetNode(id string) (*Node, error)
	ListNodes(nodeType string, limit, offset int) ([]Node, error)
	UpdateNode(id, nodeType string, properties map[string]any) (*Node, error)
	DeleteNode(id string) error
	Versions(nodeID string) ([]VersionRow, error)
	CreateEdge(fromID, toID, edgeType string, properties map[string]any) (*Edge, error)
	ListEdges(fromID, toID, edgeType string) ([]Edge, error)
	DeleteEdge(id string) error
	SearchNodes(matchQuery, nodeType string, limit int) ([]Node, error)
	Neighborhood(seedID string, depth int) (*Subgraph, error)
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)
