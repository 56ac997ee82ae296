// Package recipeservice coordinates the graph store, search layers, and
// importer behind one service facade consumed by the API and MCP surfaces.
package recipeservice

import (
	"context"

	"github.com/starford/jera/internal/graph"
	"github.com/starford/jera/internal/importer"
	"github.com/starford/jera/internal/search"
)

// Events receives notifications about graph mutations. May be nil.
type Events interface {
	PublishNodeEvent(kind, id string)
}

// Service is the request-scoped facade over the core. It holds no mutable
// state of its own; all state lives in the store.
type Service struct {
	store    graph.Store
	searcher *search.Searcher
	smart    *search.Smart
	imp      *importer.Importer
	events   Events
}

// NewService creates the service facade.
func NewService(store graph.Store, smart *search.Smart, imp *importer.Importer, events Events) *Service {
	return &Service{
		store:    store,
		searcher: search.NewSearcher(store),
		smart:    smart,
		imp:      imp,
		events:   events,
	}
}

// CreateEntity creates a node with its first ACTIVE version.
func (s *Service) CreateEntity(_ context.Context, id, nodeType string, properties map[string]any) (*graph.Node, error) {
	n, err := s.store.CreateNode(id, nodeType, properties)
	if err != nil {
		return nil, err
	}
	s.publish("created", n.ID)
	return n, nil
}

// GetEntity returns a node by id.
func (s *Service) GetEntity(_ context.Context, id string) (*graph.Node, error) {
	return s.store.GetNode(id)
}

// ListEntities returns a page of currently active nodes, newest first.
func (s *Service) ListEntities(_ context.Context, nodeType string, limit, offset int) ([]graph.Node, error) {
	nodes, err := s.store.ListNodes(nodeType, limit, offset)
	if err != nil {
		return nil, err
	}
	if nodes == nil {
		nodes = []graph.Node{}
	}
	return nodes, nil
}

// UpdateEntity replaces type and properties, appending a new version.
func (s *Service) UpdateEntity(_ context.Context, id, nodeType string, properties map[string]any) (*graph.Node, error) {
	n, err := s.store.UpdateNode(id, nodeType, properties)
	if err != nil {
		return nil, err
	}
	s.publish("updated", n.ID)
	return n, nil
}

// DeleteEntity soft-deletes a node.
func (s *Service) DeleteEntity(_ context.Context, id string) error {
	if err := s.store.DeleteNode(id); err != nil {
		return err
	}
	s.publish("deleted", id)
	return nil
}

// CreateEdge creates a directed edge between two existing nodes.
func (s *Service) CreateEdge(_ context.Context, fromID, toID, edgeType string, properties map[string]any) (*graph.Edge, error) {
	return s.store.CreateEdge(fromID, toID, edgeType, properties)
}

// ListEdges returns edges matching the optional filters.
func (s *Service) ListEdges(_ context.Context, fromID, toID, edgeType string) ([]graph.Edge, error) {
	edges, err := s.store.ListEdges(fromID, toID, edgeType)
	if err != nil {
		return nil, err
	}
	if edges == nil {
		edges = []graph.Edge{}
	}
	return edges, nil
}

// DeleteEdge hard-deletes an edge.
func (s *Service) DeleteEdge(_ context.Context, id string) error {
	return s.store.DeleteEdge(id)
}

// Search runs a single-pass prefix-match search.
func (s *Service) Search(ctx context.Context, query, nodeType string, limit int) (*search.Result, error) {
	return s.searcher.Search(ctx, query, nodeType, limit)
}

// SmartSearch runs the progressive relaxation cascade.
func (s *Service) SmartSearch(ctx context.Context, query, nodeType string, limit int) (*search.SmartResult, error) {
	return s.smart.Search(ctx, query, nodeType, limit)
}

// GetGraph returns the bounded neighborhood of a node.
func (s *Service) GetGraph(_ context.Context, nodeID string, depth int) (*graph.Subgraph, error) {
	return s.store.Neighborhood(nodeID, depth)
}

// ImportBatch runs the legacy importer over the given records.
func (s *Service) ImportBatch(ctx context.Context, records []importer.Record) (*importer.Summary, error) {
	return s.imp.Import(ctx, records)
}

func (s *Service) publish(kind, id string) {
	if s.events != nil {
		s.events.PublishNodeEvent(kind, id)
	}
}
