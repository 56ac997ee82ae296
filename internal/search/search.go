package search

import (
	"context"

	"github.com/starford/jera/internal/graph"
)

// DefaultLimit is the result limit used when the caller passes none.
const DefaultLimit = 50

// Index is the slice of the graph store the search layer needs.
type Index interface {
	SearchNodes(matchQuery, nodeType string, limit int) ([]graph.Node, error)
}

// Result is a single-pass search response.
type Result struct {
	Query          string       `json:"query"`
	EffectiveQuery string       `json:"effectiveQuery"`
	Results        []graph.Node `json:"results"`
}

// Searcher runs basic prefix-match searches against the index.
type Searcher struct {
	idx Index
}

// NewSearcher creates a Searcher over the given index.
func NewSearcher(idx Index) *Searcher {
	return &Searcher{idx: idx}
}

// Search runs one conjunctive prefix-match query, restricted to active nodes
// of the given type (empty for all), ranked best match first. No match is an
// empty list, not an error.
func (s *Searcher) Search(_ context.Context, query, nodeType string, limit int) (*Result, error) {
	match, err := BuildQuery(query)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	nodes, err := s.idx.SearchNodes(match, nodeType, limit)
	if err != nil {
		return nil, err
	}
	if nodes == nil {
		nodes = []graph.Node{}
	}
	return &Result{Query: query, EffectiveQuery: match, Results: nodes}, nil
}
