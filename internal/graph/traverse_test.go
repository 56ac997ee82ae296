package graph

import (
	"errors"
	"fmt"
	"testing"

	"github.com/starford/jera/internal/apperr"
)

func TestNeighborhood_LoneSeed(t *testing.T) {
	db := testDB(t)
	_, _ = db.CreateNode("solo", TypeRecipe, map[string]any{"title": "Solo"})

	sub, err := db.Neighborhood("solo", 2)
	if err != nil {
		t.Fatalf("Neighborhood: %v", err)
	}
	if sub.Center.ID != "solo" {
		t.Errorf("center = %s", sub.Center.ID)
	}
	if len(sub.Nodes) != 1 || sub.Nodes[0].ID != "solo" {
		t.Errorf("nodes = %+v, want only seed", sub.Nodes)
	}
	if len(sub.Edges) != 0 {
		t.Errorf("edges = %d, want 0", len(sub.Edges))
	}
}

func TestNeighborhood_MissingSeed(t *testing.T) {
	db := testDB(t)
	_, err := db.Neighborhood("ghost", 1)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestNeighborhood_DepthBoundsExpansion(t *testing.T) {
	db := testDB(t)
	// Chain: a - b - c. Edges point a->b and b->c.
	for _, id := range []string{"a", "b", "c"} {
		_, _ = db.CreateNode(id, TypeRecipe, nil)
	}
	_, _ = db.CreateEdge("a", "b", "NEXT", nil)
	_, _ = db.CreateEdge("b", "c", "NEXT", nil)

	// Depth 1 from a reaches b but not c, and only the a-b edge is induced.
	sub, err := db.Neighborhood("a", 1)
	if err != nil {
		t.Fatalf("Neighborhood depth 1: %v", err)
	}
	if len(sub.Nodes) != 2 {
		t.Errorf("depth 1 nodes = %d, want 2", len(sub.Nodes))
	}
	if len(sub.Edges) != 1 {
		t.Errorf("depth 1 edges = %d, want 1 (b-c excluded)", len(sub.Edges))
	}

	// Depth 2 reaches the whole chain. Traversal follows edges both ways, so
	// starting from c works too.
	sub, err = db.Neighborhood("c", 2)
	if err != nil {
		t.Fatalf("Neighborhood depth 2: %v", err)
	}
	if len(sub.Nodes) != 3 {
		t.Errorf("depth 2 nodes = %d, want 3", len(sub.Nodes))
	}
	if len(sub.Edges) != 2 {
		t.Errorf("depth 2 edges = %d, want 2", len(sub.Edges))
	}
	if sub.Depth != 2 {
		t.Errorf("depth = %d", sub.Depth)
	}
}

func TestNeighborhood_DefaultDepth(t *testing.T) {
	db := testDB(t)
	_, _ = db.CreateNode("n", TypeRecipe, nil)
	sub, err := db.Neighborhood("n", 0)
	if err != nil {
		t.Fatalf("Neighborhood: %v", err)
	}
	if sub.Depth != DefaultDepth {
		t.Errorf("depth = %d, want %d", sub.Depth, DefaultDepth)
	}
}

func TestNeighborhood_SeedFirstInNodes(t *testing.T) {
	db := testDB(t)
	_, _ = db.CreateNode("hub", TypeRecipe, nil)
	_, _ = db.CreateNode("spoke", TypeIngredient, nil)
	_, _ = db.CreateEdge("hub", "spoke", EdgeHasIngredient, nil)

	sub, err := db.Neighborhood("hub", 1)
	if err != nil {
		t.Fatalf("Neighborhood: %v", err)
	}
	if sub.Nodes[0].ID != "hub" {
		t.Errorf("first node = %s, want seed first", sub.Nodes[0].ID)
	}
}

func TestNeighborhood_LargeFanoutSkipsEdges(t *testing.T) {
	db := testDB(t)
	_, _ = db.CreateNode("hub", TypeRecipe, nil)
	for i := 0; i < maxEdgeFetchNodes+10; i++ {
		id := fmt.Sprintf("n%03d", i)
		_, _ = db.CreateNode(id, TypeIngredient, nil)
		_, _ = db.CreateEdge("hub", id, EdgeHasIngredient, nil)
	}

	sub, err := db.Neighborhood("hub", 1)
	if err != nil {
		t.Fatalf("Neighborhood: %v", err)
	}
	if len(sub.Nodes) != maxEdgeFetchNodes+11 {
		t.Errorf("nodes = %d, want %d", len(sub.Nodes), maxEdgeFetchNodes+11)
	}
	// Over the cap the edge list is skipped, not truncated.
	if len(sub.Edges) != 0 {
		t.Errorf("edges = %d, want 0 over cap", len(sub.Edges))
	}
}

func TestChunked(t *testing.T) {
	ids := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		ids = append(ids, fmt.Sprintf("id%d", i))
	}
	chunks := chunked(ids, 3)
	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, want 3", len(chunks))
	}
	if len(chunks[0]) != 3 || len(chunks[1]) != 3 || len(chunks[2]) != 1 {
		t.Errorf("chunk sizes = %d,%d,%d", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}
	if chunked(nil, 3) != nil {
		t.Error("chunked(nil) should be nil")
	}
}
