package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/jera/internal/graph"
	"github.com/starford/jera/internal/importer"
	"github.com/starford/jera/internal/recipeservice"
	"github.com/starford/jera/internal/search"
)

func testServer(t *testing.T) (*Server, *graph.DB) {
	t.Helper()

	dbFile, err := os.CreateTemp("", "jera-mcp-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := graph.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	imp := importer.New(db, 10, 0, nil)
	smart := search.NewSmart(db, nil, nil)
	svc := recipeservice.NewService(db, smart, imp, nil)
	return New(svc), db
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so we invoke the handler
	// functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_recipes":
		result, err = srv.searchRecipes(ctx, req)
	case "smart_search":
		result, err = srv.smartSearch(ctx, req)
	case "get_recipe":
		result, err = srv.getRecipe(ctx, req)
	case "get_graph":
		result, err = srv.getGraph(ctx, req)
	case "list_recipes":
		result, err = srv.listRecipes(ctx, req)
	case "get_import_contract":
		result, err = srv.getImportContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestSearchRecipesTool(t *testing.T) {
	srv, db := testServer(t)
	_, _ = db.CreateNode("r1", graph.TypeRecipe, map[string]any{"title": "Miso Ramen"})

	r := callTool(t, srv, "search_recipes", map[string]interface{}{"query": "miso"})
	if r.IsError {
		t.Fatalf("search errored: %s", resultText(r))
	}
	var res search.Result
	if err := json.Unmarshal([]byte(resultText(r)), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(res.Results) != 1 || res.Results[0].ID != "r1" {
		t.Errorf("results = %+v", res.Results)
	}
}

func TestSmartSearchTool(t *testing.T) {
	srv, db := testServer(t)
	_, _ = db.CreateNode("r1", graph.TypeRecipe, map[string]any{"title": "Miso Ramen"})

	r := callTool(t, srv, "smart_search", map[string]interface{}{"query": "miso zzzz"})
	if r.IsError {
		t.Fatalf("smart search errored: %s", resultText(r))
	}
	var res search.SmartResult
	if err := json.Unmarshal([]byte(resultText(r)), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.Strategy != search.StrategyWordBreakdown {
		t.Errorf("strategy = %s", res.Strategy)
	}
}

func TestGetRecipeTool(t *testing.T) {
	srv, db := testServer(t)
	_, _ = db.CreateNode("r1", graph.TypeRecipe, map[string]any{"title": "Pho"})

	r := callTool(t, srv, "get_recipe", map[string]interface{}{"id": "r1"})
	if r.IsError {
		t.Fatalf("get errored: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), "Pho") {
		t.Errorf("result missing title: %s", resultText(r))
	}

	r = callTool(t, srv, "get_recipe", map[string]interface{}{"id": "nope"})
	if !r.IsError {
		t.Error("expected error for missing node")
	}
}

func TestGetGraphTool(t *testing.T) {
	srv, db := testServer(t)
	_, _ = db.CreateNode("r1", graph.TypeRecipe, nil)
	_, _ = db.CreateNode("i1", graph.TypeIngredient, nil)
	_, _ = db.CreateEdge("r1", "i1", graph.EdgeHasIngredient, nil)

	r := callTool(t, srv, "get_graph", map[string]interface{}{"id": "r1", "depth": float64(1)})
	if r.IsError {
		t.Fatalf("get_graph errored: %s", resultText(r))
	}
	var sub graph.Subgraph
	if err := json.Unmarshal([]byte(resultText(r)), &sub); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(sub.Nodes) != 2 || len(sub.Edges) != 1 {
		t.Errorf("nodes = %d edges = %d", len(sub.Nodes), len(sub.Edges))
	}
}

func TestListRecipesTool(t *testing.T) {
	srv, db := testServer(t)
	_, _ = db.CreateNode("r1", graph.TypeRecipe, nil)
	_, _ = db.CreateNode("i1", graph.TypeIngredient, nil)

	r := callTool(t, srv, "list_recipes", map[string]interface{}{"type": graph.TypeRecipe})
	if r.IsError {
		t.Fatalf("list errored: %s", resultText(r))
	}
	var nodes []graph.Node
	if err := json.Unmarshal([]byte(resultText(r)), &nodes); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(nodes) != 1 || nodes[0].ID != "r1" {
		t.Errorf("nodes = %+v", nodes)
	}
}

func TestGetImportContractTool(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_import_contract", nil)
	text := resultText(r)
	if !strings.Contains(text, "records") || !strings.Contains(text, "HAS_INGREDIENT") {
		t.Errorf("contract text incomplete: %q", text)
	}
}

func TestMissingRequiredArgument(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "search_recipes", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error for missing query argument")
	}
}
