// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the recipe graph tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/jera/internal/recipeservice"
)

// Server wraps the MCP server with Jera tools.
type Server struct {
	mcp *server.MCPServer
	svc *recipeservice.Service
}

// New creates a new MCP server with all Jera tools registered.
func New(svc *recipeservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Jera",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_recipes",
		mcp.WithDescription("Prefix-match full-text search across recipe properties."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithString("type", mcp.Description("Optional node type filter (RECIPE, INGREDIENT, TAG)")),
	), s.searchRecipes)

	s.mcp.AddTool(mcp.NewTool("smart_search",
		mcp.WithDescription("Search with progressive query relaxation: tries the literal "+
			"query first, then word breakdown, word combinations, prefix shrinking, and "+
			"generic fallback terms. Returns the winning strategy and a confidence score."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithString("type", mcp.Description("Optional node type filter")),
	), s.smartSearch)

	s.mcp.AddTool(mcp.NewTool("get_recipe",
		mcp.WithDescription("Fetch a single node by id, with its full property document."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Node id")),
	), s.getRecipe)

	s.mcp.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Return the neighborhood of a node: all nodes within the given "+
			"depth plus the edges among them."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Seed node id")),
		mcp.WithNumber("depth", mcp.Description("Traversal depth (default 2)")),
	), s.getGraph)

	s.mcp.AddTool(mcp.NewTool("list_recipes",
		mcp.WithDescription("List currently active nodes, newest first."),
		mcp.WithString("type", mcp.Description("Optional node type filter")),
	), s.listRecipes)

	s.mcp.AddTool(mcp.NewTool("get_import_contract",
		mcp.WithDescription("Returns the legacy record JSON contract accepted by the importer. "+
			"Read it before assembling import batches."),
	), s.getImportContract)

	// Resource: legacy import record contract.
	s.mcp.AddResource(
		mcp.NewResource("jera://import-format", "Legacy Import Format Contract",
			mcp.WithResourceDescription("Canonical JSON shape for legacy recipe import batches."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readImportFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchRecipes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Search(ctx, query, req.GetString("type", ""), 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(res, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) smartSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.SmartSearch(ctx, query, req.GetString("type", ""), 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(res, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getRecipe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	node, err := s.svc.GetEntity(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(node, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getGraph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	depth := int(req.GetFloat("depth", 0))
	sub, err := s.svc.GetGraph(ctx, id, depth)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(sub, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listRecipes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodes, err := s.svc.ListEntities(ctx, req.GetString("type", ""), 50, 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(nodes, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getImportContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ImportFormatContract), nil
}

func (s *Server) readImportFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "jera://import-format",
			MIMEType: "text/markdown",
			Text:     ImportFormatContract,
		},
	}, nil
}
