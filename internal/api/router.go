package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/jera/internal/recipeservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *recipeservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Nodes CRUD.
	r.Get("/nodes", h.ListNodes)
	r.Post("/nodes", h.CreateNode)
	r.Get("/nodes/{id}", h.GetNode)
	r.Put("/nodes/{id}", h.UpdateNode)
	r.Delete("/nodes/{id}", h.DeleteNode)

	// Edges.
	r.Post("/edges", h.CreateEdge)
	r.Get("/edges", h.ListEdges)
	r.Delete("/edges/{id}", h.DeleteEdge)

	// Search.
	r.Get("/search", h.Search)
	r.Get("/search/smart", h.SmartSearch)

	// Graph neighborhood.
	r.Get("/graph/{id}", h.Graph)

	// Legacy import.
	r.Post("/import", h.Import)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
