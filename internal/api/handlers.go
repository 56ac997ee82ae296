package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/jera/internal/recipeservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *recipeservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *recipeservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListNodes handles GET /api/nodes.
func (h *Handler) ListNodes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	nodes, err := h.svc.ListEntities(r.Context(), q.Get("type"), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NodeListResponse{Nodes: nodes})
}

// GetNode handles GET /api/nodes/{id}.
func (h *Handler) GetNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	node, err := h.svc.GetEntity(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, node)
}

// CreateNode handles POST /api/nodes.
func (h *Handler) CreateNode(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.ID == "" || req.Type == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("id and type are required"))
		return
	}
	node, err := h.svc.CreateEntity(r.Context(), req.ID, req.Type, req.Properties)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, node)
}

// UpdateNode handles PUT /api/nodes/{id}.
func (h *Handler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id := chi.URLParam(r, "id")
	var req UpdateNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Type == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("type is required"))
		return
	}
	node, err := h.svc.UpdateEntity(r.Context(), id, req.Type, req.Properties)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, node)
}

// DeleteNode handles DELETE /api/nodes/{id}.
func (h *Handler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteEntity(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateEdge handles POST /api/edges.
func (h *Handler) CreateEdge(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateEdgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.FromID == "" || req.ToID == "" || req.Type == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("from_id, to_id and type are required"))
		return
	}
	edge, err := h.svc.CreateEdge(r.Context(), req.FromID, req.ToID, req.Type, req.Properties)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, edge)
}

// ListEdges handles GET /api/edges.
func (h *Handler) ListEdges(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	edges, err := h.svc.ListEdges(r.Context(), q.Get("from"), q.Get("to"), q.Get("type"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EdgeListResponse{Edges: edges})
}

// DeleteEdge handles DELETE /api/edges/{id}.
func (h *Handler) DeleteEdge(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteEdge(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	res, err := h.svc.Search(r.Context(), q, r.URL.Query().Get("type"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// SmartSearch handles GET /api/search/smart.
func (h *Handler) SmartSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	res, err := h.svc.SmartSearch(r.Context(), q, r.URL.Query().Get("type"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Graph handles GET /api/graph/{id}.
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	depth, _ := strconv.Atoi(r.URL.Query().Get("depth"))
	sub, err := h.svc.GetGraph(r.Context(), chi.URLParam(r, "id"), depth)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// Import handles POST /api/import.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 32<<20)
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if len(req.Records) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("records are required"))
		return
	}
	sum, err := h.svc.ImportBatch(r.Context(), req.Records)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
