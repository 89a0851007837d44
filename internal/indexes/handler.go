package indexes

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/mwhite-io/docsearch/internal/search"
	"github.com/mwhite-io/docsearch/pkg/handlers"
	"github.com/mwhite-io/docsearch/pkg/routes"
)

// Handler provides HTTP endpoints for index operations. The detail view is
// an index-scoped search: request parameters compile into the filter and
// ranking pipeline over the index's documents.
type Handler struct {
	sys      System
	executor *search.Executor
	logger   *slog.Logger
}

// NewHandler creates an index handler.
func NewHandler(sys System, executor *search.Executor, logger *slog.Logger) *Handler {
	return &Handler{
		sys:      sys,
		executor: executor,
		logger:   logger.With("handler", "indexes"),
	}
}

// Routes returns the index endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/indexes",
		Description: "Index management and index-scoped search",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "GET", Pattern: "/{name}", Handler: h.Detail},
			{Method: "PUT", Pattern: "/{name}", Handler: h.Rename},
			{Method: "DELETE", Pattern: "/{name}", Handler: h.Delete},
		},
	}
}

// DetailResult combines index identity with the search response over its
// documents.
type DetailResult struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	search.Result
}

type nameRequest struct {
	Name string `json:"name"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.List(r.Context(), r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	idx, err := h.sys.Create(r.Context(), req.Name)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, idx)
}

func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	idx, err := h.sys.Find(r.Context(), r.PathValue("name"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	result, err := h.executor.Search(r.Context(), search.Indexes(idx.ID), r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, search.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, DetailResult{
		ID:     idx.ID,
		Name:   idx.Name,
		Result: *result,
	})
}

func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	idx, err := h.sys.Rename(r.Context(), r.PathValue("name"), req.Name)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, idx)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Delete(r.Context(), r.PathValue("name")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
