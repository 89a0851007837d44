package documents

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/mwhite-io/docsearch/internal/indexes"
	"github.com/mwhite-io/docsearch/internal/search"
	"github.com/mwhite-io/docsearch/pkg/handlers"
	"github.com/mwhite-io/docsearch/pkg/routes"
)

// Handler provides HTTP endpoints for document operations. The collection
// endpoint runs the search pipeline over all documents, optionally scoped by
// one or more index parameters.
type Handler struct {
	sys      System
	indexes  indexes.System
	executor *search.Executor
	logger   *slog.Logger
}

// NewHandler creates a document handler.
func NewHandler(sys System, idx indexes.System, executor *search.Executor, logger *slog.Logger) *Handler {
	return &Handler{
		sys:      sys,
		indexes:  idx,
		executor: executor,
		logger:   logger.With("handler", "documents"),
	}
}

// Routes returns the document endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/documents",
		Description: "Document management and cross-index search",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "GET", Pattern: "/attachments", Handler: h.Attachments},
			{Method: "GET", Pattern: "/{ref}", Handler: h.Detail},
			{Method: "PUT", Pattern: "/{ref}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{ref}", Handler: h.Delete},
		},
	}
}

type createRequest struct {
	Content    string            `json:"content"`
	Identifier *string           `json:"identifier"`
	Metadata   map[string]string `json:"metadata"`
	Index      string            `json:"index"`
	Indexes    []string          `json:"indexes"`
}

func (req createRequest) indexNames() []string {
	names := req.Indexes
	if req.Index != "" {
		names = append(names, req.Index)
	}
	return names
}

type updateRequest struct {
	Content    *string            `json:"content"`
	Identifier *string            `json:"identifier"`
	Metadata   *map[string]string `json:"metadata"`
	Indexes    *[]string          `json:"indexes"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	scope, err := h.scope(r, params)
	if err != nil {
		handlers.RespondError(w, h.logger, indexes.MapHTTPStatus(err), err)
		return
	}

	result, err := h.executor.Search(r.Context(), scope, params)
	if err != nil {
		handlers.RespondError(w, h.logger, search.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Attachments searches documents and returns their attachments, flattened
// across the matching documents.
func (h *Handler) Attachments(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	scope, err := h.scope(r, params)
	if err != nil {
		handlers.RespondError(w, h.logger, indexes.MapHTTPStatus(err), err)
		return
	}

	result, err := h.executor.SearchAttachments(r.Context(), scope, params)
	if err != nil {
		handlers.RespondError(w, h.logger, search.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// scope resolves any index parameters to a search scope. Unknown index
// names fail the request rather than silently widening the scope.
func (h *Handler) scope(r *http.Request, params url.Values) (search.Scope, error) {
	names := params["index"]
	if len(names) == 0 {
		return search.AllDocuments(), nil
	}

	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		idx, err := h.indexes.Find(r.Context(), name)
		if err != nil {
			return search.Scope{}, err
		}
		ids = append(ids, idx.ID)
	}
	return search.Indexes(ids...), nil
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	doc, err := h.sys.Create(r.Context(), CreateCommand{
		Content:    req.Content,
		Identifier: req.Identifier,
		Metadata:   req.Metadata,
		IndexNames: req.indexNames(),
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, doc)
}

func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	doc, err := h.sys.Find(r.Context(), r.PathValue("ref"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, doc)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	doc, err := h.sys.Update(r.Context(), r.PathValue("ref"), UpdateCommand{
		Content:    req.Content,
		Identifier: req.Identifier,
		Metadata:   req.Metadata,
		IndexNames: req.Indexes,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, doc)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Delete(r.Context(), r.PathValue("ref")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
