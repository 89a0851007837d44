package attachments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/mwhite-io/docsearch/pkg/handlers"
	"github.com/mwhite-io/docsearch/pkg/routes"
)

// ErrDocumentNotFound is returned by DocumentResolver implementations when
// the path's document reference does not resolve.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentResolver resolves a document path reference (id or identifier)
// without coupling this package to the documents system.
type DocumentResolver func(ctx context.Context, ref string) (uuid.UUID, error)

// Validation errors for upload requests.
var (
	ErrNoFiles       = errors.New("no file attachments found")
	ErrMultipleFiles = errors.New("only one attachment permitted when performing update")
	ErrFileTooLarge  = errors.New("attachment exceeds maximum upload size")
)

// Handler provides HTTP endpoints for attachment operations beneath a
// document path.
type Handler struct {
	sys           System
	resolve       DocumentResolver
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates an attachment handler.
func NewHandler(sys System, resolve DocumentResolver, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		resolve:       resolve,
		logger:        logger.With("handler", "attachments"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the attachment endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/documents/{ref}/attachments",
		Description: "Content-addressed attachment storage",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Upload},
			{Method: "GET", Pattern: "/{filename}", Handler: h.Find},
			{Method: "PUT", Pattern: "/{filename}", Handler: h.Replace},
			{Method: "DELETE", Pattern: "/{filename}", Handler: h.Detach},
			{Method: "GET", Pattern: "/{filename}/download", Handler: h.Download},
		},
	}
}

func (h *Handler) document(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := h.resolve(r.Context(), r.PathValue("ref"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrDocumentNotFound) {
			status = http.StatusNotFound
		}
		handlers.RespondError(w, h.logger, status, err)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := h.document(w, r)
	if !ok {
		return
	}

	result, err := h.sys.List(r.Context(), id, r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.document(w, r)
	if !ok {
		return
	}

	att, err := h.sys.Find(r.Context(), id, r.PathValue("filename"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, att)
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	id, ok := h.document(w, r)
	if !ok {
		return
	}

	files, err := h.readFiles(r)
	if err != nil {
		handlers.RespondError(w, h.logger, readFilesStatus(err), err)
		return
	}
	if len(files) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNoFiles)
		return
	}

	stored := make([]Attachment, 0, len(files))
	for filename, data := range files {
		att, err := h.sys.Upload(r.Context(), id, filename, data)
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
		stored = append(stored, *att)
	}

	handlers.RespondJSON(w, http.StatusCreated, map[string][]Attachment{"attachments": stored})
}

func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := h.document(w, r)
	if !ok {
		return
	}

	filename := r.PathValue("filename")
	if _, err := h.sys.Find(r.Context(), id, filename); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	files, err := h.readFiles(r)
	if err != nil {
		handlers.RespondError(w, h.logger, readFilesStatus(err), err)
		return
	}
	if len(files) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNoFiles)
		return
	}
	if len(files) > 1 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMultipleFiles)
		return
	}

	// The replacement swaps the stored hash; the path filename stays
	// authoritative regardless of the uploaded file's name.
	var att *Attachment
	for _, data := range files {
		att, err = h.sys.Upload(r.Context(), id, filename, data)
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
	}

	handlers.RespondJSON(w, http.StatusOK, att)
}

func (h *Handler) Detach(w http.ResponseWriter, r *http.Request) {
	id, ok := h.document(w, r)
	if !ok {
		return
	}

	if err := h.sys.Detach(r.Context(), id, r.PathValue("filename")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := h.document(w, r)
	if !ok {
		return
	}

	att, data, err := h.sys.Download(r.Context(), id, r.PathValue("filename"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondBlob(w, att.Mimetype, att.Filename, data)
}

func (h *Handler) readFiles(r *http.Request) (map[string][]byte, error) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		return nil, err
	}

	files := make(map[string][]byte)
	for _, headers := range r.MultipartForm.File {
		for _, header := range headers {
			file, err := header.Open()
			if err != nil {
				return nil, err
			}

			// Read one byte past the limit so an oversized file is
			// rejected outright, never stored truncated.
			data, err := io.ReadAll(io.LimitReader(file, h.maxUploadSize+1))
			file.Close()
			if err != nil {
				return nil, err
			}
			if int64(len(data)) > h.maxUploadSize {
				return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, header.Filename)
			}

			files[header.Filename] = data
		}
	}
	return files, nil
}

func readFilesStatus(err error) int {
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
