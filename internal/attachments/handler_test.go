package attachments_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/mwhite-io/docsearch/internal/attachments"
	"github.com/mwhite-io/docsearch/pkg/routes"
)

type fakeSystem struct {
	uploads map[string][]byte
}

func newFakeSystem() *fakeSystem {
	return &fakeSystem{uploads: make(map[string][]byte)}
}

func (f *fakeSystem) List(ctx context.Context, documentID uuid.UUID, params url.Values) (*attachments.ListResult, error) {
	return &attachments.ListResult{Attachments: []attachments.Attachment{}}, nil
}

func (f *fakeSystem) Find(ctx context.Context, documentID uuid.UUID, filename string) (*attachments.Attachment, error) {
	return nil, attachments.ErrNotFound
}

func (f *fakeSystem) Upload(ctx context.Context, documentID uuid.UUID, filename string, data []byte) (*attachments.Attachment, error) {
	f.uploads[filename] = data
	return &attachments.Attachment{
		ID:         uuid.New(),
		DocumentID: documentID,
		Filename:   filename,
		Hash:       attachments.HashBytes(data),
		ByteLength: int64(len(data)),
		Mimetype:   attachments.GuessMimetype(filename),
	}, nil
}

func (f *fakeSystem) Detach(ctx context.Context, documentID uuid.UUID, filename string) error {
	return nil
}

func (f *fakeSystem) Download(ctx context.Context, documentID uuid.UUID, filename string) (*attachments.Attachment, []byte, error) {
	return nil, nil, attachments.ErrNotFound
}

func uploadMux(t *testing.T, sys attachments.System, maxUploadSize int64) *http.ServeMux {
	t.Helper()

	resolver := func(ctx context.Context, ref string) (uuid.UUID, error) {
		return uuid.MustParse("11111111-1111-1111-1111-111111111111"), nil
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := attachments.NewHandler(sys, resolver, logger, maxUploadSize)

	mux := http.NewServeMux()
	routes.Mount(mux, handler.Routes())
	return mux
}

func multipartBody(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	sys := newFakeSystem()
	mux := uploadMux(t, sys, 10)

	body, contentType := multipartBody(t, "big.txt", bytes.Repeat([]byte("x"), 100))
	req := httptest.NewRequest(http.MethodPost, "/documents/doc-1/attachments", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusRequestEntityTooLarge)
	}
	if len(sys.uploads) != 0 {
		t.Errorf("uploads = %d, want none stored", len(sys.uploads))
	}
}

func TestUploadStoresFileAtSizeLimit(t *testing.T) {
	sys := newFakeSystem()
	mux := uploadMux(t, sys, 10)

	data := bytes.Repeat([]byte("y"), 10)
	body, contentType := multipartBody(t, "exact.txt", data)
	req := httptest.NewRequest(http.MethodPost, "/documents/doc-1/attachments", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if !bytes.Equal(sys.uploads["exact.txt"], data) {
		t.Errorf("stored %d bytes, want %d intact", len(sys.uploads["exact.txt"]), len(data))
	}
}

func TestUploadRejectsEmptyForm(t *testing.T) {
	sys := newFakeSystem()
	mux := uploadMux(t, sys, 10)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/documents/doc-1/attachments", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
