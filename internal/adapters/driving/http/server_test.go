package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/piidoc/internal/core/document"
	"github.com/custodia-labs/piidoc/internal/core/domain"
)

type mockStoreService struct {
	docs       []domain.StoredDocument
	metadata   domain.Metadata
	chunks     []domain.Chunk
	hits       []domain.SearchHit
	err        error
	lastQuery  string
	lastLimit  int
	lastDelete string
}

func (m *mockStoreService) Save(_ context.Context, _ domain.SourceDocument) error {
	return m.err
}

func (m *mockStoreService) List(_ context.Context) ([]domain.StoredDocument, error) {
	return m.docs, m.err
}

func (m *mockStoreService) Metadata(_ context.Context, _ string) (domain.Metadata, error) {
	return m.metadata, m.err
}

func (m *mockStoreService) Chunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

func (m *mockStoreService) Restore(_ context.Context, _ string) (*document.Document, error) {
	return nil, m.err
}

func (m *mockStoreService) Delete(_ context.Context, docID string) error {
	m.lastDelete = docID
	return m.err
}

func (m *mockStoreService) Search(_ context.Context, query string, limit int) ([]domain.SearchHit, error) {
	m.lastQuery = query
	m.lastLimit = limit
	return m.hits, m.err
}

func do(t *testing.T, s *Server, method, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealth(t *testing.T) {
	rec, body := do(t, NewServer(&mockStoreService{}), http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestListDocuments(t *testing.T) {
	saved := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &mockStoreService{docs: []domain.StoredDocument{
		{ID: "doc-1", Type: domain.DocumentSequence, ChunkCount: 3, SavedAt: saved},
	}}

	rec, body := do(t, NewServer(store), http.MethodGet, "/api/documents")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	docs := body["documents"].([]any)
	require.Len(t, docs, 1)
	doc := docs[0].(map[string]any)
	assert.Equal(t, "doc-1", doc["id"])
	assert.Equal(t, "sequence", doc["type"])
	assert.Equal(t, float64(3), doc["chunk_count"])
	assert.Equal(t, "2024-03-01T12:00:00Z", doc["saved_at"])
}

func TestMetadata(t *testing.T) {
	store := &mockStoreService{metadata: domain.Metadata{
		domain.SectionDocument: {"id": "doc-1", "type": "sequence"},
	}}

	rec, body := do(t, NewServer(store), http.MethodGet, "/api/documents/doc-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "doc-1", body["id"])
	md := body["metadata"].(map[string]any)
	assert.Equal(t, "sequence", md["document"].(map[string]any)["type"])
}

func TestChunks(t *testing.T) {
	store := &mockStoreService{chunks: []domain.Chunk{
		domain.NewChunk("1", "hello", domain.Context{"level": 0}),
		domain.NewChunk("2", "world", nil),
	}}
	s := NewServer(store)

	t.Run("without context", func(t *testing.T) {
		rec, body := do(t, s, http.MethodGet, "/api/documents/doc-1/chunks")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(2), body["count"])
		first := body["chunks"].([]any)[0].(map[string]any)
		assert.Equal(t, "1", first["id"])
		assert.Equal(t, "hello", first["data"])
		assert.NotContains(t, first, "context")
	})

	t.Run("with context", func(t *testing.T) {
		rec, body := do(t, s, http.MethodGet, "/api/documents/doc-1/chunks?context=true")
		require.Equal(t, http.StatusOK, rec.Code)
		chunks := body["chunks"].([]any)
		first := chunks[0].(map[string]any)
		assert.Equal(t, map[string]any{"level": float64(0)}, first["context"])
		assert.NotContains(t, chunks[1].(map[string]any), "context")
	})
}

func TestDeleteDocument(t *testing.T) {
	store := &mockStoreService{}
	rec, _ := do(t, NewServer(store), http.MethodDelete, "/api/documents/doc-1")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "doc-1", store.lastDelete)
}

func TestSearch(t *testing.T) {
	store := &mockStoreService{hits: []domain.SearchHit{
		{DocID: "doc-1", ChunkID: "2", Data: "Rome", Score: 0.5},
	}}
	s := NewServer(store)

	rec, body := do(t, s, http.MethodGet, "/api/search?q=rome&limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rome", store.lastQuery)
	assert.Equal(t, 5, store.lastLimit)
	assert.Equal(t, float64(1), body["count"])
	hit := body["results"].([]any)[0].(map[string]any)
	assert.Equal(t, "doc-1", hit["doc_id"])
	assert.Equal(t, "2", hit["chunk_id"])
	assert.Equal(t, 0.5, hit["score"])

	_, _ = do(t, s, http.MethodGet, "/api/search?q=rome")
	assert.Equal(t, 0, store.lastLimit)
}

func TestSearch_BadRequest(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"missing query", "/api/search"},
		{"bad limit", "/api/search?q=x&limit=abc"},
		{"negative limit", "/api/search?q=x&limit=-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, NewServer(&mockStoreService{}), http.MethodGet, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestStoreErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target string
		want   int
	}{
		{"not found metadata", fmt.Errorf("%w: doc-x", domain.ErrNotFound), "/api/documents/doc-x", http.StatusNotFound},
		{"not found chunks", fmt.Errorf("%w: doc-x", domain.ErrNotFound), "/api/documents/doc-x/chunks", http.StatusNotFound},
		{"no index", fmt.Errorf("%w: no search index", domain.ErrInvalidArgument), "/api/search?q=x", http.StatusBadRequest},
		{"internal", errors.New("disk on fire"), "/api/documents", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, NewServer(&mockStoreService{err: tt.err}), http.MethodGet, tt.target)
			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, body["error"], tt.err.Error())
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	NewServer(&mockStoreService{}).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
