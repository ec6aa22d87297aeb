// Package http serves a read-only JSON API over the chunk store.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/custodia-labs/piidoc/internal/core/domain"
	"github.com/custodia-labs/piidoc/internal/core/ports/driving"
)

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	store  driving.StoreService
}

// NewServer creates the HTTP server over a store service.
func NewServer(store driving.StoreService) *Server {
	s := &Server{store: store}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/documents", s.handleListDocuments)
		r.Get("/documents/{docID}", s.handleMetadata)
		r.Delete("/documents/{docID}", s.handleDeleteDocument)
		r.Get("/documents/{docID}/chunks", s.handleChunks)
		r.Get("/search", s.handleSearch)
	})

	s.router = r
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
}

type documentJSON struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	ChunkCount int       `json:"chunk_count"`
	SavedAt    time.Time `json:"saved_at"`
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.List(r.Context())
	if err != nil {
		storeError(w, "failed to list documents", err)
		return
	}

	out := make([]documentJSON, len(docs))
	for i, d := range docs {
		out[i] = documentJSON{ID: d.ID, Type: d.Type.String(), ChunkCount: d.ChunkCount, SavedAt: d.SavedAt}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": out})
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	md, err := s.store.Metadata(r.Context(), docID)
	if err != nil {
		storeError(w, "failed to read document "+docID, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": docID, "metadata": md})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if err := s.store.Delete(r.Context(), docID); err != nil {
		storeError(w, "failed to delete document "+docID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChunks(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	withContext, _ := strconv.ParseBool(r.URL.Query().Get("context"))

	chunks, err := s.store.Chunks(r.Context(), docID)
	if err != nil {
		storeError(w, "failed to read chunks of "+docID, err)
		return
	}

	out := make([]map[string]any, len(chunks))
	for i, c := range chunks {
		out[i] = c.AsMap(withContext)
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": docID, "chunks": out, "count": len(out)})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		jsonError(w, "q query parameter is required", http.StatusBadRequest)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			jsonError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	hits, err := s.store.Search(r.Context(), query, limit)
	if err != nil {
		storeError(w, "search failed", err)
		return
	}

	type hitJSON struct {
		DocID   string  `json:"doc_id"`
		ChunkID string  `json:"chunk_id"`
		Data    string  `json:"data"`
		Score   float64 `json:"score"`
	}
	out := make([]hitJSON, len(hits))
	for i, h := range hits {
		out[i] = hitJSON{DocID: h.DocID, ChunkID: h.ChunkID, Data: h.Data, Score: h.Score}
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": query, "results": out, "count": len(out)})
}

// storeError maps store failures onto HTTP status codes.
func storeError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		jsonError(w, msg+": "+err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidArgument):
		jsonError(w, msg+": "+err.Error(), http.StatusBadRequest)
	default:
		jsonError(w, msg+": "+err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
