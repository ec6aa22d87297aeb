// Package memory provides in-memory implementations of driven ports, used
// by tests and by commands that run without a persistent store.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/custodia-labs/piidoc/internal/core/domain"
	"github.com/custodia-labs/piidoc/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

type storedDoc struct {
	info     domain.StoredDocument
	metadata domain.Metadata
	chunks   []domain.Chunk
}

// ChunkStore is an in-memory implementation of driven.ChunkStore.
type ChunkStore struct {
	mu        sync.RWMutex
	documents map[string]storedDoc
	now       func() time.Time
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		documents: make(map[string]storedDoc),
		now:       time.Now,
	}
}

// SaveDocument stores or replaces a document.
func (s *ChunkStore) SaveDocument(ctx context.Context, doc domain.SourceDocument) error {
	var chunks []domain.Chunk
	for c := range doc.IterFull(false) {
		if err := ctx.Err(); err != nil {
			return err
		}
		chunks = append(chunks, c.Clone())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID()] = storedDoc{
		info: domain.StoredDocument{
			ID:         doc.ID(),
			Type:       doc.Type(),
			ChunkCount: len(chunks),
			SavedAt:    s.now(),
		},
		metadata: doc.Metadata().Clone(),
		chunks:   chunks,
	}
	return nil
}

// ListDocuments returns all documents ordered by id.
func (s *ChunkStore) ListDocuments(_ context.Context) ([]domain.StoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.StoredDocument, 0, len(s.documents))
	for _, doc := range s.documents {
		result = append(result, doc.info)
	}
	slices.SortFunc(result, func(a, b domain.StoredDocument) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return result, nil
}

// GetMetadata returns a copy of the document metadata.
func (s *ChunkStore) GetMetadata(_ context.Context, docID string) (domain.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[docID]
	if !ok {
		return nil, fmt.Errorf("%w: document %s", domain.ErrNotFound, docID)
	}
	return doc.metadata.Clone(), nil
}

// GetChunks returns copies of the document chunks.
func (s *ChunkStore) GetChunks(_ context.Context, docID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[docID]
	if !ok {
		return nil, fmt.Errorf("%w: document %s", domain.ErrNotFound, docID)
	}
	out := make([]domain.Chunk, len(doc.chunks))
	for i, c := range doc.chunks {
		out[i] = c.Clone()
	}
	return out, nil
}

// DeleteDocument removes a document and its chunks.
func (s *ChunkStore) DeleteDocument(_ context.Context, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[docID]; !ok {
		return fmt.Errorf("%w: document %s", domain.ErrNotFound, docID)
	}
	delete(s.documents, docID)
	return nil
}
