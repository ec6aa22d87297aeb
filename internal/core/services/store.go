package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/piidoc/internal/core/document"
	"github.com/custodia-labs/piidoc/internal/core/domain"
	"github.com/custodia-labs/piidoc/internal/core/ports/driven"
	"github.com/custodia-labs/piidoc/internal/core/ports/driving"
	"github.com/custodia-labs/piidoc/internal/logger"
)

// Ensure StoreService implements the interface.
var _ driving.StoreService = (*StoreService)(nil)

// DefaultSearchLimit is used when a search does not set a limit.
const DefaultSearchLimit = 10

// StoreService keeps documents in a chunk store and, optionally, a
// full-text index over their chunks.
type StoreService struct {
	store driven.ChunkStore
	index driven.ChunkIndex
}

// NewStoreService creates a store service. index may be nil, which
// disables search.
func NewStoreService(store driven.ChunkStore, index driven.ChunkIndex) *StoreService {
	return &StoreService{store: store, index: index}
}

// Save stores doc and indexes its chunks.
func (s *StoreService) Save(ctx context.Context, doc domain.SourceDocument) error {
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("save document %s: %w", doc.ID(), err)
	}
	logger.Debug("stored document %s", doc.ID())

	if s.index == nil {
		return nil
	}
	if err := s.index.Index(ctx, doc); err != nil {
		return fmt.Errorf("index document %s: %w", doc.ID(), err)
	}
	logger.Debug("indexed document %s", doc.ID())
	return nil
}

// List returns the stored documents.
func (s *StoreService) List(ctx context.Context) ([]domain.StoredDocument, error) {
	return s.store.ListDocuments(ctx)
}

// Metadata returns the metadata of a stored document.
func (s *StoreService) Metadata(ctx context.Context, docID string) (domain.Metadata, error) {
	return s.store.GetMetadata(ctx, docID)
}

// Chunks returns the chunks of a stored document.
func (s *StoreService) Chunks(ctx context.Context, docID string) ([]domain.Chunk, error) {
	return s.store.GetChunks(ctx, docID)
}

// Restore rebuilds a stored document from its chunks, in stored order.
func (s *StoreService) Restore(ctx context.Context, docID string) (*document.Document, error) {
	md, err := s.store.GetMetadata(ctx, docID)
	if err != nil {
		return nil, err
	}
	chunks, err := s.store.GetChunks(ctx, docID)
	if err != nil {
		return nil, err
	}

	dtype := domain.DocumentSequence
	if name := md.GetString(domain.SectionDocument, domain.MetaType); name != "" {
		if dtype, err = domain.ParseDocumentType(name); err != nil {
			return nil, fmt.Errorf("restore %s: %w", docID, err)
		}
	}

	doc, err := document.New(dtype, document.WithMetadata(md))
	if err != nil {
		return nil, err
	}
	if err := doc.RestoreChunks(chunks); err != nil {
		return nil, fmt.Errorf("restore %s: %w", docID, err)
	}
	logger.Debug("restored document %s (%d chunks)", docID, len(chunks))
	return doc, nil
}

// Delete removes a stored document and its index entries.
func (s *StoreService) Delete(ctx context.Context, docID string) error {
	if err := s.store.DeleteDocument(ctx, docID); err != nil {
		return err
	}
	if s.index == nil {
		return nil
	}
	if err := s.index.Delete(ctx, docID); err != nil {
		return fmt.Errorf("unindex document %s: %w", docID, err)
	}
	return nil
}

// Search queries the chunk index. A limit of zero or less selects
// DefaultSearchLimit.
func (s *StoreService) Search(ctx context.Context, query string, limit int) ([]domain.SearchHit, error) {
	if s.index == nil {
		return nil, fmt.Errorf("%w: no search index configured", domain.ErrInvalidArgument)
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return s.index.Search(ctx, query, limit)
}
