package driven

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -destination=mocks/mock_chunk_store.go -package=mocks github.com/custodia-labs/piidoc/internal/core/ports/driven ChunkStore

import (
	"context"

	"github.com/custodia-labs/piidoc/internal/core/domain"
)

// ChunkStore persists documents as flat chunk lists.
type ChunkStore interface {
	// SaveDocument stores metadata and chunks, replacing any existing
	// document with the same id.
	SaveDocument(ctx context.Context, doc domain.SourceDocument) error

	// ListDocuments returns all saved documents ordered by id.
	ListDocuments(ctx context.Context) ([]domain.StoredDocument, error)

	// GetMetadata returns the metadata of a saved document.
	GetMetadata(ctx context.Context, docID string) (domain.Metadata, error)

	// GetChunks returns the chunks of a saved document in document order.
	GetChunks(ctx context.Context, docID string) ([]domain.Chunk, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, docID string) error
}
