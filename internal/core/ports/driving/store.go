package driving

import (
	"context"

	"github.com/custodia-labs/piidoc/internal/core/document"
	"github.com/custodia-labs/piidoc/internal/core/domain"
)

// StoreService manages documents held in the chunk store.
type StoreService interface {
	// Save stores a document and, when configured, indexes its chunks.
	Save(ctx context.Context, doc domain.SourceDocument) error

	// List returns the stored documents.
	List(ctx context.Context) ([]domain.StoredDocument, error)

	// Metadata returns the metadata of a stored document.
	Metadata(ctx context.Context, docID string) (domain.Metadata, error)

	// Chunks returns the chunks of a stored document.
	Chunks(ctx context.Context, docID string) ([]domain.Chunk, error)

	// Restore rebuilds a stored document chunk by chunk.
	Restore(ctx context.Context, docID string) (*document.Document, error)

	// Delete removes a stored document.
	Delete(ctx context.Context, docID string) error

	// Search finds stored chunks matching query.
	Search(ctx context.Context, query string, limit int) ([]domain.SearchHit, error)
}
