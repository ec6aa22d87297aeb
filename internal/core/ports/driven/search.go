package driven

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -destination=mocks/mock_chunk_index.go -package=mocks github.com/custodia-labs/piidoc/internal/core/ports/driven ChunkIndex

import (
	"context"

	"github.com/custodia-labs/piidoc/internal/core/domain"
)

// ChunkIndex is a full-text index over stored chunks.
type ChunkIndex interface {
	// Index adds every chunk of doc, replacing earlier entries for the
	// same document.
	Index(ctx context.Context, doc domain.SourceDocument) error

	// Search returns at most limit chunks matching query, best first.
	Search(ctx context.Context, query string, limit int) ([]domain.SearchHit, error)

	// Delete removes every chunk of a document.
	Delete(ctx context.Context, docID string) error

	// Close releases the index.
	Close() error
}
