package mcp

import (
	"context"

	"github.com/custodia-labs/piidoc/internal/core/document"
	"github.com/custodia-labs/piidoc/internal/core/domain"
	"github.com/custodia-labs/piidoc/internal/core/ports/driving"
)

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	doc      *document.Document
	info     *driving.DocumentInfo
	err      error
	lastOpen driving.OpenOptions
}

func (m *mockDocumentService) Open(_ context.Context, _ string, opts driving.OpenOptions) (*document.Document, error) {
	m.lastOpen = opts
	return m.doc, m.err
}

func (m *mockDocumentService) Save(_ context.Context, _ domain.SourceDocument, _ string, _ driving.SaveOptions) error {
	return m.err
}

func (m *mockDocumentService) Convert(_ context.Context, _, _ string, _ driving.OpenOptions, _ driving.SaveOptions) error {
	return m.err
}

func (m *mockDocumentService) Info(_ context.Context, _ string) (*driving.DocumentInfo, error) {
	return m.info, m.err
}

func (m *mockDocumentService) Validate(_ context.Context, _ string) error {
	return m.err
}

// mockStoreService is a mock implementation of driving.StoreService.
type mockStoreService struct {
	docs      []domain.StoredDocument
	metadata  domain.Metadata
	chunks    []domain.Chunk
	hits      []domain.SearchHit
	err       error
	lastLimit int
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

func (m *mockStoreService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockStoreService) Search(_ context.Context, _ string, limit int) ([]domain.SearchHit, error) {
	m.lastLimit = limit
	return m.hits, m.err
}
