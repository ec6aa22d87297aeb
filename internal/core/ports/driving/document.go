package driving

import (
	"context"

	"github.com/custodia-labs/piidoc/internal/core/document"
	"github.com/custodia-labs/piidoc/internal/core/domain"
)

// OpenOptions controls how an input file becomes a document.
type OpenOptions struct {
	// WithContext sets the document default for context-aware iteration.
	WithContext bool

	// Validate checks serialized documents against the file schema.
	Validate bool

	// Metadata is merged into the document header.
	Metadata domain.Metadata
}

// SaveOptions controls document output.
type SaveOptions struct {
	// Format forces the output format (yaml, json, text). When empty it is
	// picked from the output path extension.
	Format string

	// Indent is the JSON indent, or the per-level indent for text output.
	Indent int

	// ContextFields selects the context fields written out.
	ContextFields []string
}

// DocumentInfo summarises a document for display.
type DocumentInfo struct {
	ID         string
	Type       domain.DocumentType
	ChunkCount int
	Metadata   domain.Metadata
}

// DocumentService opens, writes and converts source documents.
type DocumentService interface {
	// Open reads a serialized document (YAML/JSON) or normalises a raw
	// input (text, Markdown, CSV, PDF, DOCX) picked by extension.
	Open(ctx context.Context, path string, opts OpenOptions) (*document.Document, error)

	// Save writes doc to path. A path of "-" writes stdout.
	Save(ctx context.Context, doc domain.SourceDocument, path string, opts SaveOptions) error

	// Convert opens in and saves it to out.
	Convert(ctx context.Context, in, out string, open OpenOptions, save SaveOptions) error

	// Info opens path and summarises it.
	Info(ctx context.Context, path string) (*DocumentInfo, error)

	// Validate checks a serialized document file against the file schema.
	Validate(ctx context.Context, path string) error
}
