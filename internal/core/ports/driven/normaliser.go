package driven

import (
	"context"

	"github.com/custodia-labs/piidoc/internal/core/document"
	"github.com/custodia-labs/piidoc/internal/core/domain"
)

// Normaliser turns a raw input file into a source document.
// Each normaliser handles specific file extensions.
type Normaliser interface {
	// Name returns the normaliser name.
	Name() string

	// Extensions returns the file extensions handled, with leading dot.
	Extensions() []string

	// Normalise builds a document from raw bytes.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*document.Document, error)
}

// NormaliserRegistry selects the normaliser for a raw document.
type NormaliserRegistry interface {
	// Normalise builds a document using the normaliser for the raw URI extension.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*document.Document, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// Supports reports whether a normaliser handles path.
	Supports(path string) bool

	// Extensions returns all extensions that can be normalised, sorted.
	Extensions() []string
}
