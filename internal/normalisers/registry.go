package normalisers

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/custodia-labs/piidoc/internal/core/document"
	"github.com/custodia-labs/piidoc/internal/core/domain"
	"github.com/custodia-labs/piidoc/internal/core/ports/driven"
	"github.com/custodia-labs/piidoc/internal/logger"
	"github.com/custodia-labs/piidoc/internal/normalisers/csv"
	"github.com/custodia-labs/piidoc/internal/normalisers/docx"
	"github.com/custodia-labs/piidoc/internal/normalisers/markdown"
	"github.com/custodia-labs/piidoc/internal/normalisers/pdf"
	"github.com/custodia-labs/piidoc/internal/normalisers/rawtext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry maps file extensions to normalisers. A later registration for
// the same extension replaces the earlier one.
type Registry struct {
	byExt map[string]driven.Normaliser
}

// NewRegistry creates a registry holding the given normalisers.
func NewRegistry(normalisers ...driven.Normaliser) *Registry {
	r := &Registry{byExt: make(map[string]driven.Normaliser)}
	for _, n := range normalisers {
		r.Register(n)
	}
	return r
}

// Default returns a registry with every built-in normaliser. rawIndent is
// the number of leading spaces per tree level in raw text files; 0 reads
// them as flat sequences.
func Default(rawIndent int) *Registry {
	return NewRegistry(
		rawtext.New(rawIndent),
		markdown.New(),
		csv.New(),
		pdf.New(),
		docx.New(),
	)
}

// Register adds a normaliser for each of its extensions.
func (r *Registry) Register(n driven.Normaliser) {
	for _, ext := range n.Extensions() {
		r.byExt[strings.ToLower(ext)] = n
	}
}

func (r *Registry) lookup(path string) (driven.Normaliser, bool) {
	n, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return n, ok
}

// Supports reports whether a normaliser handles path.
func (r *Registry) Supports(path string) bool {
	_, ok := r.lookup(path)
	return ok
}

// Normalise builds a document with the normaliser for the raw URI.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*document.Document, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil raw document", domain.ErrInvalidArgument)
	}
	n, ok := r.lookup(raw.URI)
	if !ok {
		return nil, fmt.Errorf("%w: no normaliser for %s", domain.ErrInvalidArgument, raw.URI)
	}
	logger.Debug("normalising %s with %s", raw.URI, n.Name())
	return n.Normalise(ctx, raw)
}

// Extensions returns all registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}
