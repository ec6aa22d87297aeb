package driving

import (
	"context"
	"iter"

	"github.com/custodia-labs/piidoc/internal/core/domain"
)

// VerifyReport is the result of checking PII entities against a document.
type VerifyReport struct {
	// Entities is the number of entities checked.
	Entities int

	// Chunks is the number of distinct chunk ids referenced.
	Chunks int

	// Missing lists referenced chunk ids not present in the document.
	Missing []string

	// OutOfRange lists entities whose span exceeds their chunk payload.
	OutOfRange []*domain.PiiEntity
}

// OK reports whether every entity resolved to a chunk.
func (r *VerifyReport) OK() bool {
	return len(r.Missing) == 0 && len(r.OutOfRange) == 0
}

// PiiService checks PII annotations against source documents.
type PiiService interface {
	// Verify checks that every entity references an existing chunk and
	// that its span fits that chunk's payload.
	Verify(ctx context.Context, doc domain.SourceDocument, entities iter.Seq[*domain.PiiEntity]) (*VerifyReport, error)
}
