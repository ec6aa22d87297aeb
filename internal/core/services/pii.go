package services

import (
	"context"
	"fmt"
	"iter"
	"unicode/utf8"

	"github.com/custodia-labs/piidoc/internal/core/domain"
	"github.com/custodia-labs/piidoc/internal/core/ports/driving"
	"github.com/custodia-labs/piidoc/internal/logger"
)

// Ensure PiiService implements the interface.
var _ driving.PiiService = (*PiiService)(nil)

// PiiService checks PII annotations against source documents.
type PiiService struct{}

// NewPiiService creates a PII service.
func NewPiiService() *PiiService {
	return &PiiService{}
}

// Verify resolves every entity chunk id against the document chunk stream.
// Missing ids are reported once each, in order of first reference.
func (s *PiiService) Verify(ctx context.Context, doc domain.SourceDocument, entities iter.Seq[*domain.PiiEntity]) (*driving.VerifyReport, error) {
	lengths := make(map[string]int)
	for c := range doc.IterFull(false) {
		lengths[c.ID] = payloadLength(c.Data)
	}

	report := &driving.VerifyReport{}
	seen := make(map[string]bool)
	missing := make(map[string]bool)
	for e := range entities {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Entities++
		seen[e.ChunkID] = true

		size, ok := lengths[e.ChunkID]
		if !ok {
			if !missing[e.ChunkID] {
				missing[e.ChunkID] = true
				report.Missing = append(report.Missing, e.ChunkID)
			}
			continue
		}
		if e.Pos < 0 || e.End() > size {
			report.OutOfRange = append(report.OutOfRange, e)
		}
	}
	report.Chunks = len(seen)

	logger.Debug("verified %d entities over %d chunks of %s: %d missing, %d out of range",
		report.Entities, report.Chunks, doc.ID(), len(report.Missing), len(report.OutOfRange))
	return report, nil
}

func payloadLength(data any) int {
	switch v := data.(type) {
	case nil:
		return 0
	case string:
		return utf8.RuneCountInString(v)
	default:
		return utf8.RuneCountInString(fmt.Sprint(v))
	}
}
