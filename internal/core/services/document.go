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

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService opens, writes and converts source documents.
type DocumentService struct {
	loader      driven.Loader
	normalisers driven.NormaliserRegistry
	files       driven.DocumentFiles
}

// NewDocumentService creates a document service. normalisers may be nil,
// in which case only serialized document files can be opened.
func NewDocumentService(loader driven.Loader, normalisers driven.NormaliserRegistry, files driven.DocumentFiles) *DocumentService {
	return &DocumentService{
		loader:      loader,
		normalisers: normalisers,
		files:       files,
	}
}

// Open reads path as a serialized document when a normaliser does not
// claim its extension.
func (s *DocumentService) Open(ctx context.Context, path string, opts driving.OpenOptions) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.normalisers != nil && s.normalisers.Supports(path) {
		logger.Debug("normalising %s", path)
		raw, err := s.files.ReadRaw(path)
		if err != nil {
			return nil, err
		}
		raw.Metadata = opts.Metadata
		doc, err := s.normalisers.Normalise(ctx, raw)
		if err != nil {
			return nil, err
		}
		return rebuild(doc, opts)
	}

	logger.Debug("loading document %s", path)
	return s.loader.LoadFile(path, driven.LoadOptions{
		Metadata:    opts.Metadata,
		WithContext: opts.WithContext,
		Validate:    opts.Validate,
	})
}

// rebuild applies open options to a normalised document.
func rebuild(doc *document.Document, opts driving.OpenOptions) (*document.Document, error) {
	if !opts.WithContext && len(opts.Metadata) == 0 {
		return doc, nil
	}
	return document.New(doc.Type(),
		document.WithMetadata(doc.Metadata()),
		document.WithMetadata(opts.Metadata),
		document.WithRecords(collectRecords(doc)),
		document.WithContext(opts.WithContext),
	)
}

func collectRecords(doc domain.SourceDocument) []domain.Record {
	var recs []domain.Record
	for rec := range doc.IterStructural() {
		recs = append(recs, rec)
	}
	return recs
}

// Save writes doc to path.
func (s *DocumentService) Save(ctx context.Context, doc domain.SourceDocument, path string, opts driving.SaveOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger.Debug("writing document %s to %s", doc.ID(), path)
	return s.files.DumpFile(doc, path, opts.Format, driven.EncodeOptions{
		Indent:        opts.Indent,
		ContextFields: opts.ContextFields,
	})
}

// Convert opens in and writes it to out.
func (s *DocumentService) Convert(ctx context.Context, in, out string, open driving.OpenOptions, save driving.SaveOptions) error {
	doc, err := s.Open(ctx, in, open)
	if err != nil {
		return err
	}
	if err := s.Save(ctx, doc, out, save); err != nil {
		return fmt.Errorf("convert %s: %w", in, err)
	}
	return nil
}

// Info opens path and summarises it.
func (s *DocumentService) Info(ctx context.Context, path string) (*driving.DocumentInfo, error) {
	doc, err := s.Open(ctx, path, driving.OpenOptions{})
	if err != nil {
		return nil, err
	}

	count := 0
	for range doc.IterFull(false) {
		count++
	}
	return &driving.DocumentInfo{
		ID:         doc.ID(),
		Type:       doc.Type(),
		ChunkCount: count,
		Metadata:   doc.Metadata(),
	}, nil
}

// Validate loads path with schema validation enabled.
func (s *DocumentService) Validate(ctx context.Context, path string) error {
	_, err := s.Open(ctx, path, driving.OpenOptions{Validate: true})
	return err
}
