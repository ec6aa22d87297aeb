// Package pdf normalises PDF files with ledongthuc/pdf, one chunk per page.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/custodia-labs/piidoc/internal/core/document"
	"github.com/custodia-labs/piidoc/internal/core/domain"
	"github.com/custodia-labs/piidoc/internal/core/ports/driven"
	"github.com/custodia-labs/piidoc/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// CtxPage is the chunk context field holding the 1-based page number.
const CtxPage = "page"

// Normaliser handles PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Name returns the normaliser name.
func (n *Normaliser) Name() string {
	return "pdf"
}

// Extensions returns the handled file extensions.
func (n *Normaliser) Extensions() []string {
	return []string{".pdf"}
}

// Normalise extracts the plain text of every page into a sequence document.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*document.Document, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil raw document", domain.ErrInvalidArgument)
	}

	reader, err := pdflib.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: parse pdf %s: %w", domain.ErrInvalidDocument, raw.URI, err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := pageText(reader.Page(i))
		if err != nil {
			logger.Warn("pdf %s: skipping page %d: %v", raw.URI, i, err)
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}

	return document.New(domain.DocumentSequence,
		document.WithMetadata(raw.Metadata),
		document.WithRecords(pageRecords(pages)),
	)
}

// pageText extracts the text of one page. The library panics on some
// malformed content streams; that is reported as an error.
func pageText(page pdflib.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed page: %v", r)
		}
	}()
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

// pageRecords keeps non-empty pages, each tagged with its page number.
func pageRecords(pages []string) []domain.Record {
	var recs []domain.Record
	for i, text := range pages {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		recs = append(recs, domain.Record{
			Data:    text,
			Context: domain.Context{CtxPage: i + 1},
		})
	}
	return recs
}
