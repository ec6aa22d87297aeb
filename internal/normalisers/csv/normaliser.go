// Package csv normalises comma separated files into table documents.
package csv

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/piidoc/internal/core/document"
	"github.com/custodia-labs/piidoc/internal/core/domain"
	"github.com/custodia-labs/piidoc/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles CSV files. The first row holds column names.
type Normaliser struct {
	comma rune
}

// Option configures the normaliser.
type Option func(*Normaliser)

// WithComma sets the field delimiter.
func WithComma(r rune) Option {
	return func(n *Normaliser) {
		n.comma = r
	}
}

// New creates a CSV normaliser.
func New(opts ...Option) *Normaliser {
	n := &Normaliser{comma: ','}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Name returns the normaliser name.
func (n *Normaliser) Name() string {
	return "csv"
}

// Extensions returns the handled file extensions.
func (n *Normaliser) Extensions() []string {
	if n.comma == '\t' {
		return []string{".tsv"}
	}
	return []string{".csv"}
}

// Normalise reads the header row into column.name metadata and every
// other row into a table row.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*document.Document, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil raw document", domain.ErrInvalidArgument)
	}

	r := csv.NewReader(bytes.NewReader(raw.Content))
	r.Comma = n.comma
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	var header []string
	var rows []domain.Record
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: parse csv %s: %w", domain.ErrInvalidDocument, raw.URI, err)
		}
		if header == nil {
			header = fields
			continue
		}
		cells := make([]any, len(fields))
		for i, f := range fields {
			cells[i] = f
		}
		rows = append(rows, domain.Record{Data: cells})
	}

	opts := []document.Option{document.WithMetadata(raw.Metadata), document.WithRecords(rows)}
	if header != nil {
		names := make([]any, len(header))
		for i, h := range header {
			names[i] = h
		}
		opts = append(opts, document.WithMetadata(domain.Metadata{
			domain.SectionColumn: {domain.ColumnName: names},
		}))
	}
	return document.New(domain.DocumentTable, opts...)
}
