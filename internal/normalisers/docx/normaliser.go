// Package docx normalises Word documents with go-docx.
//
// Paragraphs styled as headings open tree nodes, like Markdown headings;
// other paragraphs become chunks under the closest heading. A document
// without headings becomes a sequence of paragraphs.
package docx

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/custodia-labs/piidoc/internal/core/document"
	"github.com/custodia-labs/piidoc/internal/core/domain"
	"github.com/custodia-labs/piidoc/internal/core/ports/driven"
	"github.com/custodia-labs/piidoc/internal/normalisers/outline"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Name returns the normaliser name.
func (n *Normaliser) Name() string {
	return "docx"
}

// Extensions returns the handled file extensions.
func (n *Normaliser) Extensions() []string {
	return []string{".docx"}
}

// Normalise converts the paragraphs of a DOCX file into a document.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*document.Document, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil raw document", domain.ErrInvalidArgument)
	}

	f, err := docx.Parse(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: parse docx %s: %w", domain.ErrInvalidDocument, raw.URI, err)
	}

	var b outline.Builder
	for _, item := range f.Document.Body.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := paragraphText(para)
		if text == "" {
			continue
		}
		if level := headingLevel(para); level > 0 {
			b.Heading(level, text)
			continue
		}
		b.Text(text)
	}

	return document.New(b.Type(),
		document.WithMetadata(raw.Metadata),
		document.WithRecords(b.Records()),
	)
}

func headingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	return styleLevel(para.Properties.Style.Val)
}

// styleLevel maps "Heading1" or "heading 1" to 1. Non-heading styles are 0.
func styleLevel(style string) int {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	rest, ok := strings.CutPrefix(s, "heading")
	if !ok {
		return 0
	}
	level, err := strconv.Atoi(rest)
	if err != nil || level < 1 || level > 9 {
		return 0
	}
	return level
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
