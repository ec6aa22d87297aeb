// Package markdown normalises Markdown files with goldmark.
//
// Headings open tree nodes holding the heading text; each other top-level
// block becomes a chunk under the closest preceding heading. A file
// without headings becomes a sequence of blocks.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/custodia-labs/piidoc/internal/core/document"
	"github.com/custodia-labs/piidoc/internal/core/domain"
	"github.com/custodia-labs/piidoc/internal/core/ports/driven"
	"github.com/custodia-labs/piidoc/internal/normalisers/outline"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct {
	md goldmark.Markdown
}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{md: goldmark.New()}
}

// Name returns the normaliser name.
func (n *Normaliser) Name() string {
	return "markdown"
}

// Extensions returns the handled file extensions.
func (n *Normaliser) Extensions() []string {
	return []string{".md", ".markdown"}
}

// Normalise parses the Markdown AST into a document.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*document.Document, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil raw document", domain.ErrInvalidArgument)
	}

	src := raw.Content
	root := n.md.Parser().Parse(text.NewReader(src))

	var b outline.Builder
	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if h, ok := node.(*ast.Heading); ok {
			b.Heading(h.Level, inlineText(h, src))
			continue
		}
		b.Text(blockText(node, src))
	}

	return document.New(b.Type(),
		document.WithMetadata(raw.Metadata),
		document.WithRecords(b.Records()),
	)
}

// blockText returns the plain text of a block node. Code keeps its lines;
// containers join their children with newlines.
func blockText(n ast.Node, src []byte) string {
	switch n.Kind() {
	case ast.KindFencedCodeBlock, ast.KindCodeBlock, ast.KindHTMLBlock:
		var buf bytes.Buffer
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		return strings.TrimRight(buf.String(), "\n")
	case ast.KindParagraph, ast.KindTextBlock:
		return inlineText(n, src)
	case ast.KindThematicBreak:
		return ""
	}

	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t := blockText(c, src); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

// inlineText concatenates the text of the inline children of n, without markup.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := node.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(t.Value)
		case *ast.AutoLink:
			buf.Write(t.URL(src))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}
