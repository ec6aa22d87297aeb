// Package rawtext normalises plain text files, one chunk per line.
//
// With a positive indent, leading whitespace is read as hierarchy: a line
// indented one step deeper than the previous one becomes its child, and
// the result is a tree document. Files without any indented line, or read
// with indent 0, become sequence documents.
package rawtext

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/piidoc/internal/core/document"
	"github.com/custodia-labs/piidoc/internal/core/domain"
	"github.com/custodia-labs/piidoc/internal/core/ports/driven"
	"github.com/custodia-labs/piidoc/internal/normalisers/outline"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

const maxLine = 1024 * 1024

// Normaliser handles plain text documents.
type Normaliser struct {
	indent int
}

// New creates a raw text normaliser. indent is the number of spaces per
// hierarchy level; a tab counts as one level.
func New(indent int) *Normaliser {
	if indent < 0 {
		indent = 0
	}
	return &Normaliser{indent: indent}
}

// Name returns the normaliser name.
func (n *Normaliser) Name() string {
	return "rawtext"
}

// Extensions returns the handled file extensions.
func (n *Normaliser) Extensions() []string {
	return []string{".txt", ".text"}
}

// Normalise reads one chunk per non-blank line.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*document.Document, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil raw document", domain.ErrInvalidArgument)
	}

	var b outline.Builder
	maxLevel := 0

	scanner := bufio.NewScanner(bytes.NewReader(raw.Content))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimRight(scanner.Text(), " \t\r")
		text := strings.TrimLeft(line, " \t")
		if text == "" {
			continue
		}
		level := n.level(line[:len(line)-len(text)])
		maxLevel = max(maxLevel, level)
		b.Heading(level+1, text)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrFile, raw.URI, err)
	}

	dtype := domain.DocumentSequence
	if maxLevel > 0 {
		dtype = domain.DocumentTree
	}
	return document.New(dtype,
		document.WithMetadata(raw.Metadata),
		document.WithRecords(b.Records()),
	)
}

func (n *Normaliser) level(lead string) int {
	if n.indent == 0 {
		return 0
	}
	spaces := 0
	for _, r := range lead {
		if r == '\t' {
			spaces += n.indent
		} else {
			spaces++
		}
	}
	return spaces / n.indent
}
