// Package outline builds tree records from a flat stream of headings and
// text blocks, as produced by Markdown and word processor files.
package outline

import (
	"github.com/custodia-labs/piidoc/internal/core/domain"
)

type frame struct {
	level int
	path  []int
}

// Builder nests text blocks under the closest preceding heading. A heading
// closes every open heading of the same or deeper level.
type Builder struct {
	roots    []domain.Record
	stack    []frame
	headings int
}

// Heading opens a node at the given level (1 is the outermost).
func (b *Builder) Heading(level int, title string) {
	for len(b.stack) > 0 && b.stack[len(b.stack)-1].level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	path := b.append(domain.Record{Data: title})
	b.stack = append(b.stack, frame{level: level, path: path})
	b.headings++
}

// Text adds a block to the innermost open heading.
func (b *Builder) Text(text string) {
	if text == "" {
		return
	}
	b.append(domain.Record{Data: text})
}

func (b *Builder) append(rec domain.Record) []int {
	if len(b.stack) == 0 {
		b.roots = append(b.roots, rec)
		return []int{len(b.roots) - 1}
	}
	parent := b.stack[len(b.stack)-1].path
	node := b.node(parent)
	node.Children = append(node.Children, rec)
	return append(append([]int(nil), parent...), len(node.Children)-1)
}

func (b *Builder) node(path []int) *domain.Record {
	n := &b.roots[path[0]]
	for _, i := range path[1:] {
		n = &n.Children[i]
	}
	return n
}

// HasHeadings reports whether any heading was added.
func (b *Builder) HasHeadings() bool {
	return b.headings > 0
}

// Type returns tree when the outline has headings, sequence otherwise.
func (b *Builder) Type() domain.DocumentType {
	if b.HasHeadings() {
		return domain.DocumentTree
	}
	return domain.DocumentSequence
}

// Records returns the top-level records.
func (b *Builder) Records() []domain.Record {
	return b.roots
}
