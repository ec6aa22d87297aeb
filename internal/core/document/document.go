// Package document implements source documents and their chunk streams.
//
// A Document composes one topology (sequence, tree or table) with the
// shared metadata and iteration logic. Iteration is lazy: IterStructural
// yields normalized records, IterFull flattens them into chunks and, when
// asked to, attaches neighbour and metadata context.
package document

import (
	"fmt"
	"iter"
	"slices"

	"github.com/google/uuid"

	"github.com/custodia-labs/piidoc/internal/core/domain"
)

// newDocumentID generates ids for documents created without one.
var newDocumentID = func() string {
	return uuid.New().String()
}

// topology supplies the structure-specific parts of a Document.
type topology interface {
	kind() domain.DocumentType

	// structural assigns identifiers to normalized records.
	structural(recs iter.Seq[domain.Record]) iter.Seq[domain.Record]

	// flatten turns structural records into chunk records plus the
	// positional context each chunk receives.
	flatten(recs iter.Seq[domain.Record], md domain.Metadata) iter.Seq2[domain.Record, domain.Context]

	// add appends one chunk to the document records.
	add(d *Document, c domain.Chunk) error
}

// Document is a source document: metadata sections plus an ordered
// collection of chunks arranged by its topology.
type Document struct {
	meta        domain.Metadata
	withContext bool
	topo        topology

	records []domain.Record
	source  iter.Seq[domain.Record]

	// incremental builder state
	treeStack []treeFrame
	rowOpen   bool
	rowValue  any
}

// Option configures a Document.
type Option func(*Document)

// WithMetadata sets the initial metadata. It is deep-copied.
func WithMetadata(md domain.Metadata) Option {
	return func(d *Document) {
		for name, values := range md {
			d.meta.Merge(name, values)
		}
	}
}

// WithContext sets the default for Chunks.
func WithContext(enabled bool) Option {
	return func(d *Document) {
		d.withContext = enabled
	}
}

// WithRecords sets the complete structural record set.
func WithRecords(recs []domain.Record) Option {
	return func(d *Document) {
		d.records = slices.Clone(recs)
		d.source = nil
	}
}

// WithSource sets a lazy record source. The document is only restartable
// if the source is.
func WithSource(src iter.Seq[domain.Record]) Option {
	return func(d *Document) {
		d.source = src
		d.records = nil
	}
}

// New creates a document of the given type.
func New(dtype domain.DocumentType, opts ...Option) (*Document, error) {
	var topo topology
	switch dtype {
	case domain.DocumentSequence:
		topo = sequence{}
	case domain.DocumentTree:
		topo = tree{}
	case domain.DocumentTable:
		topo = table{}
	default:
		return nil, fmt.Errorf("%w: unknown document type %q", domain.ErrInvalidDocument, dtype)
	}

	d := &Document{meta: domain.NewMetadata(), topo: topo}
	for _, opt := range opts {
		opt(d)
	}
	d.meta.Merge(domain.SectionDocument, map[string]any{domain.MetaType: dtype.String()})
	if d.ID() == "" {
		d.SetID("")
	}
	return d, nil
}

// NewSequence creates a sequence document.
func NewSequence(opts ...Option) *Document {
	d, _ := New(domain.DocumentSequence, opts...)
	return d
}

// NewTree creates a tree document.
func NewTree(opts ...Option) *Document {
	d, _ := New(domain.DocumentTree, opts...)
	return d
}

// NewTable creates a table document.
func NewTable(opts ...Option) *Document {
	d, _ := New(domain.DocumentTable, opts...)
	return d
}

// FromValues creates a document from raw decoded elements: bare payloads
// or mappings with data, id, context and chunks keys.
func FromValues(dtype domain.DocumentType, values []any, opts ...Option) (*Document, error) {
	recs, err := domain.RecordsFromValues(values)
	if err != nil {
		return nil, err
	}
	return New(dtype, append(opts, WithRecords(recs))...)
}

// Metadata returns a deep copy of the document metadata.
func (d *Document) Metadata() domain.Metadata {
	return d.meta.Clone()
}

// ID returns the document identifier.
func (d *Document) ID() string {
	return d.meta.GetString(domain.SectionDocument, domain.MetaID)
}

// SetID sets the document identifier. An empty id generates a random one.
func (d *Document) SetID(id string) {
	if id == "" {
		id = newDocumentID()
	}
	d.meta.Merge(domain.SectionDocument, map[string]any{domain.MetaID: id})
}

// AddMetadata deep-merges values into the named metadata section.
func (d *Document) AddMetadata(section string, values map[string]any) {
	d.meta.Merge(section, values)
}

// Type returns the document topology.
func (d *Document) Type() domain.DocumentType {
	return d.topology().kind()
}

// String returns a short description of the document.
func (d *Document) String() string {
	return fmt.Sprintf("<SrcDocument %s>", d.ID())
}

func (d *Document) topology() topology {
	if d == nil || d.topo == nil {
		panic(fmt.Errorf("%w: document has no topology", domain.ErrUnimplemented))
	}
	return d.topo
}

func (d *Document) base() iter.Seq[domain.Record] {
	if d.source != nil {
		return d.source
	}
	return slices.Values(d.records)
}

// IterStructural returns the top-level records with identifiers assigned.
func (d *Document) IterStructural() iter.Seq[domain.Record] {
	return d.topology().structural(d.base())
}

// IterFull returns the flattened chunk stream. With context, each chunk
// carries its neighbours' payloads and a read-only view of every metadata
// section.
func (d *Document) IterFull(withContext bool) iter.Seq[domain.Chunk] {
	topo := d.topology()
	return func(yield func(domain.Chunk) bool) {
		recs := topo.flatten(topo.structural(d.base()), d.meta)

		if !withContext {
			gen := NewChunkGenerator()
			for rec, ctx := range recs {
				if !yield(gen.Generate(rec, ctx)) {
					return
				}
			}
			return
		}

		gen := NewContextChunkGenerator(d.meta)
		for rec, ctx := range recs {
			if c, ok := gen.Push(rec, ctx); ok {
				if !yield(c) {
					return
				}
			}
		}
		if c, ok := gen.Flush(); ok {
			yield(c)
		}
	}
}

// Chunks returns the chunk stream using the construction-time context default.
func (d *Document) Chunks() iter.Seq[domain.Chunk] {
	return d.IterFull(d.withContext)
}

// AddChunk appends a chunk to the document, rebuilding its structure from
// positional context. Chunks must be added in iteration order.
func (d *Document) AddChunk(c domain.Chunk) error {
	topo := d.topology()
	if d.source != nil {
		return fmt.Errorf("%w: cannot add chunks to a document with a streaming source", domain.ErrInvalidArgument)
	}
	return topo.add(d, c)
}

// RestoreChunks adds a flattened chunk stream, as kept by a chunk store.
// For trees, payload-less containers dropped by flattening are recreated
// from the dotted identifiers and levels of their descendants.
func (d *Document) RestoreChunks(chunks []domain.Chunk) error {
	if d.topology().kind() != domain.DocumentTree {
		for _, c := range chunks {
			if err := d.AddChunk(c); err != nil {
				return err
			}
		}
		return nil
	}

	var r treeRestorer
	for _, c := range chunks {
		if err := r.add(d, c); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of top-level records held in memory.
func (d *Document) Len() int {
	return len(d.records)
}

// storedContext strips positional fields, metadata views and the default
// language from a chunk context before it is kept in a record.
func (d *Document) storedContext(ctx domain.Context) domain.Context {
	if len(ctx) == 0 {
		return nil
	}
	lang := d.meta.GetString(domain.SectionDocument, domain.MetaMainLang)
	out := make(domain.Context, len(ctx))
	for k, v := range ctx {
		if domain.IsStructuralContextField(k) {
			continue
		}
		if _, ok := d.meta[k]; ok {
			continue
		}
		if k == domain.CtxLang && lang != "" && v == lang {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
