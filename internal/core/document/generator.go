package document

import (
	"maps"
	"strconv"

	"github.com/custodia-labs/piidoc/internal/core/domain"
)

// ChunkGenerator converts structural records into chunks, assigning
// sequential 1-based identifiers to records that carry none. Records with
// an explicit identifier do not advance the counter.
type ChunkGenerator struct {
	counter int
}

// NewChunkGenerator creates a generator with its counter at zero.
func NewChunkGenerator() *ChunkGenerator {
	return &ChunkGenerator{}
}

// Generate builds one chunk. Keys in ctx override keys in the record context.
func (g *ChunkGenerator) Generate(rec domain.Record, ctx domain.Context) domain.Chunk {
	id := rec.ID
	if id == "" {
		g.counter++
		id = strconv.Itoa(g.counter)
	}

	var merged domain.Context
	if len(rec.Context) > 0 || len(ctx) > 0 {
		merged = make(domain.Context, len(rec.Context)+len(ctx))
		maps.Copy(merged, rec.Context)
		maps.Copy(merged, ctx)
	}
	return domain.NewChunk(id, rec.Data, merged)
}

// ContextChunkGenerator adds the payloads of neighbouring chunks to each
// chunk's context under before and after, plus a read-only view of every
// metadata section.
//
// Emission is delayed by one record: Push returns the chunk whose successor
// has just arrived, and Flush returns the last chunk. The generator must
// not be shared between iterations.
type ContextChunkGenerator struct {
	gen      *ChunkGenerator
	sections map[string]domain.Section
	lang     string

	first   *domain.Chunk
	current *domain.Chunk
}

// NewContextChunkGenerator snapshots md into read-only section views.
func NewContextChunkGenerator(md domain.Metadata) *ContextChunkGenerator {
	g := &ContextChunkGenerator{
		gen:      NewChunkGenerator(),
		sections: make(map[string]domain.Section, len(md)),
	}
	for name, values := range md {
		g.sections[name] = domain.NewSection(values)
	}
	if doc, ok := md[domain.SectionDocument]; ok {
		g.lang, _ = doc[domain.MetaMainLang].(string)
	}
	return g
}

func (g *ContextChunkGenerator) build(rec domain.Record, ctx domain.Context) *domain.Chunk {
	full := make(domain.Context, len(g.sections)+len(ctx)+2)
	for name, sec := range g.sections {
		full[name] = sec
	}
	maps.Copy(full, ctx)
	c := g.gen.Generate(rec, full)
	if c.Context == nil {
		c.Context = domain.Context{}
	}
	if g.lang != "" {
		if _, ok := c.Context[domain.CtxLang]; !ok {
			c.Context[domain.CtxLang] = g.lang
		}
	}
	return &c
}

// Push feeds the next record. It returns a chunk when one becomes ready.
func (g *ContextChunkGenerator) Push(rec domain.Record, ctx domain.Context) (domain.Chunk, bool) {
	next := g.build(rec, ctx)

	if g.first == nil {
		g.first = next
		return domain.Chunk{}, false
	}
	if g.current == nil {
		out := *g.first
		out.Context[domain.CtxAfter] = next.Data
		g.current = next
		return out, true
	}
	out := *g.current
	out.Context[domain.CtxBefore] = g.first.Data
	out.Context[domain.CtxAfter] = next.Data
	g.first = g.current
	g.current = next
	return out, true
}

// Flush signals the end of the stream and returns the last pending chunk,
// if any. The generator is reset afterwards.
func (g *ContextChunkGenerator) Flush() (domain.Chunk, bool) {
	defer func() {
		g.first = nil
		g.current = nil
	}()

	switch {
	case g.first == nil:
		return domain.Chunk{}, false
	case g.current == nil:
		return *g.first, true
	default:
		out := *g.current
		out.Context[domain.CtxBefore] = g.first.Data
		return out, true
	}
}
