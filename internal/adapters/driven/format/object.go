package format

import (
	"slices"

	"github.com/custodia-labs/piidoc/internal/core/domain"
)

// fileObject is the serialized shape of a source document.
type fileObject struct {
	Format string         `json:"format" yaml:"format"`
	Header map[string]any `json:"header" yaml:"header"`
	Chunks []chunkObject  `json:"chunks" yaml:"chunks"`
}

// chunkObject is one structural record. Field order is the output order.
type chunkObject struct {
	ID      string         `json:"id,omitempty" yaml:"id,omitempty"`
	Data    any            `json:"data,omitempty" yaml:"data,omitempty"`
	Context map[string]any `json:"context,omitempty" yaml:"context,omitempty"`
	Chunks  []chunkObject  `json:"chunks,omitempty" yaml:"chunks,omitempty"`
}

// contextFilter selects the context fields that are written out.
// With no explicit fields, every field except the structural ones is kept.
func contextFilter(fields []string) func(domain.Context) domain.Context {
	return func(ctx domain.Context) domain.Context {
		out := domain.Context{}
		for k, v := range ctx {
			listed := slices.Contains(fields, k)
			if fields == nil && domain.IsStructuralContextField(k) {
				continue
			}
			if fields != nil && !listed {
				continue
			}
			out[k] = v
		}
		return out
	}
}

// buildObject walks the structural records of doc. dataFn may wrap payloads
// for a specific encoder.
func buildObject(doc domain.SourceDocument, fields []string, dataFn func(any) any) fileObject {
	filter := contextFilter(fields)
	obj := fileObject{
		Format: domain.FormatSrcDocument,
		Header: doc.Metadata().AsMap(),
		Chunks: []chunkObject{},
	}
	for rec := range doc.IterStructural() {
		obj.Chunks = append(obj.Chunks, buildChunk(rec, filter, dataFn))
	}
	return obj
}

func buildChunk(rec domain.Record, filter func(domain.Context) domain.Context, dataFn func(any) any) chunkObject {
	c := chunkObject{ID: rec.ID}
	if rec.Data != nil {
		c.Data = rec.Data
		if dataFn != nil {
			c.Data = dataFn(rec.Data)
		}
	}
	if ctx := filter(rec.Context); len(ctx) > 0 {
		c.Context = map[string]any(ctx)
	}
	for _, child := range rec.Children {
		c.Chunks = append(c.Chunks, buildChunk(child, filter, dataFn))
	}
	return c
}
