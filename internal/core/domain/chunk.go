package domain

import (
	"maps"
	"reflect"
)

// Context is the per-chunk mapping of positional facts and metadata views.
type Context map[string]any

// Clone returns a shallow copy of the context. Nested values are shared.
func (c Context) Clone() Context {
	if c == nil {
		return nil
	}
	return maps.Clone(c)
}

// Chunk is the atomic addressable unit of a document.
type Chunk struct {
	// ID is never empty for chunks produced by a document.
	ID string

	// Data is the opaque payload, usually text.
	Data any

	// Context holds structural facts (level, row, column, before, after)
	// and read-only metadata section views. Nil when there is none.
	Context Context
}

// NewChunk builds a chunk. An empty context is stored as nil.
func NewChunk(id string, data any, ctx Context) Chunk {
	if len(ctx) == 0 {
		ctx = nil
	}
	return Chunk{ID: id, Data: data, Context: ctx}
}

// Clone returns a deep copy of the chunk payload and context.
func (c Chunk) Clone() Chunk {
	out := Chunk{ID: c.ID, Data: DeepCopyValue(c.Data)}
	if c.Context != nil {
		out.Context = Context(deepCopyMap(c.Context))
	}
	return out
}

// Equal reports structural equality on id, data and context.
func (c Chunk) Equal(other Chunk) bool {
	if c.ID != other.ID || !reflect.DeepEqual(c.Data, other.Data) {
		return false
	}
	if len(c.Context) == 0 && len(other.Context) == 0 {
		return true
	}
	return reflect.DeepEqual(contextMap(c.Context), contextMap(other.Context))
}

// AsMap returns the chunk as a plain mapping with id and data keys,
// plus context if requested and present.
func (c Chunk) AsMap(withContext bool) map[string]any {
	m := map[string]any{"id": c.ID, "data": c.Data}
	if withContext && len(c.Context) > 0 {
		m["context"] = contextMap(c.Context)
	}
	return m
}

// contextMap converts a context into plain values, expanding section views.
func contextMap(c Context) map[string]any {
	out := make(map[string]any, len(c))
	for k, v := range c {
		if s, ok := v.(Section); ok {
			out[k] = s.Map()
			continue
		}
		out[k] = v
	}
	return out
}
