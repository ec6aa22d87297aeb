package domain

import (
	"fmt"
	"math"
	"strconv"
)

// Record is a structural element of a document before it becomes a Chunk.
// Children are only used by tree documents.
type Record struct {
	ID       string
	Data     any
	Context  Context
	Children []Record
}

// HasData reports whether the record carries a payload.
// Records without one are pure containers.
func (r Record) HasData() bool {
	if r.Data == nil {
		return false
	}
	if s, ok := r.Data.(string); ok && s == "" {
		return false
	}
	return true
}

// AsMap returns the record as a plain mapping with only the populated keys.
// The context is passed through filter before being added, if filter is
// not nil.
func (r Record) AsMap(filter func(Context) Context) map[string]any {
	m := map[string]any{}
	if r.ID != "" {
		m["id"] = r.ID
	}
	if r.Data != nil {
		m["data"] = r.Data
	}
	ctx := r.Context
	if filter != nil {
		ctx = filter(ctx)
	}
	if len(ctx) > 0 {
		m["context"] = contextMap(ctx)
	}
	if len(r.Children) > 0 {
		children := make([]any, len(r.Children))
		for i, c := range r.Children {
			children[i] = c.AsMap(filter)
		}
		m["chunks"] = children
	}
	return m
}

// RecordFromValue normalizes one raw structural element.
//
// A mapping is read through its data, id, context and chunks keys and must
// carry data or chunks. Any other value is taken as a bare payload.
func RecordFromValue(v any) (Record, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return Record{Data: v}, nil
	}
	data, hasData := m["data"]
	rawChildren, hasChildren := m["chunks"]
	if !hasData && !hasChildren {
		return Record{}, fmt.Errorf("%w: record has neither data nor chunks", ErrInvalidArgument)
	}

	rec := Record{Data: data}
	if id, ok := m["id"]; ok && id != nil {
		rec.ID = IDString(id)
	}
	if rawCtx, ok := m["context"]; ok && rawCtx != nil {
		ctx, err := contextFromValue(rawCtx)
		if err != nil {
			return Record{}, err
		}
		rec.Context = ctx
	}
	if hasChildren && rawChildren != nil {
		list, ok := rawChildren.([]any)
		if !ok {
			return Record{}, fmt.Errorf("%w: chunks must be a list, got %T", ErrInvalidArgument, rawChildren)
		}
		children, err := RecordsFromValues(list)
		if err != nil {
			return Record{}, err
		}
		rec.Children = children
	}
	return rec, nil
}

// RecordsFromValues normalizes a list of raw structural elements.
func RecordsFromValues(values []any) ([]Record, error) {
	out := make([]Record, 0, len(values))
	for i, v := range values {
		rec, err := RecordFromValue(v)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i+1, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func contextFromValue(v any) (Context, error) {
	switch t := v.(type) {
	case Context:
		return t.Clone(), nil
	case map[string]any:
		return Context(deepCopyMap(t)), nil
	default:
		return nil, fmt.Errorf("%w: context must be a mapping, got %T", ErrInvalidArgument, v)
	}
}

// IDString renders a decoded identifier as a string. Integral floats, as
// produced by JSON decoding, are rendered without a fractional part.
func IDString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
