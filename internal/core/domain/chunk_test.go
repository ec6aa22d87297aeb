package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewChunk_EmptyContextIsNil(t *testing.T) {
	c := NewChunk("1", "text", Context{})
	assert.Nil(t, c.Context)

	c = NewChunk("1", "text", Context{"level": 0})
	assert.Equal(t, Context{"level": 0}, c.Context)
}

func TestChunk_Equal(t *testing.T) {
	sec := NewSection(map[string]any{"id": "doc"})

	tests := []struct {
		name  string
		a, b  Chunk
		equal bool
	}{
		{"same", NewChunk("1", "a", nil), NewChunk("1", "a", nil), true},
		{"nil vs empty context", Chunk{ID: "1", Data: "a"}, Chunk{ID: "1", Data: "a", Context: Context{}}, true},
		{"different id", NewChunk("1", "a", nil), NewChunk("2", "a", nil), false},
		{"different data", NewChunk("1", "a", nil), NewChunk("1", "b", nil), false},
		{"different context", NewChunk("1", "a", Context{"level": 0}), NewChunk("1", "a", Context{"level": 1}), false},
		{"section views", NewChunk("1", "a", Context{"document": sec}), NewChunk("1", "a", Context{"document": NewSection(map[string]any{"id": "doc"})}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a.Equal(tt.b))
		})
	}
}

func TestChunk_AsMap(t *testing.T) {
	c := NewChunk("1.2", "text", Context{"level": 1, "document": NewSection(map[string]any{"id": "d"})})

	assert.Equal(t, map[string]any{"id": "1.2", "data": "text"}, c.AsMap(false))
	assert.Equal(t, map[string]any{
		"id":   "1.2",
		"data": "text",
		"context": map[string]any{
			"level":    1,
			"document": map[string]any{"id": "d"},
		},
	}, c.AsMap(true))
}

func TestContext_Clone(t *testing.T) {
	var nilCtx Context
	assert.Nil(t, nilCtx.Clone())

	c := Context{"row": "1"}
	cp := c.Clone()
	cp["row"] = "2"
	assert.Equal(t, "1", c["row"])
}

func TestChunk_Clone(t *testing.T) {
	c := NewChunk("1.2", []any{"a"}, Context{"column": map[string]any{"number": 2}})
	cp := c.Clone()

	cp.Data.([]any)[0] = "b"
	cp.Context["column"].(map[string]any)["number"] = 3
	assert.Equal(t, []any{"a"}, c.Data)
	assert.Equal(t, map[string]any{"number": 2}, c.Context["column"])
	assert.Nil(t, NewChunk("1", "x", nil).Clone().Context)
}
