package document

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/piidoc/internal/core/domain"
)

func TestTable_Addressing(t *testing.T) {
	d, err := FromValues(domain.DocumentTable, []any{
		[]any{"a", "b", "c"},
		map[string]any{"data": []any{"d", "e", "f"}},
	})
	require.NoError(t, err)

	chunks := collect(d.IterFull(false))
	assert.Equal(t, []string{"1.1", "1.2", "1.3", "2.1", "2.2", "2.3"}, ids(chunks))
	for i, c := range chunks {
		row, col := i/3+1, i%3+1
		assert.Equal(t, domain.IDString(row), c.Context[domain.CtxRow])
		assert.Equal(t, map[string]any{domain.ColumnNumber: col}, c.Context[domain.CtxColumn])
	}
}

func TestTable_ColumnNames(t *testing.T) {
	d := NewTable(
		WithMetadata(domain.Metadata{"column": {"name": []any{"first", "second"}}}),
		WithRecords([]domain.Record{{ID: "r", Data: []any{1, 2, 3}}}),
	)

	chunks := collect(d.IterFull(false))
	require.Len(t, chunks, 3)
	assert.Equal(t, "r.1", chunks[0].ID)
	assert.Equal(t, map[string]any{"number": 1, "name": "first"}, chunks[0].Context[domain.CtxColumn])
	assert.Equal(t, map[string]any{"number": 2, "name": "second"}, chunks[1].Context[domain.CtxColumn])
	assert.Equal(t, map[string]any{"number": 3}, chunks[2].Context[domain.CtxColumn], "missing name is tolerated")
}

func TestTable_ScalarRow(t *testing.T) {
	d := NewTable(WithRecords([]domain.Record{{Data: "only"}}))

	chunks := collect(d.IterFull(false))
	require.Len(t, chunks, 1)
	assert.Equal(t, "1.1", chunks[0].ID)
	assert.Equal(t, "only", chunks[0].Data)
}

func TestTable_ContextWindow(t *testing.T) {
	d := NewTable(WithRecords([]domain.Record{{Data: []any{"X", "Y"}}, {Data: []any{"Z"}}}))

	chunks := collect(d.IterFull(true))
	require.Len(t, chunks, 3)
	assert.Equal(t, "Y", chunks[0].Context[domain.CtxAfter])
	assert.Equal(t, "X", chunks[1].Context[domain.CtxBefore])
	assert.Equal(t, "Z", chunks[1].Context[domain.CtxAfter])
	assert.Equal(t, "Y", chunks[2].Context[domain.CtxBefore])
	assert.Equal(t, "2", chunks[2].Context[domain.CtxRow])
}

func TestTable_AddChunkGroupsRows(t *testing.T) {
	d := NewTable()
	for _, c := range []domain.Chunk{
		domain.NewChunk("0.1", "a", domain.Context{domain.CtxRow: 0}),
		domain.NewChunk("0.2", "b", domain.Context{domain.CtxRow: 0}),
		domain.NewChunk("1.1", "c", domain.Context{domain.CtxRow: 1}),
	} {
		require.NoError(t, d.AddChunk(c))
	}

	recs := slices.Collect(d.IterStructural())
	require.Len(t, recs, 2)
	assert.Equal(t, domain.Record{ID: "0", Data: []any{"a", "b"}}, recs[0])
	assert.Equal(t, domain.Record{ID: "1", Data: []any{"c"}}, recs[1])
	assert.Equal(t, []string{"0.1", "0.2", "1.1"}, ids(collect(d.IterFull(false))))
}

func TestTable_CloneThroughAddChunk(t *testing.T) {
	src := NewTable(
		WithMetadata(domain.Metadata{"column": {"name": []any{"x", "y"}}}),
		WithRecords([]domain.Record{{Data: []any{"a", "b"}}, {Data: []any{"c", "d"}}}),
	)

	clone := NewTable(WithMetadata(src.Metadata()))
	for c := range src.IterFull(true) {
		require.NoError(t, clone.AddChunk(c))
	}

	assert.Equal(t, slices.Collect(src.IterStructural()), slices.Collect(clone.IterStructural()))
}
