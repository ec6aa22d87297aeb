package bleve

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/piidoc/internal/core/document"
	"github.com/custodia-labs/piidoc/internal/core/domain"
)

func newDoc(id string, data ...any) *document.Document {
	recs := make([]domain.Record, len(data))
	for i, d := range data {
		recs[i] = domain.Record{Data: d}
	}
	return document.NewSequence(
		document.WithMetadata(domain.Metadata{domain.SectionDocument: {domain.MetaID: id}}),
		document.WithRecords(recs),
	)
}

func openMem(t *testing.T) *Index {
	t.Helper()
	idx, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestEntryID(t *testing.T) {
	assert.Equal(t, "doc-1#1.2", EntryID("doc-1", "1.2"))
}

func TestIndex_Search(t *testing.T) {
	idx := openMem(t)
	ctx := context.Background()

	require.NoError(t, idx.Index(ctx, newDoc("doc-1", "Alice lives in Madrid", "the weather is nice")))
	require.NoError(t, idx.Index(ctx, newDoc("doc-2", "Bob moved to Madrid last year")))

	hits, err := idx.Search(ctx, "madrid", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	found := map[string]string{}
	for _, h := range hits {
		found[h.DocID] = h.ChunkID
		assert.Positive(t, h.Score)
		assert.Contains(t, h.Data, "Madrid")
	}
	assert.Equal(t, map[string]string{"doc-1": "1", "doc-2": "1"}, found)

	hits, err = idx.Search(ctx, "weather", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, domain.SearchHit{DocID: "doc-1", ChunkID: "2", Data: "the weather is nice", Score: hits[0].Score}, hits[0])
}

func TestIndex_Limit(t *testing.T) {
	idx := openMem(t)
	ctx := context.Background()
	require.NoError(t, idx.Index(ctx, newDoc("doc-1", "word one", "word two", "word three")))

	hits, err := idx.Search(ctx, "word", 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestIndex_ReindexReplaces(t *testing.T) {
	idx := openMem(t)
	ctx := context.Background()

	require.NoError(t, idx.Index(ctx, newDoc("doc-1", "old text", "more old text")))
	require.NoError(t, idx.Index(ctx, newDoc("doc-1", "new text")))

	count, err := idx.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	hits, err := idx.Search(ctx, "old", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_Delete(t *testing.T) {
	idx := openMem(t)
	ctx := context.Background()

	require.NoError(t, idx.Index(ctx, newDoc("doc-1", "shared term")))
	require.NoError(t, idx.Index(ctx, newDoc("doc-10", "shared term")))

	require.NoError(t, idx.Delete(ctx, "doc-1"))

	hits, err := idx.Search(ctx, "shared", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc-10", hits[0].DocID)

	assert.NoError(t, idx.Delete(ctx, "unknown"))
}

func TestIndex_SkipsEmptyAndFormatsValues(t *testing.T) {
	idx := openMem(t)
	ctx := context.Background()

	require.NoError(t, idx.Index(ctx, newDoc("doc-1", "", 12345)))

	count, err := idx.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	hits, err := idx.Search(ctx, "12345", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "2", hits[0].ChunkID)
}

func TestIndex_EmptyQuery(t *testing.T) {
	idx := openMem(t)

	_, err := idx.Search(context.Background(), "", 10)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestOpen_OnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.bleve")
	ctx := context.Background()

	idx, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, idx.Index(ctx, newDoc("doc-1", "persistent words")))
	require.NoError(t, idx.Close())

	idx, err = Open(path)
	require.NoError(t, err)
	defer idx.Close()

	hits, err := idx.Search(ctx, "persistent", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc-1", hits[0].DocID)
}
