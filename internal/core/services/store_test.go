package services

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/custodia-labs/piidoc/internal/adapters/driven/search/bleve"
	"github.com/custodia-labs/piidoc/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/piidoc/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/piidoc/internal/core/document"
	"github.com/custodia-labs/piidoc/internal/core/domain"
	"github.com/custodia-labs/piidoc/internal/core/ports/driven"
	"github.com/custodia-labs/piidoc/internal/core/ports/driven/mocks"
)

func sampleDocuments() map[string]*document.Document {
	meta := func(id string) document.Option {
		return document.WithMetadata(domain.Metadata{"document": {"id": id, "main_lang": "en"}})
	}
	return map[string]*document.Document{
		"sequence": document.NewSequence(meta("seq"), document.WithRecords([]domain.Record{
			{Data: "Alice lives in Paris"},
			{Data: "Bob lives in Rome", Context: domain.Context{"tag": "b"}},
		})),
		"tree": document.NewTree(meta("tree"), document.WithRecords([]domain.Record{
			{Data: "Contact", Context: domain.Context{"tag": "a"}, Children: []domain.Record{
				{Data: "Call Alice"},
				{Data: "Write to Bob", Children: []domain.Record{{Data: "at home"}}},
			}},
			{Data: "Notes"},
		})),
		"table": document.NewTable(meta("table"), document.WithRecords([]domain.Record{
			{Data: []any{"name", "city"}},
			{Data: []any{"Alice", "Paris"}},
			{Data: []any{"Bob", "Rome"}},
		})),
	}
}

type chunkShape struct {
	ID   string
	Data any
}

func shape(doc domain.SourceDocument) []chunkShape {
	var out []chunkShape
	for c := range doc.IterFull(false) {
		out = append(out, chunkShape{ID: c.ID, Data: c.Data})
	}
	return out
}

func TestStoreService_RestorePreservesChunks(t *testing.T) {
	sqliteStore, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { sqliteStore.Close() })

	stores := map[string]driven.ChunkStore{
		"memory": memory.NewChunkStore(),
		"sqlite": sqliteStore,
	}
	for storeName, store := range stores {
		for name, doc := range sampleDocuments() {
			t.Run(storeName+"/"+name, func(t *testing.T) {
				svc := NewStoreService(store, nil)
				require.NoError(t, svc.Save(context.Background(), doc))

				restored, err := svc.Restore(context.Background(), doc.ID())
				require.NoError(t, err)

				assert.Equal(t, doc.Type(), restored.Type())
				assert.Equal(t, doc.ID(), restored.ID())
				assert.Equal(t, shape(doc), shape(restored))
			})
		}
	}
}

func TestStoreService_RestoreTreeContainers(t *testing.T) {
	sqliteStore, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { sqliteStore.Close() })

	doc := document.NewTree(
		document.WithMetadata(domain.Metadata{"document": {"id": "nested"}}),
		document.WithRecords([]domain.Record{
			{Data: "A", Children: []domain.Record{
				{Children: []domain.Record{{Data: "C"}}},
				{Data: "D"},
			}},
			{Context: domain.Context{"section": "notes"}, Children: []domain.Record{
				{Children: []domain.Record{{Data: "E"}, {Data: "F"}}},
			}},
		}),
	)

	for name, store := range map[string]driven.ChunkStore{"memory": memory.NewChunkStore(), "sqlite": sqliteStore} {
		t.Run(name, func(t *testing.T) {
			svc := NewStoreService(store, nil)
			require.NoError(t, svc.Save(context.Background(), doc))

			restored, err := svc.Restore(context.Background(), "nested")
			require.NoError(t, err)

			var want, got []map[string]any
			for c := range doc.IterFull(false) {
				want = append(want, c.AsMap(true))
			}
			for c := range restored.IterFull(false) {
				got = append(got, c.AsMap(true))
			}
			assert.Equal(t, want, got)
			assert.Equal(t, []string{"1", "1.1.1", "1.2", "2.1.1", "2.1.2"}, ids(got))
		})
	}
}

func ids(chunks []map[string]any) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i], _ = c["id"].(string)
	}
	return out
}

func TestStoreService_RestoreNotFound(t *testing.T) {
	svc := NewStoreService(memory.NewChunkStore(), nil)
	_, err := svc.Restore(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStoreService_SaveIndexes(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockChunkStore(ctrl)
	index := mocks.NewMockChunkIndex(ctrl)
	doc := sampleDocuments()["sequence"]

	gomock.InOrder(
		store.EXPECT().SaveDocument(gomock.Any(), doc).Return(nil),
		index.EXPECT().Index(gomock.Any(), doc).Return(nil),
	)

	require.NoError(t, NewStoreService(store, index).Save(context.Background(), doc))
}

func TestStoreService_SaveErrors(t *testing.T) {
	doc := sampleDocuments()["sequence"]
	boom := errors.New("boom")

	t.Run("store failure skips index", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockChunkStore(ctrl)
		index := mocks.NewMockChunkIndex(ctrl)
		store.EXPECT().SaveDocument(gomock.Any(), doc).Return(boom)

		err := NewStoreService(store, index).Save(context.Background(), doc)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("index failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockChunkStore(ctrl)
		index := mocks.NewMockChunkIndex(ctrl)
		store.EXPECT().SaveDocument(gomock.Any(), doc).Return(nil)
		index.EXPECT().Index(gomock.Any(), doc).Return(boom)

		err := NewStoreService(store, index).Save(context.Background(), doc)
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "index document seq")
	})
}

func TestStoreService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockChunkStore(ctrl)
	index := mocks.NewMockChunkIndex(ctrl)
	svc := NewStoreService(store, index)

	store.EXPECT().DeleteDocument(gomock.Any(), "doc").Return(nil)
	index.EXPECT().Delete(gomock.Any(), "doc").Return(nil)
	require.NoError(t, svc.Delete(context.Background(), "doc"))

	store.EXPECT().DeleteDocument(gomock.Any(), "gone").Return(domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), "gone"), domain.ErrNotFound)
}

func TestStoreService_SearchDefaultLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockChunkStore(ctrl)
	index := mocks.NewMockChunkIndex(ctrl)
	hits := []domain.SearchHit{{DocID: "d", ChunkID: "1", Data: "Alice", Score: 1.5}}

	index.EXPECT().Search(gomock.Any(), "alice", DefaultSearchLimit).Return(hits, nil)

	got, err := NewStoreService(store, index).Search(context.Background(), "alice", 0)
	require.NoError(t, err)
	assert.Equal(t, hits, got)
}

func TestStoreService_SearchWithoutIndex(t *testing.T) {
	_, err := NewStoreService(memory.NewChunkStore(), nil).Search(context.Background(), "x", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestStoreService_SearchIndex(t *testing.T) {
	index, err := bleve.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })

	svc := NewStoreService(memory.NewChunkStore(), index)
	for _, doc := range sampleDocuments() {
		require.NoError(t, svc.Save(context.Background(), doc))
	}

	hits, err := svc.Search(context.Background(), "Rome", 10)
	require.NoError(t, err)
	var docs []string
	for _, h := range hits {
		docs = append(docs, h.DocID)
	}
	slices.Sort(docs)
	assert.Equal(t, []string{"seq", "table"}, docs)

	require.NoError(t, svc.Delete(context.Background(), "seq"))
	hits, err = svc.Search(context.Background(), "Rome", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "table", hits[0].DocID)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
