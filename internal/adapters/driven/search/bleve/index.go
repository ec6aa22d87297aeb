// Package bleve provides a full-text chunk index backed by bleve.
//
// Each chunk becomes one bleve document with id "docID#chunkID" and the
// fields doc_id, chunk_id and data. doc_id is indexed as a keyword so that
// all chunks of a document can be removed with a term query.
package bleve

import (
	"context"
	"errors"
	"fmt"
	"os"

	blevesearch "github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/custodia-labs/piidoc/internal/core/domain"
	"github.com/custodia-labs/piidoc/internal/core/ports/driven"
	"github.com/custodia-labs/piidoc/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.ChunkIndex = (*Index)(nil)

const (
	// DefaultLimit is the number of hits returned when no limit is given.
	DefaultLimit = 10

	batchSize  = 100
	deletePage = 1000
)

// entry is the indexed form of a chunk.
type entry struct {
	DocID   string `json:"doc_id"`
	ChunkID string `json:"chunk_id"`
	Data    string `json:"data"`
}

// Index is a bleve-backed chunk index.
type Index struct {
	index blevesearch.Index
}

// EntryID returns the bleve document id of a chunk.
func EntryID(docID, chunkID string) string {
	return docID + "#" + chunkID
}

func newMapping() mapping.IndexMapping {
	docMapping := blevesearch.NewDocumentMapping()

	idField := blevesearch.NewTextFieldMapping()
	idField.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("doc_id", idField)

	chunkField := blevesearch.NewTextFieldMapping()
	chunkField.Analyzer = keyword.Name
	chunkField.IncludeInAll = false
	docMapping.AddFieldMappingsAt("chunk_id", chunkField)

	docMapping.AddFieldMappingsAt("data", blevesearch.NewTextFieldMapping())

	m := blevesearch.NewIndexMapping()
	m.DefaultMapping = docMapping
	return m
}

// Open opens the index at path, creating it when missing. An empty path
// opens an in-memory index.
func Open(path string) (*Index, error) {
	if path == "" {
		idx, err := blevesearch.NewMemOnly(newMapping())
		if err != nil {
			return nil, fmt.Errorf("creating memory index: %w", err)
		}
		return &Index{index: idx}, nil
	}

	if _, err := os.Stat(path); err == nil {
		idx, err := blevesearch.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening index %s: %w", path, err)
		}
		return &Index{index: idx}, nil
	}

	idx, err := blevesearch.New(path, newMapping())
	if err != nil {
		return nil, fmt.Errorf("creating index %s: %w", path, err)
	}
	logger.Debug("created search index at %s", path)
	return &Index{index: idx}, nil
}

// Index adds every chunk of doc, replacing the previous entries of the
// same document.
func (i *Index) Index(ctx context.Context, doc domain.SourceDocument) error {
	if err := i.Delete(ctx, doc.ID()); err != nil {
		return err
	}

	batch := i.index.NewBatch()
	count := 0
	for c := range doc.IterFull(false) {
		text := chunkText(c.Data)
		if text == "" {
			continue
		}
		e := entry{DocID: doc.ID(), ChunkID: c.ID, Data: text}
		if err := batch.Index(EntryID(e.DocID, e.ChunkID), e); err != nil {
			return fmt.Errorf("indexing chunk %s: %w", c.ID, err)
		}
		count++

		if batch.Size() >= batchSize {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := i.index.Batch(batch); err != nil {
				return fmt.Errorf("indexing batch: %w", err)
			}
			batch = i.index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := i.index.Batch(batch); err != nil {
			return fmt.Errorf("indexing batch: %w", err)
		}
	}
	logger.Debug("indexed %d chunks of document %s", count, doc.ID())
	return nil
}

// Search returns at most limit chunks matching query, best first.
func (i *Index) Search(ctx context.Context, query string, limit int) ([]domain.SearchHit, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", domain.ErrInvalidArgument)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	q := blevesearch.NewMatchQuery(query)
	q.SetField("data")
	req := blevesearch.NewSearchRequest(q)
	req.Size = limit
	req.Fields = []string{"*"}

	res, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	hits := make([]domain.SearchHit, 0, len(res.Hits))
	for _, hit := range res.Hits {
		h := domain.SearchHit{Score: hit.Score}
		h.DocID, _ = hit.Fields["doc_id"].(string)
		h.ChunkID, _ = hit.Fields["chunk_id"].(string)
		h.Data, _ = hit.Fields["data"].(string)
		hits = append(hits, h)
	}
	return hits, nil
}

// Delete removes every chunk of a document.
func (i *Index) Delete(ctx context.Context, docID string) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		q := blevesearch.NewTermQuery(docID)
		q.SetField("doc_id")
		req := blevesearch.NewSearchRequest(q)
		req.Size = deletePage

		res, err := i.index.SearchInContext(ctx, req)
		if err != nil {
			return fmt.Errorf("finding chunks of %s: %w", docID, err)
		}
		if len(res.Hits) == 0 {
			return nil
		}

		batch := i.index.NewBatch()
		for _, hit := range res.Hits {
			batch.Delete(hit.ID)
		}
		if err := i.index.Batch(batch); err != nil {
			return fmt.Errorf("deleting chunks of %s: %w", docID, err)
		}
	}
}

// Count returns the number of indexed chunks.
func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}

// Close releases the index.
func (i *Index) Close() error {
	if err := i.index.Close(); err != nil && !errors.Is(err, blevesearch.ErrorIndexClosed) {
		return err
	}
	return nil
}

func chunkText(data any) string {
	switch v := data.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
