package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/piidoc/internal/core/domain"
	"github.com/custodia-labs/piidoc/internal/core/ports/driving"
)

const defaultSearchLimit = 10

// MetadataInput is the input schema for the document_metadata tool.
type MetadataInput struct {
	Path string `json:"path" jsonschema:"path of a document file, or of a raw text, Markdown, CSV, PDF or DOCX input"`
}

// MetadataOutput is the output schema for the document_metadata tool.
type MetadataOutput struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	ChunkCount int             `json:"chunk_count"`
	Metadata   domain.Metadata `json:"metadata"`
}

// ChunksInput is the input schema for the document_chunks tool.
type ChunksInput struct {
	Path    string `json:"path" jsonschema:"path of the document to read"`
	Context bool   `json:"context,omitempty" jsonschema:"attach neighbour chunks and metadata to each chunk"`
	Offset  int    `json:"offset,omitempty" jsonschema:"number of chunks to skip"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of chunks to return (0 = all)"`
}

// ChunksOutput is the output schema for the document_chunks tool.
type ChunksOutput struct {
	DocumentID string        `json:"document_id"`
	Chunks     []ChunkOutput `json:"chunks"`
	Count      int           `json:"count"`
}

// ChunkOutput is a single chunk.
type ChunkOutput struct {
	ID      string         `json:"id"`
	Data    any            `json:"data"`
	Context map[string]any `json:"context,omitempty"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the text to find in stored chunks"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search hit.
type SearchResultOutput struct {
	DocumentID string  `json:"document_id"`
	ChunkID    string  `json:"chunk_id"`
	Data       string  `json:"data"`
	Score      float64 `json:"score"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "document_metadata",
		Description: "Read the metadata header and chunk count of a source document",
	}, s.handleMetadata)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "document_chunks",
		Description: "Read the chunk stream of a source document",
	}, s.handleChunks)

	if s.ports.Store != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "search",
			Description: "Search the text of stored document chunks",
		}, s.handleSearch)
	}
}

func (s *Server) handleMetadata(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MetadataInput,
) (*mcp.CallToolResult, MetadataOutput, error) {
	info, err := s.ports.Document.Info(ctx, input.Path)
	if err != nil {
		return nil, MetadataOutput{}, err
	}
	return nil, MetadataOutput{
		ID:         info.ID,
		Type:       info.Type.String(),
		ChunkCount: info.ChunkCount,
		Metadata:   info.Metadata,
	}, nil
}

func (s *Server) handleChunks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChunksInput,
) (*mcp.CallToolResult, ChunksOutput, error) {
	doc, err := s.ports.Document.Open(ctx, input.Path, driving.OpenOptions{WithContext: input.Context})
	if err != nil {
		return nil, ChunksOutput{}, err
	}

	output := ChunksOutput{DocumentID: doc.ID(), Chunks: []ChunkOutput{}}
	pos := 0
	for c := range doc.IterFull(input.Context) {
		pos++
		if pos <= input.Offset {
			continue
		}
		if input.Limit > 0 && len(output.Chunks) >= input.Limit {
			break
		}
		output.Chunks = append(output.Chunks, chunkOutput(c, input.Context))
	}
	output.Count = len(output.Chunks)
	return nil, output, nil
}

func chunkOutput(c domain.Chunk, withContext bool) ChunkOutput {
	m := c.AsMap(withContext)
	out := ChunkOutput{ID: c.ID, Data: c.Data}
	if ctx, ok := m["context"].(map[string]any); ok {
		out.Context = ctx
	}
	return out
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	hits, err := s.ports.Store.Search(ctx, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(hits)),
		Count:   len(hits),
	}
	for i, h := range hits {
		output.Results[i] = SearchResultOutput{
			DocumentID: h.DocID,
			ChunkID:    h.ChunkID,
			Data:       h.Data,
			Score:      h.Score,
		}
	}
	return nil, output, nil
}
