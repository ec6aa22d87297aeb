// Package messages defines the Bubbletea messages of the chunk browser.
package messages

import (
	"github.com/custodia-labs/piidoc/internal/core/domain"
)

// ChunksLoaded carries the chunks of the browsed document.
type ChunksLoaded struct {
	Title  string
	Chunks []domain.Chunk
	Err    error
}

// ChunkSelected is sent when a chunk is opened from the list.
type ChunkSelected struct {
	Index int
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies the active view.
type ViewType int

const (
	// ViewChunks is the chunk list.
	ViewChunks ViewType = iota
	// ViewChunkDetail shows one chunk with its context.
	ViewChunkDetail
	// ViewHelp lists the key bindings.
	ViewHelp
)

// String returns the view name.
func (v ViewType) String() string {
	switch v {
	case ViewChunks:
		return "chunks"
	case ViewChunkDetail:
		return "chunk"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}
