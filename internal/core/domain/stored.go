package domain

import "time"

// StoredDocument is the catalogue entry of a document held in a chunk store.
type StoredDocument struct {
	ID         string
	Type       DocumentType
	ChunkCount int
	SavedAt    time.Time
}

// SearchHit is one chunk matched by a search query.
type SearchHit struct {
	DocID   string
	ChunkID string
	Data    string
	Score   float64
}
