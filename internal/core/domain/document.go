package domain

import "iter"

// SourceDocument is the read side of a document, as consumed by encoders,
// stores and the MCP server.
type SourceDocument interface {
	// ID returns the document identifier.
	ID() string

	// Type returns the document topology.
	Type() DocumentType

	// Metadata returns a deep copy of the document metadata.
	Metadata() Metadata

	// IterStructural returns the normalized top-level records.
	IterStructural() iter.Seq[Record]

	// IterFull returns the flattened chunk stream.
	IterFull(withContext bool) iter.Seq[Chunk]
}
