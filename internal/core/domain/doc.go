// Package domain defines the core types for piidoc source documents.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: An addressable unit of a document (id, payload, context)
//   - Record: A structural element before it becomes a Chunk
//   - Metadata: Section-scoped document information
//   - DocumentType: The topology of a document (sequence, tree, table)
//   - PiiEntity: A PII instance detected inside a chunk
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
