// Package sqlite provides a SQLite-based implementation of driven.ChunkStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Documents keep their metadata as JSON; chunks keep their payload and their
// positional context as JSON, ordered by position within the document.
//
// # Data Location
//
// By default, the database is stored at ~/.piidoc/store/chunks.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
