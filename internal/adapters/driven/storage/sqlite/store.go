package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/piidoc/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/piidoc/internal/core/domain"
	"github.com/custodia-labs/piidoc/internal/core/ports/driven"
)

// DBFile is the database file name inside the data directory.
const DBFile = "chunks.db"

// Ensure Store implements the interface.
var _ driven.ChunkStore = (*Store)(nil)

// Store is a SQLite-based chunk store.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.piidoc/store/chunks.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".piidoc", "store")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFile)

	// Pragmas go in the DSN so that every pooled connection gets them
	db, err := sql.Open("sqlite", dbPath+
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
		now:  func() time.Time { return time.Now().UTC() },
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_chunks.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveDocument stores a document and its flattened chunks, replacing any
// previous version.
func (s *Store) SaveDocument(ctx context.Context, doc domain.SourceDocument) error {
	metadataJSON, err := json.Marshal(doc.Metadata())
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", doc.ID()); err != nil {
		return fmt.Errorf("replacing document: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents (id, type, metadata, chunk_count, saved_at)
		VALUES (?, ?, ?, 0, ?)
	`, doc.ID(), doc.Type().String(), string(metadataJSON), s.now()); err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (document_id, position, id, data, context)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	position := 0
	for chunk := range doc.IterFull(false) {
		dataJSON, err := json.Marshal(chunk.Data)
		if err != nil {
			return fmt.Errorf("marshalling chunk %s: %w", chunk.ID, err)
		}
		contextJSON, err := json.Marshal(chunk.Context)
		if err != nil {
			return fmt.Errorf("marshalling chunk %s context: %w", chunk.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, doc.ID(), position, chunk.ID,
			string(dataJSON), string(contextJSON)); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
		position++
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE documents SET chunk_count = ? WHERE id = ?", position, doc.ID()); err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListDocuments returns all saved documents ordered by id.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.StoredDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, chunk_count, saved_at FROM documents ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.StoredDocument //nolint:prealloc // size unknown from query
	for rows.Next() {
		var doc domain.StoredDocument
		var dtype string
		if err := rows.Scan(&doc.ID, &dtype, &doc.ChunkCount, &doc.SavedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if doc.Type, err = domain.ParseDocumentType(dtype); err != nil {
			return nil, fmt.Errorf("document %s: %w", doc.ID, err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// GetMetadata returns the metadata of a saved document.
func (s *Store) GetMetadata(ctx context.Context, docID string) (domain.Metadata, error) {
	var metadataJSON string
	err := s.db.QueryRowContext(ctx, "SELECT metadata FROM documents WHERE id = ?", docID).
		Scan(&metadataJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: document %s", domain.ErrNotFound, docID)
		}
		return nil, fmt.Errorf("querying document: %w", err)
	}

	var md domain.Metadata
	if err := json.Unmarshal([]byte(metadataJSON), &md); err != nil {
		return nil, fmt.Errorf("unmarshaling metadata: %w", err)
	}
	return md, nil
}

// GetChunks returns the chunks of a saved document in document order.
func (s *Store) GetChunks(ctx context.Context, docID string) ([]domain.Chunk, error) {
	if _, err := s.GetMetadata(ctx, docID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, data, context FROM chunks WHERE document_id = ? ORDER BY position
	`, docID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// DeleteDocument removes a document and its chunks.
func (s *Store) DeleteDocument(ctx context.Context, docID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", docID)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: document %s", domain.ErrNotFound, docID)
	}
	return nil
}

// scanChunk scans a chunk from *sql.Rows.
func scanChunk(rows *sql.Rows) (domain.Chunk, error) {
	var id, dataJSON, contextJSON string
	if err := rows.Scan(&id, &dataJSON, &contextJSON); err != nil {
		return domain.Chunk{}, fmt.Errorf("scanning chunk: %w", err)
	}

	var data any
	if err := json.Unmarshal([]byte(dataJSON), &data); err != nil {
		return domain.Chunk{}, fmt.Errorf("unmarshaling chunk %s: %w", id, err)
	}
	var ctx domain.Context
	if err := json.Unmarshal([]byte(contextJSON), &ctx); err != nil {
		return domain.Chunk{}, fmt.Errorf("unmarshaling chunk %s context: %w", id, err)
	}
	return domain.NewChunk(id, data, ctx), nil
}
