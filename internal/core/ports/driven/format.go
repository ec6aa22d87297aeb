package driven

import (
	"io"

	"github.com/custodia-labs/piidoc/internal/core/document"
	"github.com/custodia-labs/piidoc/internal/core/domain"
)

// EncodeOptions controls document serialization.
type EncodeOptions struct {
	// Indent is the JSON indent width, or the per-level indent for text.
	// Zero selects the encoder default.
	Indent int

	// ContextFields selects the chunk context fields written out. When nil,
	// every field except the structural ones is written.
	ContextFields []string
}

// Encoder writes a document in one output format.
type Encoder interface {
	// Name returns the format name (yaml, json, text).
	Name() string

	// Encode writes doc to w.
	Encode(w io.Writer, doc domain.SourceDocument, opts EncodeOptions) error
}

// LoadOptions controls document loading.
type LoadOptions struct {
	// Metadata is merged into the loaded header.
	Metadata domain.Metadata

	// WithContext sets the document default for context-aware iteration.
	WithContext bool

	// Validate checks the decoded file against the document schema
	// before building.
	Validate bool
}

// Loader reads serialized documents.
type Loader interface {
	// LoadFile reads a document file. A path of "-" reads stdin.
	LoadFile(path string, opts LoadOptions) (*document.Document, error)

	// Load reads a document from r. name is used in error messages and to
	// pick the decoder by extension.
	Load(r io.Reader, name string, opts LoadOptions) (*document.Document, error)
}

// DocumentFiles reads raw inputs and writes serialized documents.
type DocumentFiles interface {
	// ReadRaw reads an input file, decompressing it if needed.
	ReadRaw(path string) (*domain.RawDocument, error)

	// DumpFile writes doc to path. format forces the output format; when
	// empty it is picked from the path extension. "-" writes stdout.
	DumpFile(doc domain.SourceDocument, path, format string, opts EncodeOptions) error
}
