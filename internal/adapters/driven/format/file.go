package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/piidoc/internal/core/domain"
	"github.com/custodia-labs/piidoc/internal/core/ports/driven"
)

// Encoders returns the encoders for every output format, keyed by name.
func Encoders() map[string]driven.Encoder {
	return map[string]driven.Encoder{
		"yaml": NewYAMLEncoder(),
		"json": NewJSONEncoder(),
		"text": NewTextEncoder(),
	}
}

// EncoderFor returns the encoder for an explicit format name, or for the
// extension of path when name is empty.
func EncoderFor(name, path string) (driven.Encoder, error) {
	switch strings.ToLower(name) {
	case "yaml", "yml":
		return NewYAMLEncoder(), nil
	case "json":
		return NewJSONEncoder(), nil
	case "text", "txt":
		return NewTextEncoder(), nil
	case "":
	default:
		return nil, fmt.Errorf("%w: unsupported output format: %s", domain.ErrInvalidArgument, name)
	}

	switch BaseExtension(path) {
	case ".yml", ".yaml":
		return NewYAMLEncoder(), nil
	case ".json":
		return NewJSONEncoder(), nil
	case ".txt", ".text":
		return NewTextEncoder(), nil
	default:
		return nil, fmt.Errorf("%w: unspecified format for: %s", domain.ErrInvalidArgument, path)
	}
}

// DumpFile writes doc to path. The format comes from name or the path
// extension; a .gz path is compressed and "-" writes stdout.
func DumpFile(doc domain.SourceDocument, path, name string, opts driven.EncodeOptions) error {
	enc, err := EncoderFor(name, path)
	if err != nil {
		return err
	}
	w, err := OpenWriter(path)
	if err != nil {
		return err
	}
	if err := enc.Encode(w, doc, opts); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrFile, err)
	}
	return nil
}

// Ensure Files implements the interface.
var _ driven.DocumentFiles = (*Files)(nil)

// Files reads raw inputs and writes document files on the local filesystem.
type Files struct{}

// NewFiles creates the filesystem adapter.
func NewFiles() *Files {
	return &Files{}
}

// ReadRaw reads path into a raw document. Compressed files are
// decompressed and the compression suffix dropped from the URI.
func (f *Files) ReadRaw(path string) (*domain.RawDocument, error) {
	r, err := OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read %s: %w", domain.ErrFile, path, err)
	}
	return &domain.RawDocument{URI: stripCompression(path), Content: content}, nil
}

// DumpFile writes doc to path.
func (f *Files) DumpFile(doc domain.SourceDocument, path, format string, opts driven.EncodeOptions) error {
	return DumpFile(doc, path, format, opts)
}
