package format

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/piidoc/internal/adapters/driven/format/schema"
	"github.com/custodia-labs/piidoc/internal/core/document"
	"github.com/custodia-labs/piidoc/internal/core/domain"
	"github.com/custodia-labs/piidoc/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// Loader reads YAML and JSON source document files.
type Loader struct {
	validate bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithValidation makes the loader check files against the document schema.
func WithValidation(enabled bool) LoaderOption {
	return func(l *Loader) {
		l.validate = enabled
	}
}

// NewLoader creates a loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// IsDocumentFile reports whether path names a YAML or JSON file.
func IsDocumentFile(path string) bool {
	switch BaseExtension(path) {
	case ".yml", ".yaml", ".json":
		return true
	default:
		return false
	}
}

// LoadFile reads a document file. The decoder is picked by extension;
// stdin is read as YAML, which also accepts JSON.
func (l *Loader) LoadFile(path string, opts driven.LoadOptions) (*document.Document, error) {
	r, err := OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return l.Load(r, path, opts)
}

// Load reads a document from r.
func (l *Loader) Load(r io.Reader, name string, opts driven.LoadOptions) (*document.Document, error) {
	data, err := Decode(r, name)
	if err != nil {
		return nil, err
	}
	if l.validate || opts.Validate {
		v, err := schema.Default()
		if err != nil {
			return nil, err
		}
		if err := v.Validate(data); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return Build(data, name, opts)
}

// Decode parses YAML or JSON data, choosing by the extension of name.
func Decode(r io.Reader, name string) (any, error) {
	var data any
	switch ext := BaseExtension(name); {
	case ext == ".json":
		if err := json.NewDecoder(r).Decode(&data); err != nil {
			return nil, fmt.Errorf("%w: read error in JSON file '%s': %w", domain.ErrFile, name, err)
		}
	case ext == ".yml" || ext == ".yaml" || name == Stdio:
		if err := yaml.NewDecoder(r).Decode(&data); err != nil && err != io.EOF {
			return nil, fmt.Errorf("%w: read error in YAML file '%s': %w", domain.ErrFile, name, err)
		}
	default:
		return nil, fmt.Errorf("%w: cannot load %q: unsupported format (valid formats: json, yaml)", domain.ErrInvalidArgument, name)
	}
	return data, nil
}

// Build creates a document from a decoded file object.
func Build(data any, name string, opts driven.LoadOptions) (*document.Document, error) {
	obj, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a document object", domain.ErrInvalidDocument, name)
	}
	fmtTag, ok := obj["format"]
	if !ok {
		return nil, fmt.Errorf("%w: missing format indicator in %s", domain.ErrInvalidDocument, name)
	}
	if fmtTag != domain.FormatSrcDocument {
		return nil, fmt.Errorf("%w: invalid format %v in %s", domain.ErrInvalidDocument, fmtTag, name)
	}

	md, err := domain.MetadataFromValue(obj["header"])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	for section, values := range opts.Metadata {
		md.Merge(section, values)
	}
	if id, ok := md.Get(domain.SectionDocument, domain.MetaID); ok && id != nil {
		if _, isString := id.(string); !isString {
			md.Merge(domain.SectionDocument, map[string]any{domain.MetaID: domain.IDString(id)})
		}
	}

	dtype := domain.DocumentSequence
	if raw, ok := md.Get(domain.SectionDocument, domain.MetaType); ok && raw != nil {
		s, _ := raw.(string)
		if dtype, err = domain.ParseDocumentType(s); err != nil {
			return nil, fmt.Errorf("unknown document type '%v' in %s: %w", raw, name, err)
		}
	}

	var values []any
	switch chunks := obj["chunks"].(type) {
	case nil:
	case []any:
		values = chunks
	default:
		return nil, fmt.Errorf("%w: chunks must be a list in %s", domain.ErrInvalidDocument, name)
	}

	doc, err := document.FromValues(dtype, values,
		document.WithMetadata(md),
		document.WithContext(opts.WithContext),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return doc, nil
}
