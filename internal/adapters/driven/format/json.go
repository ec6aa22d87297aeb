package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/piidoc/internal/core/domain"
	"github.com/custodia-labs/piidoc/internal/core/ports/driven"
)

// Ensure JSONEncoder implements the interface.
var _ driven.Encoder = (*JSONEncoder)(nil)

// DefaultJSONIndent is used when no indent is requested.
const DefaultJSONIndent = 2

// JSONEncoder writes documents as JSON.
type JSONEncoder struct{}

// NewJSONEncoder creates a JSON encoder.
func NewJSONEncoder() *JSONEncoder {
	return &JSONEncoder{}
}

// Name returns the format name.
func (e *JSONEncoder) Name() string {
	return "json"
}

// Encode writes doc to w as indented JSON.
func (e *JSONEncoder) Encode(w io.Writer, doc domain.SourceDocument, opts driven.EncodeOptions) error {
	indent := opts.Indent
	if indent <= 0 {
		indent = DefaultJSONIndent
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", indent))
	if err := enc.Encode(buildObject(doc, opts.ContextFields, nil)); err != nil {
		return fmt.Errorf("%w: encode json: %w", domain.ErrFile, err)
	}
	return nil
}
