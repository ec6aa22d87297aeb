package format

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/piidoc/internal/core/domain"
	"github.com/custodia-labs/piidoc/internal/core/ports/driven"
)

// Ensure YAMLEncoder implements the interface.
var _ driven.Encoder = (*YAMLEncoder)(nil)

// literal is a string payload written in YAML block literal style.
type literal string

// MarshalYAML implements yaml.Marshaler.
func (l literal) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Style: yaml.LiteralStyle, Value: string(l)}, nil
}

func literalData(v any) any {
	if s, ok := v.(string); ok {
		return literal(s)
	}
	return v
}

// YAMLEncoder writes documents as YAML.
type YAMLEncoder struct{}

// NewYAMLEncoder creates a YAML encoder.
func NewYAMLEncoder() *YAMLEncoder {
	return &YAMLEncoder{}
}

// Name returns the format name.
func (e *YAMLEncoder) Name() string {
	return "yaml"
}

// Encode writes doc to w. String payloads use block literal style.
func (e *YAMLEncoder) Encode(w io.Writer, doc domain.SourceDocument, opts driven.EncodeOptions) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(buildObject(doc, opts.ContextFields, literalData)); err != nil {
		return fmt.Errorf("%w: encode yaml: %w", domain.ErrFile, err)
	}
	return enc.Close()
}
