// Package schema validates decoded source document files against an
// embedded JSON Schema.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/custodia-labs/piidoc/internal/core/domain"
)

//go:embed srcdocument.schema.json
var srcDocumentSchema []byte

const srcDocumentURL = "https://piisa.dev/schema/src-document-v1.json"

// Validator checks decoded documents against the source document schema.
type Validator struct {
	schema *jsonschema.Schema
}

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
	defaultErr       error
)

// Default returns a shared validator, compiled on first use.
func Default() (*Validator, error) {
	defaultOnce.Do(func() {
		defaultValidator, defaultErr = New()
	})
	return defaultValidator, defaultErr
}

// New compiles the embedded schema.
func New() (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(srcDocumentSchema))
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(srcDocumentURL, doc); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	sch, err := compiler.Compile(srcDocumentURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: sch}, nil
}

// Validate checks v, a value decoded from YAML or JSON.
func (v *Validator) Validate(value any) error {
	inst, err := normalize(value)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidDocument, err)
	}
	err = v.schema.Validate(inst)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		return fmt.Errorf("%w: schema violation at %s", domain.ErrInvalidDocument, strings.Join(locations(verr), ", "))
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidDocument, err)
}

// normalize converts YAML-decoded values (ints, nested maps) into the
// JSON value model the validator expects.
func normalize(value any) (any, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(b))
}

// locations collects the instance paths of the innermost failures.
func locations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		return []string{"/" + strings.Join(verr.InstanceLocation, "/")}
	}
	var out []string
	for _, c := range verr.Causes {
		out = append(out, locations(c)...)
	}
	return out
}
