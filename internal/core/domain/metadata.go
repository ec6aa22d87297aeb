package domain

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Section is a read-only view over one metadata section.
// It is built from a deep copy, so later metadata changes do not leak in.
type Section struct {
	values map[string]any
}

// NewSection snapshots values into a read-only section view.
func NewSection(values map[string]any) Section {
	return Section{values: deepCopyMap(values)}
}

// Get returns the value stored under key.
func (s Section) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Len returns the number of keys in the section.
func (s Section) Len() int {
	return len(s.values)
}

// Keys returns the section keys, sorted.
func (s Section) Keys() []string {
	return slices.Sorted(maps.Keys(s.values))
}

// Map returns a deep copy of the section contents.
func (s Section) Map() map[string]any {
	return deepCopyMap(s.values)
}

// MarshalJSON encodes the section as a plain object.
func (s Section) MarshalJSON() ([]byte, error) {
	if s.values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.values)
}

// MarshalYAML encodes the section as a plain mapping.
func (s Section) MarshalYAML() (any, error) {
	return s.Map(), nil
}

// Metadata maps section names to section contents.
type Metadata map[string]map[string]any

// NewMetadata returns metadata holding an empty document section.
func NewMetadata() Metadata {
	return Metadata{SectionDocument: {}}
}

// MetadataFromValue converts a decoded header into Metadata.
// Every section must itself be a mapping.
func MetadataFromValue(v any) (Metadata, error) {
	if v == nil {
		return NewMetadata(), nil
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: header is not a mapping", ErrInvalidDocument)
	}
	md := make(Metadata, len(raw))
	for name, sec := range raw {
		if sec == nil {
			md[name] = map[string]any{}
			continue
		}
		values, ok := sec.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: header section %q is not a mapping", ErrInvalidDocument, name)
		}
		md[name] = deepCopyMap(values)
	}
	if _, ok := md[SectionDocument]; !ok {
		md[SectionDocument] = map[string]any{}
	}
	return md, nil
}

// Clone returns a deep copy.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for name, sec := range m {
		out[name] = deepCopyMap(sec)
	}
	return out
}

// Merge deep-merges values into the named section, creating it if absent.
// When both the existing and incoming value of a key are mappings they are
// merged recursively; otherwise the incoming value replaces the existing one.
func (m Metadata) Merge(section string, values map[string]any) {
	dst, ok := m[section]
	if !ok || dst == nil {
		dst = map[string]any{}
		m[section] = dst
	}
	mergeInto(dst, values)
}

// Get returns a value from a section.
func (m Metadata) Get(section, key string) (any, bool) {
	sec, ok := m[section]
	if !ok {
		return nil, false
	}
	v, ok := sec[key]
	return v, ok
}

// GetString returns a string value from a section, or "" if missing.
func (m Metadata) GetString(section, key string) string {
	v, _ := m.Get(section, key)
	s, _ := v.(string)
	return s
}

// Sections returns the section names, sorted.
func (m Metadata) Sections() []string {
	return slices.Sorted(maps.Keys(m))
}

// AsMap returns the metadata as a plain nested mapping.
func (m Metadata) AsMap() map[string]any {
	out := make(map[string]any, len(m))
	for name, sec := range m {
		out[name] = deepCopyMap(sec)
	}
	return out
}

func mergeInto(dst, src map[string]any) {
	for k, v := range src {
		incoming, incomingIsMap := v.(map[string]any)
		existing, existingIsMap := dst[k].(map[string]any)
		if incomingIsMap && existingIsMap {
			mergeInto(existing, incoming)
			continue
		}
		dst[k] = DeepCopyValue(v)
	}
}

// DeepCopyValue copies nested maps and slices decoded from YAML or JSON.
// Other values are returned as is.
func DeepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = DeepCopyValue(e)
		}
		return out
	case []string:
		return slices.Clone(t)
	default:
		return v
	}
}

func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = DeepCopyValue(v)
	}
	return out
}
