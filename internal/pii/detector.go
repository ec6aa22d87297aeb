package pii

import (
	"fmt"

	"github.com/custodia-labs/piidoc/internal/core/domain"
)

// Detector describes the module that produced a set of PII entities.
type Detector struct {
	Source  string
	Name    string
	Version string
	URL     string
	Method  string
}

// ID returns the detector identity, source/name/version.
func (d Detector) ID() string {
	return fmt.Sprintf("%s/%s/%s", d.Source, d.Name, d.Version)
}

// AsMap returns the detector fields, omitting the empty optional ones.
func (d Detector) AsMap() map[string]any {
	m := map[string]any{
		"source":  d.Source,
		"name":    d.Name,
		"version": d.Version,
	}
	if d.URL != "" {
		m["url"] = d.URL
	}
	if d.Method != "" {
		m["method"] = d.Method
	}
	return m
}

// String returns a short description of the detector.
func (d Detector) String() string {
	return "<Detector " + d.ID() + ">"
}

// DetectorFromMap rebuilds a detector from its header form.
func DetectorFromMap(m map[string]any) (Detector, error) {
	var d Detector
	fields := []struct {
		key      string
		dst      *string
		required bool
	}{
		{"source", &d.Source, true},
		{"name", &d.Name, true},
		{"version", &d.Version, true},
		{"url", &d.URL, false},
		{"method", &d.Method, false},
	}
	for _, f := range fields {
		v, ok := m[f.key]
		if !ok || v == nil {
			if f.required {
				return Detector{}, fmt.Errorf("%w: missing detector field: %s", domain.ErrInvalidArgument, f.key)
			}
			continue
		}
		*f.dst = fmt.Sprint(v)
	}
	for k := range m {
		switch k {
		case "source", "name", "version", "url", "method":
		default:
			return Detector{}, fmt.Errorf("%w: unknown detector field: %s", domain.ErrInvalidArgument, k)
		}
	}
	return d, nil
}
