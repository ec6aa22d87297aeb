// Package module loads module configuration files.
//
// A configuration file is either a module file, holding the section of one
// module, or a full file (format piisa:config:full:v1) holding a list of
// module sections under a config key. Sections are keyed by their format
// tag without the piisa:config: prefix, e.g. "blurb:v1".
package module

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/piidoc/internal/adapters/driven/format"
	"github.com/custodia-labs/piidoc/internal/core/domain"
	"github.com/custodia-labs/piidoc/internal/core/ports/driven"
	"github.com/custodia-labs/piidoc/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.ModuleConfigLoader = (*Loader)(nil)

// Loader reads and merges module configuration files.
type Loader struct{}

// NewLoader creates a configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads every source and merges their sections in order. A source is
// a file path or an already decoded {section: config} mapping. Non-empty
// formats restrict the sections read from files; tags may be given with or
// without the piisa:config: prefix.
func (l *Loader) Load(sources []any, formats ...string) (map[string]any, error) {
	wanted := normalizeFormats(formats)

	var sections []map[string]any
	for _, src := range sources {
		switch s := src.(type) {
		case map[string]any:
			sections = append(sections, s)
		case string:
			data, err := ReadFile(s, wanted)
			if err != nil {
				return nil, err
			}
			sections = append(sections, data)
		default:
			return nil, fmt.Errorf("%w: unsupported config source %T", domain.ErrConfig, src)
		}
	}
	return Merge(sections...)
}

// LoadSingle returns the configuration of one module section.
func (l *Loader) LoadSingle(base, tag string, extra ...any) (map[string]any, error) {
	cfg, err := l.Load(append([]any{base}, extra...), tag)
	if err != nil {
		return nil, err
	}
	section, _ := cfg[strings.TrimPrefix(tag, domain.FormatConfigPrefix)].(map[string]any)
	if section == nil {
		section = map[string]any{}
	}
	return section, nil
}

func normalizeFormats(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if !strings.HasPrefix(f, domain.FormatConfigPrefix) {
			f = domain.FormatConfigPrefix + f
		}
		out = append(out, f)
	}
	return out
}

// ReadFile reads one configuration file (YAML or JSON) and returns its
// sections keyed by tag.
func ReadFile(path string, formats []string) (map[string]any, error) {
	r, err := format.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot process config '%s': %w", domain.ErrConfig, path, err)
	}
	defer r.Close()

	raw, err := format.Decode(r, path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot process config '%s': %w", domain.ErrConfig, path, err)
	}
	data, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: config is not a mapping: %s", domain.ErrConfig, path)
	}

	fmtTag, _ := data["format"].(string)
	if fmtTag == "" {
		return nil, fmt.Errorf("%w: format spec missing in config: %s", domain.ErrConfig, path)
	}

	var candidates []map[string]any
	if fmtTag == domain.FormatConfigFull {
		list, _ := data["config"].([]any)
		for _, item := range list {
			section, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: invalid section in full config: %s", domain.ErrConfig, path)
			}
			candidates = append(candidates, section)
		}
	} else {
		candidates = []map[string]any{data}
	}

	out := map[string]any{}
	for _, section := range candidates {
		tag, cfg, err := parseSection(section, formats, path)
		if err != nil {
			return nil, err
		}
		if cfg == nil {
			continue
		}
		out[tag] = cfg
	}
	logger.Debug("config %s: %d section(s)", path, len(out))
	return out, nil
}

// parseSection validates the format of one module section. It returns a
// nil config when the section is not among the requested formats.
func parseSection(data map[string]any, formats []string, path string) (string, map[string]any, error) {
	fmtTag, _ := data["format"].(string)
	if fmtTag == "" {
		return "", nil, fmt.Errorf("%w: format spec missing in config: %s", domain.ErrConfig, path)
	}
	if !strings.HasPrefix(fmtTag, domain.FormatConfigPrefix) {
		return "", nil, fmt.Errorf("%w: invalid format spec '%s' in config: %s", domain.ErrConfig, fmtTag, path)
	}

	if len(formats) > 0 && !contains(formats, fmtTag) {
		family, version := splitVersion(fmtTag)
		for _, f := range formats {
			if wantFamily, _ := splitVersion(f); wantFamily == family {
				return "", nil, fmt.Errorf("%w: version '%s' unsupported for format '%s' in: %s",
					domain.ErrConfig, version, family, path)
			}
		}
		return "", nil, nil
	}

	cfg := make(map[string]any, len(data)+1)
	for k, v := range data {
		cfg[k] = domain.DeepCopyValue(v)
	}
	if _, ok := cfg["name"]; !ok {
		cfg["name"] = path
	}
	return strings.TrimPrefix(fmtTag, domain.FormatConfigPrefix), cfg, nil
}

func splitVersion(tag string) (string, string) {
	i := strings.LastIndex(tag, ":")
	if i < 0 {
		return tag, ""
	}
	return tag[:i], tag[i+1:]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
