package module

import (
	"fmt"

	"github.com/custodia-labs/piidoc/internal/core/domain"
)

// Merge combines configurations made of {section: config} mappings, in
// order. Later scalars replace earlier ones, mappings merge recursively,
// lists are concatenated and repeated name fields accumulate into a list.
func Merge(configs ...map[string]any) (map[string]any, error) {
	out := map[string]any{}
	for _, cfg := range configs {
		for section, raw := range cfg {
			src, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: config section '%s' is not a mapping", domain.ErrConfig, section)
			}
			dst, _ := out[section].(map[string]any)
			if dst == nil {
				dst = map[string]any{}
				out[section] = dst
			}
			if err := mergeSection(dst, src); err != nil {
				return nil, fmt.Errorf("%w: cannot merge config '%v': %w", domain.ErrConfig, src["name"], err)
			}
		}
	}
	return out, nil
}

func mergeSection(dst, src map[string]any) error {
	for k, v := range src {
		existing, present := dst[k]
		if !present {
			dst[k] = domain.DeepCopyValue(v)
			continue
		}
		switch incoming := v.(type) {
		case map[string]any:
			target, ok := existing.(map[string]any)
			if !ok {
				return fmt.Errorf("field %s: cannot merge a mapping into %T", k, existing)
			}
			if err := mergeSection(target, incoming); err != nil {
				return err
			}
		case []any:
			list, ok := existing.([]any)
			if !ok {
				return fmt.Errorf("field %s: cannot append a list to %T", k, existing)
			}
			dst[k] = append(list, domain.DeepCopyValue(incoming).([]any)...)
		default:
			if k == "name" {
				dst[k] = appendName(existing, v)
				continue
			}
			dst[k] = v
		}
	}
	return nil
}

func appendName(existing, name any) []any {
	if list, ok := existing.([]any); ok {
		return append(list, name)
	}
	return []any{existing, name}
}
