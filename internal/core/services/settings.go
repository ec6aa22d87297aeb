package services

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/custodia-labs/piidoc/internal/core/domain"
	"github.com/custodia-labs/piidoc/internal/core/ports/driven"
	"github.com/custodia-labs/piidoc/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Setting keys.
const (
	KeyIterateContext = "iterate.context"
	KeyOutputIndent   = "output.indent"
	KeyStoreDir       = "store.dir"
)

// DefaultOutputIndent is the JSON indent used when none is configured.
const DefaultOutputIndent = 2

type settingKind int

const (
	kindBool settingKind = iota
	kindInt
	kindString
)

type settingDef struct {
	kind     settingKind
	fallback any
}

// SettingsService manages CLI settings on top of a config store.
type SettingsService struct {
	configStore driven.ConfigStore
	defs        map[string]settingDef
}

// NewSettingsService creates a settings service. storeDir is the default
// chunk store directory.
func NewSettingsService(configStore driven.ConfigStore, storeDir string) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		defs: map[string]settingDef{
			KeyIterateContext: {kind: kindBool, fallback: false},
			KeyOutputIndent:   {kind: kindInt, fallback: DefaultOutputIndent},
			KeyStoreDir:       {kind: kindString, fallback: storeDir},
		},
	}
}

func (s *SettingsService) def(key string) (settingDef, error) {
	d, ok := s.defs[key]
	if !ok {
		return settingDef{}, fmt.Errorf("%w: unknown setting: %s", domain.ErrInvalidArgument, key)
	}
	return d, nil
}

// Get returns the stored value of key, or its default.
func (s *SettingsService) Get(key string) (any, error) {
	d, err := s.def(key)
	if err != nil {
		return nil, err
	}
	v, _ := s.value(key, d)
	return v, nil
}

func (s *SettingsService) value(key string, d settingDef) (any, bool) {
	if _, exists := s.configStore.Get(key); !exists {
		return d.fallback, true
	}
	switch d.kind {
	case kindBool:
		return s.configStore.GetBool(key), false
	case kindInt:
		return s.configStore.GetInt(key), false
	default:
		v := s.configStore.GetString(key)
		if v == "" {
			return d.fallback, true
		}
		return v, false
	}
}

// Set parses value according to the setting type and stores it.
func (s *SettingsService) Set(key, value string) error {
	d, err := s.def(key)
	if err != nil {
		return err
	}

	var parsed any
	switch d.kind {
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false, got %q", domain.ErrInvalidArgument, key, value)
		}
		parsed = b
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s expects a non-negative integer, got %q", domain.ErrInvalidArgument, key, value)
		}
		parsed = n
	default:
		parsed = value
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// All returns every known setting, sorted by key.
func (s *SettingsService) All() []driving.Setting {
	keys := make([]string, 0, len(s.defs))
	for k := range s.defs {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]driving.Setting, 0, len(keys))
	for _, k := range keys {
		v, isDefault := s.value(k, s.defs[k])
		out = append(out, driving.Setting{Key: k, Value: v, Default: isDefault})
	}
	return out
}

// ContextDefault returns the iterate.context setting.
func (s *SettingsService) ContextDefault() bool {
	v, _ := s.value(KeyIterateContext, s.defs[KeyIterateContext])
	b, _ := v.(bool)
	return b
}

// OutputIndent returns the output.indent setting.
func (s *SettingsService) OutputIndent() int {
	v, _ := s.value(KeyOutputIndent, s.defs[KeyOutputIndent])
	n, _ := v.(int)
	return n
}

// StoreDir returns the store.dir setting.
func (s *SettingsService) StoreDir() string {
	v, _ := s.value(KeyStoreDir, s.defs[KeyStoreDir])
	str, _ := v.(string)
	return str
}
