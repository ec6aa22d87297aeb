package services

import (
	"github.com/custodia-labs/piidoc/internal/core/ports/driven"
	"github.com/custodia-labs/piidoc/internal/core/ports/driving"
)

// Ensure ModuleConfigService implements the interface.
var _ driving.ModuleConfigService = (*ModuleConfigService)(nil)

// ModuleConfigService reads module configuration files.
type ModuleConfigService struct {
	loader driven.ModuleConfigLoader
}

// NewModuleConfigService creates a module configuration service.
func NewModuleConfigService(loader driven.ModuleConfigLoader) *ModuleConfigService {
	return &ModuleConfigService{loader: loader}
}

// Show merges files in order.
func (s *ModuleConfigService) Show(files []string, formats ...string) (map[string]any, error) {
	sources := make([]any, len(files))
	for i, f := range files {
		sources[i] = f
	}
	return s.loader.Load(sources, formats...)
}
