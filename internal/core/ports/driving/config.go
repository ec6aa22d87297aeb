package driving

// ModuleConfigService reads module configuration files.
type ModuleConfigService interface {
	// Show merges the given files, keeping only the listed section tags
	// when formats is not empty.
	Show(files []string, formats ...string) (map[string]any, error)
}
