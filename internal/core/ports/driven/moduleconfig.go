package driven

// ModuleConfigLoader reads module configuration files and merges their
// sections.
type ModuleConfigLoader interface {
	// Load reads each source, a file path or an already decoded mapping,
	// and merges their sections. When formats is not empty only those
	// section tags are kept.
	Load(sources []any, formats ...string) (map[string]any, error)

	// LoadSingle returns the merged section for one format tag, starting
	// from the base file and applying extra sources in order.
	LoadSingle(base, format string, extra ...any) (map[string]any, error)
}
