package driving

// Setting is one CLI setting with its effective value.
type Setting struct {
	Key     string
	Value   any
	Default bool
}

// SettingsService manages CLI settings.
type SettingsService interface {
	// Get returns the effective value of a setting.
	Get(key string) (any, error)

	// Set parses and stores a setting value.
	Set(key, value string) error

	// All returns every known setting, sorted by key.
	All() []Setting

	// ContextDefault returns the iterate.context setting.
	ContextDefault() bool

	// OutputIndent returns the output.indent setting.
	OutputIndent() int

	// StoreDir returns the store.dir setting.
	StoreDir() string
}
