package driven

// ConfigStore reads and writes the per-corpus configuration file.
// Keys are dotted paths into nested tables: "graph.sections" is the
// sections key of the [graph] table.
type ConfigStore interface {
	// Get returns the raw value stored under key.
	Get(key string) (any, bool)

	// GetString returns the value under key, or "" when it is missing
	// or not a string.
	GetString(key string) string

	// GetInt returns the value under key, or 0 when it is missing or
	// not an integer.
	GetInt(key string) int

	// GetBool returns the value under key, or false when it is missing
	// or not a boolean.
	GetBool(key string) bool

	// GetStringSlice returns the value under key, or nil when it is
	// missing or not a list. Non-string list items are skipped.
	GetStringSlice(key string) []string

	// Set stores value under key and rewrites the file. The stored
	// value is unchanged when the write fails.
	Set(key string, value any) error

	// Keys returns every stored key in sorted order.
	Keys() []string

	// Path returns the configuration file location.
	Path() string
}
