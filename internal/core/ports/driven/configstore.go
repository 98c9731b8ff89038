package driven

// ConfigStore is the persisted key/value settings file. Keys are dotted
// paths such as "openai.chat_model" or "review.backend".
type ConfigStore interface {
	// Get returns the raw value and whether the key is set.
	Get(key string) (any, bool)

	// GetString returns the value as a string, or "" when unset.
	GetString(key string) string

	// GetInt returns the value as an int, or 0 when unset or not numeric.
	GetInt(key string) int

	// Set stores a value and persists the file.
	Set(key string, value any) error
}
