package navigator

import "fmt"

// ConfigurationError reports a navigator that cannot be built from its Config.
type ConfigurationError struct {
	Field string
	Value any
	Want  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("navigator: invalid %s %v, want %s", e.Field, e.Value, e.Want)
}
