package domain

import "fmt"

// MissingTypeHintError reports a parameter whose annotation carries no
// usable type (any / interface{}).
type MissingTypeHintError struct {
	Param string
}

func (e *MissingTypeHintError) Error() string {
	return fmt.Sprintf("missing type hint for parameter %q: specify a concrete type", e.Param)
}

// InvalidReturnAnnotationError reports a return annotation that is not an
// ordered name-to-type container, or is optional-wrapped.
type InvalidReturnAnnotationError struct {
	Func   string
	Reason string
}

func (e *InvalidReturnAnnotationError) Error() string {
	return fmt.Sprintf("invalid return annotation for %q: %s", e.Func, e.Reason)
}

// UnsupportedParameterTypeError reports a type outside the closed
// primitive set.
type UnsupportedParameterTypeError struct {
	Type string
}

func (e *UnsupportedParameterTypeError) Error() string {
	return fmt.Sprintf("unsupported parameter type %q: only primitive types are supported", e.Type)
}

// UnsupportedToolingError reports a tooling selection outside its closed set.
type UnsupportedToolingError struct {
	Dimension string
	Value     string
}

func (e *UnsupportedToolingError) Error() string {
	return fmt.Sprintf("unsupported %s: %q", e.Dimension, e.Value)
}

// InvalidConfigurationError reports a contradictory configuration request.
type InvalidConfigurationError struct {
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return "invalid configuration: " + e.Reason
}
