package sim

import "fmt"

// ConfigurationError reports malformed or incomplete configuration: a broken
// state graph, a flow with no rate at any precedence level, an unsupported
// distribution type, an invalid date range, or an unknown time interval.
// It is always raised at load/validation time, before any period executes.
type ConfigurationError struct {
	Field string // offending key or field
	Msg   string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "configuration error: " + e.Msg
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Msg)
}

// NewConfigurationError builds a ConfigurationError naming the offending
// key or field.
func NewConfigurationError(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// InvariantViolationError reports a broken internal invariant: a negative
// population count, a rate outside [0,1] after clamping, or a segment sum
// exceeding its population size beyond floating-point tolerance. It indicates
// a defect in the executor or resolver, not in user input; a run must abort
// rather than continue with corrupted state.
type InvariantViolationError struct {
	Msg string
}

func (e *InvariantViolationError) Error() string {
	return "invariant violation: " + e.Msg
}

// NewInvariantViolationError builds an InvariantViolationError.
func NewInvariantViolationError(format string, args ...any) *InvariantViolationError {
	return &InvariantViolationError{Msg: fmt.Sprintf(format, args...)}
}
