package scheduling

import (
	"fmt"
	"sort"
	"strings"
)

// FormatError reports a malformed time or date string. It always
// indicates a caller bug, not something a retry can fix.
type FormatError struct {
	Field string
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed %s value %q", e.Field, e.Value)
}

// ValidationError carries per-field messages. An empty map never
// escapes the engine; absence of the error signals validity.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// ConflictError reports an instructor double-booking and carries the
// colliding commitment so callers can suggest alternatives.
type ConflictError struct {
	Conflict Conflict
}

func (e *ConflictError) Error() string {
	return e.Conflict.Message()
}

// UnknownKindError indicates a recurrence kind the engine does not
// recognise, which is a contract mismatch with the caller.
type UnknownKindError struct {
	Kind Kind
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown recurrence kind %q", string(e.Kind))
}
