// Package validation defines the field-level validation error shared by all features.
package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Error collects per-field validation messages for one request.
// Handlers render it as a 422 response with the field map preserved,
// so the client can re-render the form with the offending fields marked.
type Error struct {
	Fields map[string][]string
}

// NewError returns an empty validation error ready to collect messages.
func NewError() *Error {
	return &Error{Fields: map[string][]string{}}
}

// Add appends a message for the given field.
func (e *Error) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors reports whether any field collected a message.
func (e *Error) HasErrors() bool {
	return len(e.Fields) > 0
}

// ErrOrNil returns the collected error, or nil when every check passed.
// Returning a typed nil through the error interface would always compare
// non-nil, so callers must use this instead of returning e directly.
func (e *Error) ErrOrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// Error implements the error interface with a deterministic field order.
func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", f, strings.Join(e.Fields[f], ", "))
	}
	return b.String()
}
