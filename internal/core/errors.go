package core

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound marks a row that is absent or owned by another user.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated marks a request with no resolvable user.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ValidationError carries per-field messages so the API can return them
// as a structured 400 body and the form can show them inline.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a failing field. Nil errors are ignored so callers can
// chain validators without checking each one.
func (v *ValidationError) Add(field string, err error) {
	if err != nil {
		v.Fields[field] = err.Error()
	}
}

// Empty reports whether every field passed.
func (v *ValidationError) Empty() bool {
	return len(v.Fields) == 0
}

func (v *ValidationError) Error() string {
	if v.Empty() {
		return "validation failed"
	}
	fields := make([]string, 0, len(v.Fields))
	for f := range v.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + v.Fields[f]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
