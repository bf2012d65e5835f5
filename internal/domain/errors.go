package domain

import (
	"errors"
	"sort"
	"strings"
)

var ErrUnknownIndex = errors.New("unknown index")

// ValidationError is a client error: the request is rejected before any
// store call. Fields maps a payload field or query parameter to a reason.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Add(field, reason string) {
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = reason
}

func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

// Err returns nil when no problems were recorded.
func (e *ValidationError) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
