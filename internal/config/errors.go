package config

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	// ErrRead indicates the document could not be read at all.
	ErrRead = errors.New("config: unreadable input")

	// ErrParse indicates malformed YAML/JSON syntax.
	ErrParse = errors.New("config: parse error")

	// ErrSchema indicates a well-formed document with wrong keys, types or values.
	ErrSchema = errors.New("config: schema violation")
)

// Error wraps a configuration failure with its kind and location.
type Error struct {
	Kind  error
	Path  string
	Field string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func schemaErr(field, format string, args ...any) *Error {
	return &Error{Kind: ErrSchema, Field: field, Err: fmt.Errorf(format, args...)}
}
