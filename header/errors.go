package header

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedHeader is returned when a file or trace header is structurally invalid.
	ErrMalformedHeader = errors.New("malformed header")

	// ErrUnknownField is returned when a field name is not part of the schema.
	ErrUnknownField = errors.New("unknown header field")
)

// MalformedHeaderError locates a structurally invalid header.
//
// Offset is the absolute byte offset of the offending record, or -1 when
// the error concerns the file as a whole.
type MalformedHeaderError struct {
	Path   string
	Offset int64
	Field  string
	Reason string
}

func (e *MalformedHeaderError) Error() string {
	msg := "malformed header"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" at offset %d", e.Offset)
	}
	if e.Field != "" {
		msg += " (" + e.Field + ")"
	}
	return msg + ": " + e.Reason
}

func (e *MalformedHeaderError) Unwrap() error { return ErrMalformedHeader }

// UnknownFieldError reports a field name that could not be resolved.
type UnknownFieldError struct {
	Name   string
	Record string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown %s field %q", e.Record, e.Name)
}

func (e *UnknownFieldError) Unwrap() error { return ErrUnknownField }
