package core

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// FieldError is the message of a single rejected input field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError reports input rejected before it reaches the session Store.
// Err is the underlying reason; Fields holds the per-field messages shown to the user.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err *ValidationError) Error() string {
	msgs := make([]string, 0, len(err.Fields)+1)
	if err.Err != nil {
		msgs = append(msgs, err.Err.Error())
	}
	for _, fld := range err.Fields {
		msgs = append(msgs, fld.Field+": "+fld.Error)
	}
	return strings.Join(msgs, "; ")
}

// shutdown is an error after which the process cannot keep serving sessions.
type shutdown struct {
	message string
	err     error
}

// NewShutdownError marks `err` as fatal: whoever catches it should stop the process gracefully.
func NewShutdownError(err error, msg string) error {
	return &shutdown{message: msg, err: err}
}

func (s *shutdown) Error() string {
	if s.err == nil {
		return s.message
	}
	return fmt.Sprintf("%s: %v", s.message, s.err)
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
