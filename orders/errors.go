package orders

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput matches every *InvalidInputError via errors.Is
	ErrInvalidInput = errors.New("invalid input")
	// ErrFormat matches every *FormatError via errors.Is
	ErrFormat = errors.New("malformed exchange response")
)

// InvalidInputError is returned by the validators when a single field fails
// its local constraint. No request reaches the exchange after one.
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	return e.Message
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field string, format string, args ...interface{}) error {
	return &InvalidInputError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// FormatError is returned when an exchange payload lacks a numeric field the
// formatter needs, or carries one that does not parse.
type FormatError struct {
	Field string
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot read %s %q from exchange response: %v", e.Field, e.Value, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}
