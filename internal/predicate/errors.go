package predicate

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes predicate errors.
type ErrorCode string

const (
	// ErrCodeEmptyGroup indicates a group without children.
	ErrCodeEmptyGroup ErrorCode = "EMPTY_GROUP"

	// ErrCodeEmptyList indicates a membership test against an empty list.
	ErrCodeEmptyList ErrorCode = "EMPTY_LIST"

	// ErrCodeInvalidOperator indicates an operator outside Operators.
	ErrCodeInvalidOperator ErrorCode = "INVALID_OPERATOR"

	// ErrCodeInvalidValue indicates a value that cannot be rendered.
	ErrCodeInvalidValue ErrorCode = "INVALID_VALUE"

	// ErrCodeNilNode indicates a nil node where one was required.
	ErrCodeNilNode ErrorCode = "NIL_NODE"

	// ErrCodeCycle indicates a group nested inside itself.
	ErrCodeCycle ErrorCode = "CYCLE"
)

// Error is returned when a predicate tree cannot be rendered.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Key is the column of the offending leaf, if any.
	Key string

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Key != "" {
		msg = fmt.Sprintf("%s (key=%s)", msg, e.Key)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// IsEmptyGroup returns true if the error is an empty group error.
// Uses errors.As to handle wrapped errors.
func IsEmptyGroup(err error) bool {
	return CodeOf(err) == ErrCodeEmptyGroup
}

// IsInvalidOperator returns true if the error is an invalid operator error.
func IsInvalidOperator(err error) bool {
	return CodeOf(err) == ErrCodeInvalidOperator
}
