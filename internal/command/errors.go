package command

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two generation failures callers usually handle.
var (
	// ErrMissingTable is matched by errors.Is when no table was bound.
	ErrMissingTable = errors.New("command: missing table")

	// ErrMissingParameters is matched by errors.Is when INSERT or UPDATE
	// has no parameters.
	ErrMissingParameters = errors.New("command: missing parameters")
)

// ErrorCode categorizes command errors.
type ErrorCode string

const (
	ErrCodeMissingTable      ErrorCode = "MISSING_TABLE"
	ErrCodeMissingParameters ErrorCode = "MISSING_PARAMETERS"
	ErrCodeInvalidSort       ErrorCode = "INVALID_SORT"
	ErrCodeInvalidValue      ErrorCode = "INVALID_VALUE"
	ErrCodeInvalidMethod     ErrorCode = "INVALID_METHOD"
	ErrCodePredicate         ErrorCode = "PREDICATE"
)

// Error is returned by Generate.
type Error struct {
	Code    ErrorCode
	Method  Method
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("command: %s", e.Message)
	if e.Method != "" {
		msg = fmt.Sprintf("command: %s %s", e.Method, e.Message)
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

// Is reports whether target is the sentinel for e's code.
// This allows errors.Is(err, ErrMissingTable) to return true.
func (e *Error) Is(target error) bool {
	switch e.Code {
	case ErrCodeMissingTable:
		return target == ErrMissingTable
	case ErrCodeMissingParameters:
		return target == ErrMissingParameters
	}
	return false
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// IsMissingTable returns true if the error is a missing table error.
func IsMissingTable(err error) bool {
	return errors.Is(err, ErrMissingTable)
}

// IsMissingParameters returns true if the error is a missing parameters error.
func IsMissingParameters(err error) bool {
	return errors.Is(err, ErrMissingParameters)
}
