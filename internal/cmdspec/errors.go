package cmdspec

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Error code constants.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No document files found
	ErrCodeParseFailed = "E004" // YAML/JSON/CUE parse failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeFormat      = "E007" // Unsupported file extension

	// Command validation errors
	ErrCodeNoCommands    = "E101" // Document has no commands
	ErrCodeInvalidMethod = "E102" // Unknown method
	ErrCodeInvalidWhere  = "E103" // Malformed where clause
	ErrCodeInvalidSort   = "E104" // Malformed sort entry
	ErrCodeInvalidValue  = "E105" // Value cannot be converted
	ErrCodeInvalidExpect = "E106" // Both expect and expect_error set
)

// LoadError represents an error that occurred while loading or building
// command documents.
type LoadError struct {
	Code    string
	Message string
	Path    string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error, code, path string) *LoadError {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error(), Path: path}
	}

	// Return first error with position info
	firstErr := errs[0]
	loadErr := &LoadError{Code: code, Message: firstErr.Error(), Path: path}
	if positions := errors.Positions(firstErr); len(positions) > 0 {
		loadErr.Pos = positions[0]
	}
	return loadErr
}
