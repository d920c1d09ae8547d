package internlog

import (
	"fmt"
	"strings"
)

const parseFailure = "Failed to parse Excel file. Please ensure it matches the template format."

// InputRejectedError is returned for uploads refused before parsing.
type InputRejectedError struct {
	Reason string
}

func (e *InputRejectedError) Error() string {
	return e.Reason
}

// ParseError means the bytes could not be read as the two sheet template.
// The message is the same for every cause; Unwrap exposes the cause for logs.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return parseFailure
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}
