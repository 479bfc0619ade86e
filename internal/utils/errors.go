package utils

import (
	"fmt"
	"strings"
)

// ValidationError represents an error occurring during data validation.
type ValidationError struct {
	Message string
}

// Error returns the error message string.
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new ValidationError with a specific message.
func NewValidationError(message string) error {
	return &ValidationError{
		Message: message,
	}
}

// NewValidationErrorf creates a new ValidationError with a formatted message.
func NewValidationErrorf(format string, args ...interface{}) error {
	return &ValidationError{
		Message: fmt.Sprintf(format, args...),
	}
}

// BatchError collects row-level validation messages for an upload batch. A
// batch with any bad row is rejected as a whole; the messages carry enough
// detail to fix the input.
type BatchError struct {
	RowErrors []string
}

// Error returns a summary followed by each row message.
func (e *BatchError) Error() string {
	return fmt.Sprintf("batch invalid: %d row error(s): %s",
		len(e.RowErrors), strings.Join(e.RowErrors, "; "))
}

// Add appends a row-level message.
func (e *BatchError) Add(format string, args ...interface{}) {
	e.RowErrors = append(e.RowErrors, fmt.Sprintf(format, args...))
}

// HasErrors reports whether any row failed validation.
func (e *BatchError) HasErrors() bool {
	return len(e.RowErrors) > 0
}
