// Package config loads and validates the dockhand manifest.
package config

import (
	"fmt"
	"strings"
)

// Error codes for categorization.
const (
	ErrCodeConfigNotFound = "CONFIG_NOT_FOUND"
	ErrCodeConfigParse    = "CONFIG_PARSE"
	ErrCodeConfigInvalid  = "CONFIG_INVALID"
	ErrCodeServiceInvalid = "SERVICE_INVALID"
	ErrCodeBundleInvalid  = "BUNDLE_INVALID"
)

// UserError represents a user-friendly error with actionable suggestions.
type UserError struct {
	Code       string // Error code for categorization (e.g., "CONFIG_NOT_FOUND")
	Message    string // User-friendly error message
	Context    string // File path or field that triggered the error
	Suggestion string // Actionable suggestion to fix the error
	Underlying error  // Wrapped error for error chain
}

// Error returns the formatted error message.
func (e *UserError) Error() string {
	var b strings.Builder

	b.WriteString(e.Message)

	if e.Context != "" {
		fmt.Fprintf(&b, " (at %s)", e.Context)
	}

	return b.String()
}

// Unwrap returns the underlying error for error chain support.
func (e *UserError) Unwrap() error {
	return e.Underlying
}

// Is supports errors.Is() for comparing error codes.
func (e *UserError) Is(target error) bool {
	if t, ok := target.(*UserError); ok {
		return e.Code == t.Code
	}
	return false
}

// NewConfigNotFoundError creates an error for a missing manifest file.
func NewConfigNotFoundError(path string) *UserError {
	return &UserError{
		Code:       ErrCodeConfigNotFound,
		Message:    "manifest file not found",
		Context:    path,
		Suggestion: "create a dockhand.yaml or pass --config with the manifest path",
	}
}

// NewParseError creates an error for an unparseable manifest.
func NewParseError(path string, err error) *UserError {
	return &UserError{
		Code:       ErrCodeConfigParse,
		Message:    "manifest is not valid YAML",
		Context:    path,
		Suggestion: "check indentation and quoting near the reported line",
		Underlying: err,
	}
}

// NewValidationError creates an error for an invalid manifest field.
func NewValidationError(field, message, suggestion string) *UserError {
	return &UserError{
		Code:       ErrCodeConfigInvalid,
		Message:    message,
		Context:    field,
		Suggestion: suggestion,
	}
}
