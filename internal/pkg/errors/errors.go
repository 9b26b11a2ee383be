// Package errors provides custom error types and error handling utilities.
package errors

import (
	"fmt"
)

// Error codes.
const (
	CodeUsage    = "USAGE_ERROR"
	CodeBadInput = "BAD_INPUT"
	CodeParse    = "PARSE_ERROR"
	CodeNotFound = "NOT_FOUND"
	CodeInternal = "INTERNAL_ERROR"
)

// AppError represents an application error with code and details.
type AppError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	Err     error             `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit code for this error.
func (e *AppError) ExitCode() int {
	switch e.Code {
	case CodeUsage:
		return 2
	case CodeBadInput, CodeParse:
		return 65 // EX_DATAERR
	case CodeNotFound:
		return 66 // EX_NOINPUT
	default:
		return 1
	}
}

// New creates a new AppError.
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with an AppError.
func Wrap(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetails adds details to the error.
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// WithDetail adds a single detail to the error.
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Convenience constructors.

// UsageError creates a usage error.
func UsageError(message string) *AppError {
	return New(CodeUsage, message)
}

// ParseError creates a parse error pinned to a file and line number.
func ParseError(path string, line int, err error) *AppError {
	return Wrap(CodeParse, fmt.Sprintf("bad JSON on line %d in %s", line, path), err)
}

// NotFoundError creates a not found error.
func NotFoundError(what string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", what))
}

// NoMatchError creates a not found error for an unmatched path pattern.
func NoMatchError(pattern string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("no files matched: %s", pattern))
}

// BadInputError creates a bad input error.
func BadInputError(message string, err error) *AppError {
	return Wrap(CodeBadInput, message, err)
}

// InternalError creates an internal error.
func InternalError(message string, err error) *AppError {
	return Wrap(CodeInternal, message, err)
}

// IsNotFound checks if error is a not found error.
func IsNotFound(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// IsParse checks if error is a parse error.
func IsParse(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == CodeParse
	}
	return false
}

// ExitCode returns the process exit code for any error.
// Non-AppError errors map to a generic failure.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr.ExitCode()
	}
	return 1
}
