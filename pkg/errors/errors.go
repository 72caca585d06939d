// Package errors provides structured error handling for the ReEDS converter.
// Errors carry a category from a closed taxonomy so callers can distinguish
// recoverable per-row failures (missing fields, unknown enum strings) from
// fatal dataset-level problems (validation, bad argument types).
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error.
type ErrorType string

const (
	// ErrorTypeMissingField represents a required row field that is absent.
	ErrorTypeMissingField ErrorType = "missing_field"
	// ErrorTypeUnknownEnum represents a string that maps to no closed enumeration value.
	ErrorTypeUnknownEnum ErrorType = "unknown_enum"
	// ErrorTypeComponentCreation represents validation failure while instantiating a component.
	ErrorTypeComponentCreation ErrorType = "component_creation"
	// ErrorTypeValidation represents dataset/column/value-set checks against the data store.
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeType represents an invalid argument or reference-data shape.
	ErrorTypeType ErrorType = "type"
	// ErrorTypeNotFound represents a component or dataset that could not be located.
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeFile represents file access problems (missing path, directory instead of file).
	ErrorTypeFile ErrorType = "file"
	// ErrorTypeParser represents construction-engine failures.
	ErrorTypeParser ErrorType = "parser"
	// ErrorTypeData represents data processing errors.
	ErrorTypeData ErrorType = "data"
	// ErrorTypeConflict represents duplicate component registration.
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypeConfig represents configuration errors.
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeInternal represents unexpected internal errors, including
	// recovered panics from misbehaving row implementations.
	ErrorTypeInternal ErrorType = "internal"
)

// Error represents a structured error with context.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message.
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new error with a formatted message.
func Newf(errType ErrorType, format string, args ...any) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
	}
}

// IsType checks if the error is of the given type.
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// TypeOf returns the error's category, or ErrorTypeInternal for foreign errors.
func TypeOf(err error) ErrorType {
	var e *Error
	if !errors.As(err, &e) {
		return ErrorTypeInternal
	}
	return e.Type
}
