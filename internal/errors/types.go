package errors

import (
	"fmt"
	"maps"
)

// ErrorType classifies an AppError. User errors are reported back to the
// caller; system errors are logged as well.
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeStorage
	ErrorTypeInvalidInput
	ErrorTypeTimeout
)

var errorTypeNames = map[ErrorType]string{
	ErrorTypeValidation:   "validation",
	ErrorTypeNotFound:     "not_found",
	ErrorTypeStorage:      "storage",
	ErrorTypeInvalidInput: "invalid_input",
	ErrorTypeTimeout:      "timeout",
}

// String returns the string representation of the error type
func (et ErrorType) String() string {
	if name, ok := errorTypeNames[et]; ok {
		return name
	}
	return "unknown"
}

// IsUserError reports whether errors of this type stem from the caller's input
func (et ErrorType) IsUserError() bool {
	switch et {
	case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput:
		return true
	}
	return false
}

// AppError is the error shared by every layer of the task tracker. Fields
// holds structured detail such as the rejected field, the task id or the
// store operation.
type AppError struct {
	Type    ErrorType
	Message string
	Code    string
	Cause   error
	Fields  map[string]string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError with the same type and code
func (e *AppError) Is(target error) bool {
	if appErr, ok := target.(*AppError); ok {
		return e.Type == appErr.Type && e.Code == appErr.Code
	}
	return false
}

// IsType checks if this error is of the specified type
func (e *AppError) IsType(errorType ErrorType) bool {
	return e.Type == errorType
}

// WithField records a detail about the failure; value is formatted with fmt.Sprint.
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[key] = fmt.Sprint(value)
	return e
}

// LogFields returns the recorded details together with the error code and
// type, for structured logging.
func (e *AppError) LogFields() map[string]string {
	fields := make(map[string]string, len(e.Fields)+2)
	maps.Copy(fields, e.Fields)
	fields["code"] = e.Code
	fields["type"] = e.Type.String()
	return fields
}
