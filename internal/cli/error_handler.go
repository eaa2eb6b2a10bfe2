package cli

import (
	"fmt"
	"io"

	"task-tracker/internal/errors"
	"task-tracker/internal/logging"
	"task-tracker/internal/validation"
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	return fmt.Errorf("failed to %s: %s", operation, eh.Message(err))
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if _, ok := errors.AsAppError(err); ok || validation.IsValidationError(err) {
		return fmt.Errorf("%s", eh.Message(err))
	}
	return err
}

// Message returns the text shown to the user for err.
func (eh *ErrorHandler) Message(err error) string {
	if _, ok := errors.AsAppError(err); ok {
		return errors.GetUserMessage(err)
	}
	return err.Error()
}

// Report writes err to w and logs it when it is a system failure rather than
// a user mistake.
func (eh *ErrorHandler) Report(w io.Writer, v *view, err error) {
	if appErr, ok := errors.AsAppError(err); ok && errors.ShouldLogError(err) {
		logging.Error(err, appErr.LogFields())
	}
	fmt.Fprintln(w, v.failure.Render("❌ Error: "+eh.Message(err)))
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNotFound)
}

// IsStorageError checks if an error is a task store failure
func (eh *ErrorHandler) IsStorageError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeStorage)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}
