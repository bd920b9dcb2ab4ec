package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"titanicdash/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context. Domain sentinels pick their
// code from Classify so the code survives wrapping.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    Classify(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if it's an AppError, otherwise the domain
// classification of err.
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return Classify(err)
}

// Predefined error codes
const (
	CodeConfigInvalid = "CONFIG_INVALID"
	CodeLoadError     = "LOAD_ERROR"
	CodeInvalidRange  = "INVALID_RANGE"
	CodeUnknownColumn = "UNKNOWN_COLUMN"
	CodeNotFound      = "NOT_FOUND"
	CodeInternalError = "INTERNAL_ERROR"
	CodeInvalidInput  = "INVALID_INPUT"
)

// Classify maps domain sentinels to error codes
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case core.IsLoadError(err):
		return CodeLoadError
	case core.IsInvalidRangeError(err):
		return CodeInvalidRange
	case core.IsUnknownColumnError(err), stderrors.Is(err, core.ErrColumnType):
		return CodeUnknownColumn
	}
	return CodeInternalError
}

// HTTPStatus maps an error code to the status a handler should answer with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case CodeInvalidRange, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUnknownColumn, CodeNotFound:
		return http.StatusNotFound
	case CodeLoadError:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}
