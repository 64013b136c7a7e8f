package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrCanceled     ErrorCode = "CANCELED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Unit errors
	ErrUnitInvalid ErrorCode = "UNIT_INVALID"
	ErrWarnings    ErrorCode = "WARNINGS"

	// FileSystem errors
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileMove      ErrorCode = "FILE_MOVE"
	ErrFileCopy      ErrorCode = "FILE_COPY"
	ErrRemove        ErrorCode = "REMOVE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrSymlinkRead   ErrorCode = "SYMLINK_READ"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
	ErrCompareLimit  ErrorCode = "COMPARE_LIMIT"
)

// DirlinkError represents a structured error with code and details
type DirlinkError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DirlinkError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DirlinkError) Unwrap() error {
	return e.Wrapped
}

// Is matches another DirlinkError carrying the same code
func (e *DirlinkError) Is(target error) bool {
	var targetErr *DirlinkError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DirlinkError with the given code and message
func New(code ErrorCode, message string) *DirlinkError {
	return &DirlinkError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DirlinkError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DirlinkError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with a DirlinkError. A nil err yields nil.
func Wrap(err error, code ErrorCode, message string) *DirlinkError {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DirlinkError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error
func (e *DirlinkError) WithDetail(key string, value interface{}) *DirlinkError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Annotate attaches a detail to err. Errors that are not DirlinkErrors are
// wrapped as ErrInternal first.
func Annotate(err error, key string, value interface{}) *DirlinkError {
	if err == nil {
		return nil
	}
	var dirlinkErr *DirlinkError
	if !errors.As(err, &dirlinkErr) {
		dirlinkErr = Wrap(err, ErrInternal, "unexpected error")
	}
	return dirlinkErr.WithDetail(key, value)
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var dirlinkErr *DirlinkError
	if errors.As(err, &dirlinkErr) {
		return dirlinkErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DirlinkError
func GetErrorCode(err error) ErrorCode {
	var dirlinkErr *DirlinkError
	if errors.As(err, &dirlinkErr) {
		return dirlinkErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a DirlinkError
func GetErrorDetails(err error) map[string]interface{} {
	var dirlinkErr *DirlinkError
	if errors.As(err, &dirlinkErr) {
		return dirlinkErr.Details
	}
	return nil
}
