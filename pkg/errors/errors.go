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

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Plugin errors
	ErrPluginNotFound ErrorCode = "PLUGIN_NOT_FOUND"
	ErrPluginInvalid  ErrorCode = "PLUGIN_INVALID"
	ErrPluginSkip     ErrorCode = "PLUGIN_SKIP"
	ErrPluginConfig   ErrorCode = "PLUGIN_CONFIG"
	ErrPluginExecute  ErrorCode = "PLUGIN_EXECUTE"

	// Pipeline errors
	ErrNoPassphrase ErrorCode = "NO_PASSPHRASE"
	ErrArchiveEmpty ErrorCode = "ARCHIVE_EMPTY"
	ErrEncrypt      ErrorCode = "ENCRYPT"
	ErrDegraded     ErrorCode = "DEGRADED"
	ErrAborted      ErrorCode = "ABORTED"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileCopy     ErrorCode = "FILE_COPY"
	ErrDirCreate    ErrorCode = "DIR_CREATE"

	// Command execution errors
	ErrCommandRun ErrorCode = "COMMAND_RUN"
)

// SparekeysError represents a structured error with code and details
type SparekeysError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *SparekeysError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SparekeysError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *SparekeysError) Is(target error) bool {
	var targetErr *SparekeysError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new SparekeysError with the given code and message
func New(code ErrorCode, message string) *SparekeysError {
	return &SparekeysError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new SparekeysError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *SparekeysError {
	return &SparekeysError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a SparekeysError
func Wrap(err error, code ErrorCode, message string) *SparekeysError {
	if err == nil {
		return nil
	}
	return &SparekeysError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *SparekeysError {
	if err == nil {
		return nil
	}
	return &SparekeysError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *SparekeysError) WithDetail(key string, value interface{}) *SparekeysError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var skErr *SparekeysError
	if errors.As(err, &skErr) {
		return skErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a SparekeysError
func GetErrorCode(err error) ErrorCode {
	var skErr *SparekeysError
	if errors.As(err, &skErr) {
		return skErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a SparekeysError
func GetErrorDetails(err error) map[string]interface{} {
	var skErr *SparekeysError
	if errors.As(err, &skErr) {
		return skErr.Details
	}
	return nil
}
