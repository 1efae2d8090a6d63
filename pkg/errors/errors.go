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
	ErrUsage        ErrorCode = "USAGE"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Manifest errors
	ErrManifestNotFound   ErrorCode = "MANIFEST_NOT_FOUND"
	ErrManifestParse      ErrorCode = "MANIFEST_PARSE"
	ErrMissingAliasModule ErrorCode = "MISSING_ALIAS_MODULE"

	// Env file errors
	ErrEnvParse ErrorCode = "ENV_PARSE"

	// External command errors
	ErrExternalCommand ErrorCode = "EXTERNAL_COMMAND"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
)

// Category names the error family a code belongs to. The CLI reports it
// next to the message.
type Category string

const (
	CategoryUsage           Category = "UsageError"
	CategoryNotFound        Category = "NotFoundError"
	CategoryParse           Category = "ParseError"
	CategoryExternalCommand Category = "ExternalCommandError"
	CategoryInternal        Category = "InternalError"
)

var categories = map[ErrorCode]Category{
	ErrUsage:              CategoryUsage,
	ErrInvalidInput:       CategoryUsage,
	ErrNotFound:           CategoryNotFound,
	ErrManifestNotFound:   CategoryNotFound,
	ErrMissingAliasModule: CategoryNotFound,
	ErrManifestParse:      CategoryParse,
	ErrEnvParse:           CategoryParse,
	ErrConfigParse:        CategoryParse,
	ErrExternalCommand:    CategoryExternalCommand,
}

// BundleError represents a structured error with code and details
type BundleError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *BundleError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *BundleError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *BundleError) Is(target error) bool {
	var targetErr *BundleError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new BundleError with the given code and message
func New(code ErrorCode, message string) *BundleError {
	return &BundleError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new BundleError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *BundleError {
	return &BundleError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a BundleError
func Wrap(err error, code ErrorCode, message string) *BundleError {
	if err == nil {
		return nil
	}
	return &BundleError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *BundleError {
	if err == nil {
		return nil
	}
	return &BundleError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *BundleError) WithDetail(key string, value interface{}) *BundleError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var bundleErr *BundleError
	if errors.As(err, &bundleErr) {
		return bundleErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a BundleError
func GetErrorCode(err error) ErrorCode {
	var bundleErr *BundleError
	if errors.As(err, &bundleErr) {
		return bundleErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a BundleError
func GetErrorDetails(err error) map[string]interface{} {
	var bundleErr *BundleError
	if errors.As(err, &bundleErr) {
		return bundleErr.Details
	}
	return nil
}

// CategoryOf returns the error family of err. Errors without a known code
// are internal.
func CategoryOf(err error) Category {
	if c, ok := categories[GetErrorCode(err)]; ok {
		return c
	}
	return CategoryInternal
}
