package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ReadFailed indicates a source file could not be read or decoded
	ReadFailed ErrorCode = "READ_ERROR"
	// ParseFailed indicates a source file could not be parsed into a syntax tree
	ParseFailed ErrorCode = "PARSE_ERROR"
	// KeyNotFound indicates a file path lookup against the analysis set failed
	KeyNotFound ErrorCode = "KEY_NOT_FOUND"
	// RootNotFound indicates the analysis root does not exist or is not a directory
	RootNotFound ErrorCode = "ROOT_NOT_FOUND"
	// StoreFailed indicates a fact store read or write failed
	StoreFailed ErrorCode = "STORE_ERROR"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// AtlasError represents a codeatlas error with a stable code, a message,
// and an optional offending path. All analysis errors are per-file and
// recoverable; callers decide whether to skip or abort.
type AtlasError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Path    string    `json:"path,omitempty"`
	cause   error     // Underlying error (not exported to JSON)
}

// New creates a new AtlasError
func New(code ErrorCode, message string, cause error) *AtlasError {
	return &AtlasError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// NewReadError creates a READ_ERROR for the given file
func NewReadError(path string, cause error) *AtlasError {
	return &AtlasError{Code: ReadFailed, Message: "failed to read source file", Path: path, cause: cause}
}

// NewParseError creates a PARSE_ERROR for the given file
func NewParseError(path string, cause error) *AtlasError {
	return &AtlasError{Code: ParseFailed, Message: "failed to parse source file", Path: path, cause: cause}
}

// NewKeyNotFound creates a KEY_NOT_FOUND for a missing analysis-set entry
func NewKeyNotFound(path string) *AtlasError {
	return &AtlasError{Code: KeyNotFound, Message: "file is not present in the analysis set", Path: path}
}

// NewRootNotFound creates a ROOT_NOT_FOUND for a missing analysis root
func NewRootNotFound(root string) *AtlasError {
	return &AtlasError{Code: RootNotFound, Message: "analysis root does not exist or is not a directory", Path: root}
}

// Error implements the error interface
func (e *AtlasError) Error() string {
	switch {
	case e.Path != "" && e.cause != nil:
		return fmt.Sprintf("[%s] %s: %s: %v", e.Code, e.Message, e.Path, e.cause)
	case e.Path != "":
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Path)
	case e.cause != nil:
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	default:
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
}

// Unwrap returns the underlying error
func (e *AtlasError) Unwrap() error {
	return e.cause
}

// WithPath attaches the offending path to the error
func (e *AtlasError) WithPath(path string) *AtlasError {
	e.Path = path
	return e
}

// CodeOf extracts the error code from err, or INTERNAL_ERROR when err is
// not an AtlasError.
func CodeOf(err error) ErrorCode {
	var ae *AtlasError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return InternalError
}

// HasCode reports whether err carries the given error code
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
