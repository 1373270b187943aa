// Package errors provides structured error types for gradlerepo.
//
// Every failure raised by the resolution engine carries a [Code] that maps
// onto one category of the failure taxonomy:
//   - RETRIEVAL_FAILED: a remote file could not be downloaded
//   - ARCHIVE_INVALID: the distribution archive is unreadable
//   - FILESYSTEM_ERROR: a path in the local repository could not be written
//   - MISSING_ARTIFACT: a wanted artifact is absent after resolution
//   - CANCELED: the caller's context ended the resolution
//   - INCONSISTENT_VERSIONS: several distribution versions were requested at once
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "version cannot be empty")
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRetrieval, origErr, "couldn't download Gradle %s from %s", version, url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidVersion Code = "INVALID_VERSION"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeInvalidProxy   Code = "INVALID_PROXY"

	// Resolution errors
	ErrCodeRetrieval       Code = "RETRIEVAL_FAILED"
	ErrCodeArchive         Code = "ARCHIVE_INVALID"
	ErrCodeFilesystem      Code = "FILESYSTEM_ERROR"
	ErrCodeMissingArtifact Code = "MISSING_ARTIFACT"
	ErrCodeCanceled        Code = "CANCELED"

	// Project integration errors
	ErrCodeInconsistentVersions Code = "INCONSISTENT_VERSIONS"
	ErrCodeInvalidManifest      Code = "INVALID_MANIFEST"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// coder is implemented by typed errors that carry their own code.
type coder interface {
	Code() Code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message and its cause without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}

// MissingArtifactError reports a wanted artifact binary that is still absent
// after a resolution attempt.
type MissingArtifactError struct {
	Version string // Distribution version that was resolved
	Path    string // Expected binary path
}

// Error implements the error interface.
func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("artifact %s for version %s is missing from the local repository; run again with --force to download the distribution again", e.Path, e.Version)
}

// Code returns the error code for this error type.
func (e *MissingArtifactError) Code() Code {
	return ErrCodeMissingArtifact
}
