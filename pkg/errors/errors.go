// Package errors provides structured error types for RayTone.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - SLOT_*, SNAPSHOT_*: Graph structure failures raised by the runtime
//   - NOT_FOUND_*: Resource not found
//   - NETWORK_*: Network-related errors from remote stores
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeSlotInUse, "control slot %d in use", id)
//	if errors.Is(err, errors.ErrCodeSlotInUse) {
//	    // Handle the collision
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to fetch %s", id)
//
// Values created with [New] can also act as sentinels. Two *Error values
// with the same code compare equal under the standard library's errors.Is,
// so a package may export
//
//	var ErrSlotInUse = errors.New(errors.ErrCodeSlotInUse, "slot in use")
//
// and callers may match any error carrying that code against it.
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
	ErrCodeInvalidKey     Code = "INVALID_KEY"
	ErrCodeInvalidProgram Code = "INVALID_PROGRAM"
	ErrCodeInvalidAsset   Code = "INVALID_ASSET"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidSlot    Code = "INVALID_SLOT"

	// Graph structure errors
	ErrCodeSlotExhausted           Code = "SLOT_EXHAUSTED"
	ErrCodeSlotInUse               Code = "SLOT_IN_USE"
	ErrCodeDuplicateSingleton      Code = "DUPLICATE_SINGLETON"
	ErrCodeUnknownFactoryKey       Code = "UNKNOWN_FACTORY_KEY"
	ErrCodeStaleHandle             Code = "STALE_HANDLE"
	ErrCodeSelfLoop                Code = "SELF_LOOP"
	ErrCodeAlreadyConnected        Code = "ALREADY_CONNECTED"
	ErrCodeNoSuchSocket            Code = "NO_SUCH_SOCKET"
	ErrCodeSnapshotIndexOutOfRange Code = "SNAPSHOT_INDEX_OUT_OF_RANGE"
	ErrCodeCycleDetected           Code = "CYCLE_DETECTED"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeProgramNotFound Code = "PROGRAM_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// Is reports whether target is an *Error with the same code.
// It lets code-carrying sentinels match under the standard errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
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

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Join combines several errors into one, dropping nils.
// It returns nil when every input is nil.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
