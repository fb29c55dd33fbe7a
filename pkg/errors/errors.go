// Package errors provides structured error types for gridboard.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the editor and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The layout engine and the session controller report three outcome classes
// that never abort a session:
//   - NOT_FOUND: an operation referenced a block id absent from the layout
//   - BOUNDARY_REJECTED: a move or resize candidate would break the grid
//     invariants, so the previous state is kept
//   - PERSISTENCE_CORRUPT: a stored key failed to decode and was reset
//
// The remaining INVALID_* and STORE_* codes cover construction-time
// validation and backend failures.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFound, "block %q not found", id)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // treat as no-op
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodePersistenceCorrupt, origErr, "decode %s", key)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidKind     Code = "INVALID_KIND"
	ErrCodeInvalidWidth    Code = "INVALID_WIDTH"
	ErrCodeInvalidPosition Code = "INVALID_POSITION"
	ErrCodeInvalidContent  Code = "INVALID_CONTENT"
	ErrCodeInvalidID       Code = "INVALID_ID"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"

	// Layout outcomes
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeBoundaryRejected Code = "BOUNDARY_REJECTED"

	// Persistence errors
	ErrCodePersistenceCorrupt Code = "PERSISTENCE_CORRUPT"
	ErrCodeStoreUnavailable   Code = "STORE_UNAVAILABLE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Invalid reports whether c is one of the INVALID_* input codes.
func (c Code) Invalid() bool {
	return strings.HasPrefix(string(c), "INVALID_")
}

// Error is a coded error. Message is safe to show to users; Cause keeps
// the underlying failure for logs and errors.Is.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any coded error in err's chain carries code. A
// STORE_UNAVAILABLE wrapping a PERSISTENCE_CORRUPT matches both.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the outermost code in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost coded error without
// its code prefix, or err.Error() for uncoded errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Invalid reports whether err was caused by bad input or configuration.
func Invalid(err error) bool {
	return GetCode(err).Invalid()
}

// Absorbed reports whether err belongs to the classes a session swallows
// instead of surfacing: missing blocks and rejected candidates.
func Absorbed(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodeBoundaryRejected:
		return true
	}
	return false
}
