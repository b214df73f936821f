// Package errors provides structured error types for the Roomsmith application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages naming the offending entity
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - SCHEMA_*, DUPLICATE_*, DANGLING_*, CYCLIC_*, ROOM_*: validation-time
//     failures, fatal to the run
//   - PLACEMENT_*: resolution-time failures, fatal to the run
//   - UNRESOLVED_*: internal invariant violations (resolver defects)
//   - DESCRIBE_*, STORE_*, ENGINE_*, ASSET_*: collaborator failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDanglingReference, "object %q references missing room %q", objID, roomID)
//	if errors.Is(err, errors.ErrCodeDanglingReference) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(origErr, errors.ErrCodeStoreFailed, "load persisted layout")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Validation-time errors (fatal to the run, reported with offending ids)
	ErrCodeSchema            Code = "SCHEMA_ERROR"
	ErrCodeDuplicateIdentity Code = "DUPLICATE_IDENTITY"
	ErrCodeDanglingReference Code = "DANGLING_REFERENCE"
	ErrCodeCyclicAnchor      Code = "CYCLIC_ANCHOR"
	ErrCodeRoomOverlap       Code = "ROOM_OVERLAP"

	// Resolution-time errors
	ErrCodePlacementInfeasible Code = "PLACEMENT_INFEASIBLE"

	// Internal invariant violations (resolver defects, not user errors)
	ErrCodeUnresolvedDependency Code = "UNRESOLVED_DEPENDENCY"

	// Boundary collaborator errors
	ErrCodeDescribeFailed Code = "DESCRIBE_FAILED"
	ErrCodeStoreFailed    Code = "STORE_FAILED"
	ErrCodeEngineFailed   Code = "ENGINE_FAILED"
	ErrCodeAssetNotFound  Code = "ASSET_NOT_FOUND"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message naming the offending entity
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
func Wrap(cause error, code Code, format string, args ...any) *Error {
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

// IsValidation reports whether err carries one of the validation-time codes
// (schema, duplicate identity, dangling reference, cyclic anchor, room
// overlap). Validation errors indicate bad input rather than resolver bugs.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeSchema, ErrCodeDuplicateIdentity, ErrCodeDanglingReference,
		ErrCodeCyclicAnchor, ErrCodeRoomOverlap:
		return true
	}
	return false
}
