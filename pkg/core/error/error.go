// File: error.go
// Title: Core Error Implementation
// Description: Implements the Error type carrying a code, the failing
//              operation and structured details. Compatible with errors.Is,
//              errors.As and errors.Unwrap.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors
// - 2026-10-17 v0.2.0: Trimmed to code, operation and details

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Code classifies an error
type Code string

// Error codes used across modlevel
const (
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeConfigError  Code = "CONFIG_ERROR"
	CodeIOError      Code = "IO_ERROR"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// Error represents a structured error with a code and metadata
type Error struct {
	message   string
	cause     error
	code      Code
	operation string
	details   map[string]interface{}
}

// New creates a new Error with the given message
func New(message string) *Error {
	return &Error{
		message: message,
		code:    CodeUnknown,
		details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with additional context. Wrap(nil, ...)
// returns nil.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	code := CodeUnknown
	var inner *Error
	if errors.As(err, &inner) {
		code = inner.code
	}

	return &Error{
		message: message,
		cause:   err,
		code:    code,
		details: make(map[string]interface{}),
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.cause
}

// WithCode sets the error code
func (e *Error) WithCode(code Code) *Error {
	e.code = code
	return e
}

// WithOperation records the operation that failed
func (e *Error) WithOperation(operation string) *Error {
	e.operation = operation
	return e
}

// WithDetail adds a single detail
func (e *Error) WithDetail(key string, value interface{}) *Error {
	e.details[key] = value
	return e
}

// Code returns the error code
func (e *Error) Code() Code {
	return e.code
}

// Operation returns the failing operation
func (e *Error) Operation() string {
	return e.operation
}

// Message returns the message without the cause
func (e *Error) Message() string {
	return e.message
}

// Details returns a copy of the details
func (e *Error) Details() map[string]interface{} {
	out := make(map[string]interface{}, len(e.details))
	for k, v := range e.details {
		out[k] = v
	}
	return out
}

// String returns a detailed representation for diagnostics
func (e *Error) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.code, e.Error())
	if e.operation != "" {
		fmt.Fprintf(&b, " (operation=%s)", e.operation)
	}
	if len(e.details) > 0 {
		keys := make([]string, 0, len(e.details))
		for k := range e.details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, e.details[k])
		}
	}
	return b.String()
}

// MarshalJSON implements json.Marshaler
func (e *Error) MarshalJSON() ([]byte, error) {
	data := map[string]interface{}{
		"message": e.message,
		"code":    e.code,
	}
	if e.cause != nil {
		data["cause"] = e.cause.Error()
	}
	if e.operation != "" {
		data["operation"] = e.operation
	}
	if len(e.details) > 0 {
		data["details"] = e.details
	}
	return json.Marshal(data)
}

// HasCode reports whether any Error in err's chain carries code
func HasCode(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.code == code {
			return true
		}
		err = e.cause
	}
	return false
}

// GetCode returns the code of the outermost Error in err's chain
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return CodeUnknown
}
