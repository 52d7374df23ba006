// Package apperr defines coded domain errors shared by repositories, services
// and handlers.
//
// Repositories and services return *Error values (or wrap them); handlers
// turn them into HTTP responses with Status and the JSON shape of the value:
//
//	if errors.Is(err, apperr.ErrNotFound) { ... }
//
//	var e *apperr.Error
//	if errors.As(err, &e) {
//	    c.Status(e.Status()).JSON(e)
//	}
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine readable error key.
type Code string

const (
	CodeValidation         Code = "validation"
	CodeIntegrity          Code = "integrity_violation"
	CodeInvalidParameter   Code = "invalid_parameter"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeUnauthorized       Code = "unauthorized"
	CodeNotFound           Code = "not_found"
	CodeInternal           Code = "internal"
)

// IntegrityMessage is the message carried by every uniqueness violation.
const IntegrityMessage = "Bad Request - Integrity constraint violation"

// Status returns the HTTP status code for the code.
func (c Code) Status() int {
	switch c {
	case CodeValidation, CodeIntegrity, CodeInvalidParameter, CodeInvalidCredentials:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, a message and optional per-field details.
type Error struct {
	Code    Code              `json:"code"`
	Message string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Status returns the HTTP status code for the error.
func (e *Error) Status() int {
	return e.Code.Status()
}

// WithCause returns a copy of e wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Fields: e.Fields, cause: err}
}

// Sentinels for errors.Is.
var (
	ErrValidation         = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrIntegrity          = &Error{Code: CodeIntegrity, Message: IntegrityMessage}
	ErrInvalidParameter   = &Error{Code: CodeInvalidParameter, Message: "invalid query parameter"}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "Unable to authenticate with provided credentials"}
	ErrUnauthorized       = &Error{Code: CodeUnauthorized, Message: "Authentication credentials were not provided or are invalid"}
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "Not found."}
	ErrInternal           = &Error{Code: CodeInternal, Message: "internal server error"}
)

// Validation builds a validation error with per-field messages.
func Validation(fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: ErrValidation.Message, Fields: fields}
}

// FieldError is a validation error for a single field.
func FieldError(field, msg string) *Error {
	return Validation(map[string]string{field: msg})
}

// Integrity wraps a storage uniqueness violation.
func Integrity(cause error) *Error {
	return ErrIntegrity.WithCause(cause)
}

// InvalidParameter reports a malformed query parameter.
func InvalidParameter(name, value string) *Error {
	return &Error{
		Code:    CodeInvalidParameter,
		Message: fmt.Sprintf("invalid value %q for parameter %q", value, name),
		Fields:  map[string]string{name: "must be a comma separated list of integers"},
	}
}

// NotFound wraps the underlying lookup failure.
func NotFound(cause error) *Error {
	return ErrNotFound.WithCause(cause)
}

// From extracts the *Error in err's chain, or an internal error wrapping err.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal.WithCause(err)
}
