// Package errors defines the typed errors shared across the dispatch
// service, each carrying a stable machine-readable code.
package errors

import (
	"errors"
	"fmt"
)

// Standard error codes for the application.
const (
	CodeUnknown      = "UNKNOWN"
	CodeValidation   = "VALIDATION"
	CodeAPI          = "API"
	CodeConfig       = "CONFIG"
	CodeDatabase     = "DATABASE"
	CodeUnauthorized = "UNAUTHORIZED"
)

// ApplicationError is the interface implemented by all custom errors.
type ApplicationError interface {
	error
	Code() string
	Unwrap() error
}

// Error represents a basic application error.
type Error struct {
	code    string
	message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}
	return e.message
}

func (e *Error) Code() string { return e.code }

func (e *Error) Unwrap() error { return e.err }

// Code returns the code of err if it is an ApplicationError,
// or CodeUnknown if it is not.
func Code(err error) string {
	var appErr ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Code()
	}
	return CodeUnknown
}

// ValidationError reports a rejected input, such as a missing required
// dispatch field.
type ValidationError struct {
	base Error
}

func (e *ValidationError) Error() string { return e.base.Error() }

func (e *ValidationError) Code() string { return e.base.Code() }

func (e *ValidationError) Unwrap() error { return e.base.Unwrap() }

func NewValidationError(message string, cause error) error {
	return &ValidationError{base: Error{code: CodeValidation, message: message, err: cause}}
}

// APIError reports a failure from an upstream HTTP API.
type APIError struct {
	base Error
}

func (e *APIError) Error() string { return e.base.Error() }

func (e *APIError) Code() string { return e.base.Code() }

func (e *APIError) Unwrap() error { return e.base.Unwrap() }

func NewAPIError(message string, cause error) error {
	return &APIError{base: Error{code: CodeAPI, message: message, err: cause}}
}

// ConfigError reports invalid or missing configuration.
type ConfigError struct {
	base Error
}

func (e *ConfigError) Error() string { return e.base.Error() }

func (e *ConfigError) Code() string { return e.base.Code() }

func (e *ConfigError) Unwrap() error { return e.base.Unwrap() }

func NewConfigError(message string, cause error) error {
	return &ConfigError{base: Error{code: CodeConfig, message: message, err: cause}}
}

// DatabaseError reports a failure in the audit store.
type DatabaseError struct {
	base Error
}

func (e *DatabaseError) Error() string { return e.base.Error() }

func (e *DatabaseError) Code() string { return e.base.Code() }

func (e *DatabaseError) Unwrap() error { return e.base.Unwrap() }

func NewDatabaseError(message string, cause error) error {
	return &DatabaseError{base: Error{code: CodeDatabase, message: message, err: cause}}
}

// UnauthorizedError reports a command from a non-admin user.
type UnauthorizedError struct {
	base Error
}

func (e *UnauthorizedError) Error() string { return e.base.Error() }

func (e *UnauthorizedError) Code() string { return e.base.Code() }

func (e *UnauthorizedError) Unwrap() error { return e.base.Unwrap() }

func NewUnauthorizedError(message string) error {
	return &UnauthorizedError{base: Error{code: CodeUnauthorized, message: message}}
}
