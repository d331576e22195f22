package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeNotFound means a referenced entity is absent
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeBadRequest covers malformed input and invalid state transitions
	ErrorTypeBadRequest ErrorType = "bad_request"
	// ErrorTypeUnauthorized means the actor lacks rights over the target entity
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	// ErrorTypeConflict covers uniqueness and idempotency violations
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypeStore represents backing store failures
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeCache represents cache layer failures
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Kind returns the error category. It is promoted to every type embedding *BaseError.
func (e *BaseError) Kind() ErrorType {
	return e.Type
}

// Text returns the message without the wrapped cause.
func (e *BaseError) Text() string {
	return e.Message
}

type kinded interface {
	error
	Kind() ErrorType
	Text() string
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Domain errors

// NotFound reports that a referenced entity does not exist.
func NotFound(format string, args ...interface{}) *BaseError {
	return NewBaseError(ErrorTypeNotFound, fmt.Sprintf(format, args...), nil)
}

// BadRequest reports malformed input or a state transition that is not allowed.
func BadRequest(format string, args ...interface{}) *BaseError {
	return NewBaseError(ErrorTypeBadRequest, fmt.Sprintf(format, args...), nil)
}

// Unauthorized reports that the acting user does not own the target entity.
func Unauthorized(format string, args ...interface{}) *BaseError {
	return NewBaseError(ErrorTypeUnauthorized, fmt.Sprintf(format, args...), nil)
}

// Conflict reports a uniqueness violation or a no-op state change.
func Conflict(format string, args ...interface{}) *BaseError {
	return NewBaseError(ErrorTypeConflict, fmt.Sprintf(format, args...), nil)
}

// Store wraps a failure of the authoritative store.
func Store(message string, err error) *BaseError {
	return NewBaseError(ErrorTypeStore, message, err)
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// TypeOf returns the kind of the first BaseError in err's chain, or "" if there is none.
func TypeOf(err error) ErrorType {
	var k kinded
	if stderrors.As(err, &k) {
		return k.Kind()
	}
	return ""
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	return err != nil && TypeOf(err) == errType
}

// MessageOf returns the human-readable message of a typed error, or err.Error() otherwise.
func MessageOf(err error) string {
	var k kinded
	if stderrors.As(err, &k) {
		return k.Text()
	}
	return err.Error()
}
