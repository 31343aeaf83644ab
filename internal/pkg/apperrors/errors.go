package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrResourceNotFound = errors.New("resource not found")

	// Authentication errors
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")

	ErrValidationFailed = errors.New("validation failed")
)

// Persistence errors
var (
	// ErrUniquenessViolation is returned when a write collides with a unique constraint.
	ErrUniquenessViolation = errors.New("uniqueness violation")

	// ErrUnknownField is returned when a filter, ordering or update names a field
	// the entity does not have. It is a validation failure.
	ErrUnknownField = fmt.Errorf("%w: unknown field", ErrValidationFailed)

	// ErrStorage wraps any other failure of the underlying database.
	ErrStorage = errors.New("storage error")
)

// Scheduling errors
var (
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrMinistryInactive   = errors.New("ministry is not active")
	ErrUserNotSchedulable = errors.New("user cannot be scheduled")
	ErrNotificationFailed = errors.New("notification could not be delivered")
)

// TransitionError describes a rejected assignment status change.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

// Unwrap makes errors.Is(err, ErrInvalidTransition) hold.
func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewUnknownFieldError reports a filter, ordering or update on a field table does not have
func NewUnknownFieldError(table, field string) error {
	return &CustomError{
		Err:     ErrUnknownField,
		Message: fmt.Sprintf("%s: %s has no field %q", ErrUnknownField, table, field),
		Field:   field,
	}
}

// NewDuplicateError reports a value of field that another record already holds
func NewDuplicateError(field, message string) error {
	return &CustomError{
		Err:     ErrUniquenessViolation,
		Message: message,
		Field:   field,
	}
}

// Is returns whether err matches target or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	// Field names the offending input, when there is one
	Field string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// FieldOf returns the field carried by a CustomError in err's chain
func FieldOf(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Field
	}
	return ""
}
