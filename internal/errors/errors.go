// Package errors provides custom error types for pricing and harness errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrShapeMismatch       = errors.New("shape mismatch")
	ErrInvalidPrecision    = errors.New("invalid precision")
	ErrInvalidInput        = errors.New("invalid input")
	ErrConfigInvalid       = errors.New("invalid configuration")
	ErrScenarioSetNotFound = errors.New("scenario set not found")
	ErrRunNotFound         = errors.New("pricing run not found")
	ErrDatabaseError       = errors.New("database error")
)

// ShapeError reports an argument whose length cannot be broadcast against the
// batch length.
type ShapeError struct {
	Field string
	Len   int
	Want  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("shape mismatch: %s has length %d, want %d or 1", e.Field, e.Len, e.Want)
}

func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

// NewShapeError creates a new ShapeError.
func NewShapeError(field string, length, want int) *ShapeError {
	return &ShapeError{
		Field: field,
		Len:   length,
		Want:  want,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// StoreError represents a persistence failure.
type StoreError struct {
	Operation string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error [%s]: %v", e.Operation, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is makes every StoreError match ErrDatabaseError.
func (e *StoreError) Is(target error) bool {
	return target == ErrDatabaseError
}

// NewStoreError creates a new StoreError.
func NewStoreError(operation string, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		Err:       err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
