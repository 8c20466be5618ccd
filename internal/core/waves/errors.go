package waves

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a wave is not found by id
	ErrNotFound = errors.New("wave not found")

	// ErrNotAllowed is returned when a caller may not delete a wave.
	// A missing wave is folded into the same denial so callers cannot
	// probe for the existence of deleted or foreign waves.
	ErrNotAllowed = errors.New("not allowed to delete this wave")
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
