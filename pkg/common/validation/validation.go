package validation

import (
	"fmt"

	fserrors "github.com/tchambard/f-streams-async/pkg/common/errors"
)

// ValidatePositive validates that an integer value is positive (> 0).
// Returns a wrapped ErrInvalidConfiguration if the value is not positive.
func ValidatePositive(module, field string, value int) error {
	if value <= 0 {
		return fmt.Errorf("%s: %s=%d must be positive: %w", module, field, value, fserrors.ErrInvalidConfiguration)
	}
	return nil
}

// ValidateNotEmpty validates that a string value is not empty.
// Returns a wrapped ErrInvalidConfiguration if the string is empty.
func ValidateNotEmpty(module, field, value string) error {
	if value == "" {
		return fmt.Errorf("%s: %s cannot be empty: %w", module, field, fserrors.ErrInvalidConfiguration)
	}
	return nil
}

// ValidateNotNil validates that an interface value is not nil.
// Returns a wrapped ErrInvalidConfiguration if the value is nil.
func ValidateNotNil(module, field string, value interface{}) error {
	if value == nil {
		return fmt.Errorf("%s: %s cannot be nil: %w", module, field, fserrors.ErrInvalidConfiguration)
	}
	return nil
}
