package keys

import "errors"

// ValidationError is returned for invalid seed phrases and inconsistent key pairs.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError checks if err is or wraps a ValidationError
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
